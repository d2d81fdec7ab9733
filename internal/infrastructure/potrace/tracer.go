package potrace

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/image/bmp"

	"sketch2cad/internal/domain/entity"
)

// CLITracer запускает внешний potrace и разбирает его SVG-вывод.
// Все пути получают слой OUTLINE; вызывающая сторона переразмечает их
// по контексту вызова.
type CLITracer struct {
	Executable string // имя или путь двоичного файла potrace
	DebugDir   string // необязательный каталог для копий сырого SVG

	calls atomic.Int64
}

// NewCLITracer создаёт адаптер. Пустое имя означает potrace из PATH.
func NewCLITracer(executable string) *CLITracer {
	if executable == "" {
		executable = "potrace"
	}
	return &CLITracer{Executable: executable}
}

// Trace обводит маску: пишет BMP во временный каталог, вызывает potrace
// и разбирает полученный SVG. Временные файлы удаляются на любом исходе.
func (t *CLITracer) Trace(ctx context.Context, mask entity.Mask) ([]entity.VectorPath, error) {
	if mask.Width <= 0 || mask.Height <= 0 {
		return nil, fmt.Errorf("%w: mask has no pixels", entity.ErrInput)
	}

	exe, err := exec.LookPath(t.Executable)
	if err != nil {
		return nil, fmt.Errorf("%w: potrace not found (Ubuntu/Debian: apt install potrace): %v",
			entity.ErrExternalTool, err)
	}

	dir, err := os.MkdirTemp("", "sketch2cad-trace-")
	if err != nil {
		return nil, fmt.Errorf("%w: scratch dir: %v", entity.ErrExternalTool, err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.bmp")
	outPath := filepath.Join(dir, "out.svg")
	if err := writeBitmap(inPath, mask); err != nil {
		return nil, err
	}

	// -u 1 фиксирует единицы вывода, чтобы не ловить неожиданные масштабы.
	cmd := exec.CommandContext(ctx, exe, inPath, "-s", "-u", "1", "-o", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: potrace failed: %v: %s",
			entity.ErrExternalTool, err, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read potrace output: %v", entity.ErrExternalTool, err)
	}

	t.dumpDebug(data)

	return parseSVG(data)
}

// dumpDebug копирует сырой SVG для инспекции; на результат не влияет.
func (t *CLITracer) dumpDebug(data []byte) {
	if t.DebugDir == "" {
		return
	}
	n := t.calls.Add(1)
	path := filepath.Join(t.DebugDir, fmt.Sprintf("potrace_%03d.svg", n))
	if err := os.MkdirAll(t.DebugDir, 0o755); err != nil {
		log.Printf("debug svg dir: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("debug svg copy: %v", err)
	}
}

// writeBitmap сохраняет маску в полярности potrace: фигуры чёрным по
// белому фону, то есть инверсно нашей маске чернил.
func writeBitmap(path string, mask entity.Mask) error {
	img := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			v := uint8(255)
			if mask.At(x, y) {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: scratch bitmap: %v", entity.ErrExternalTool, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		return fmt.Errorf("%w: encode bitmap: %v", entity.ErrExternalTool, err)
	}
	return nil
}
