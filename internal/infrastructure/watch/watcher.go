// Package watch следит за входным каталогом и запускает конвейер
// для каждого появившегося эскиза.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"sketch2cad/internal/domain/entity"
	"sketch2cad/internal/domain/port"
)

// RunFunc обрабатывает один входной файл и возвращает отчёт прогона.
type RunFunc func(ctx context.Context, inputPath, outputDXF string) entity.Report

// Config задаёт каталоги и параметры ожидания устойчивости файла.
type Config struct {
	InputDir  string
	OutputDir string

	// Файл считается дописанным после StableChecks одинаковых замеров
	// размера подряд с интервалом StableInterval.
	StableChecks   int
	StableInterval time.Duration
}

// Service — сервис наблюдения за каталогом.
type Service struct {
	cfg      Config
	run      RunFunc
	notifier port.Notifier // может быть nil
}

// NewService создаёт сервис. Нулевые параметры устойчивости заменяются
// умолчаниями: 3 замера с интервалом 250 мс.
func NewService(cfg Config, run RunFunc, notifier port.Notifier) *Service {
	if cfg.StableChecks <= 0 {
		cfg.StableChecks = 3
	}
	if cfg.StableInterval <= 0 {
		cfg.StableInterval = 250 * time.Millisecond
	}
	return &Service{cfg: cfg, run: run, notifier: notifier}
}

// Run блокирует до отмены контекста, обрабатывая события файловой системы.
func (s *Service) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.InputDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.cfg.InputDir); err != nil {
		return err
	}

	log.Printf("Watching %s -> %s", s.cfg.InputDir, s.cfg.OutputDir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Экспортёры пишут файл и дописывают его: ловим оба события.
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			s.handle(ctx, ev.Name)
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", werr)
		}
	}
}

func (s *Service) handle(ctx context.Context, path string) {
	if !isSketch(path) {
		return
	}
	if !s.waitStable(path) {
		log.Printf("skip unstable file: %s", path)
		return
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDXF := filepath.Join(s.cfg.OutputDir, base+".dxf")

	rep := s.run(ctx, path, outDXF)
	if rep.Status != entity.StatusOK {
		log.Printf("pipeline failed for %s: %v", path, rep.Errors)
		s.quarantine(path)
		return
	}

	log.Printf("DXF written: %s (%d paths)", outDXF, rep.NumPaths)
	if s.notifier != nil {
		if err := s.notifier.NotifyResult(ctx, rep); err != nil {
			log.Printf("notify: %v", err)
		}
	}
}

// isSketch отбирает поддерживаемые расширения входных изображений.
func isSketch(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// waitStable ждёт, пока размер файла не перестанет меняться: нужно
// StableChecks одинаковых замеров подряд, изменение размера сбрасывает
// счёт. Исчезновение файла — отказ.
func (s *Service) waitStable(path string) bool {
	var last int64 = -1
	same := 0
	for attempt := 0; attempt < s.cfg.StableChecks*10; attempt++ {
		st, err := os.Stat(path)
		if err != nil {
			return false
		}
		if st.Size() == last {
			same++
		} else {
			same = 1
			last = st.Size()
		}
		if same >= s.cfg.StableChecks {
			return true
		}
		time.Sleep(s.cfg.StableInterval)
	}
	return false
}

// quarantine убирает проблемный файл в _failed, чтобы не зациклиться
// на повторной обработке.
func (s *Service) quarantine(path string) {
	failedDir := filepath.Join(s.cfg.OutputDir, "_failed")
	if err := os.MkdirAll(failedDir, 0o755); err != nil {
		log.Printf("quarantine dir: %v", err)
		return
	}
	target := filepath.Join(failedDir, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		return
	}
	if err := os.Rename(path, target); err != nil {
		log.Printf("quarantine %s: %v", path, err)
	}
}
