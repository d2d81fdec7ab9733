// Package dxf пишет и читает минимальный ASCII DXF (AC1015): слои,
// полилинии LWPOLYLINE и сплайны SPLINE с интерполяционными точками.
package dxf

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"sketch2cad/internal/domain/entity"
)

// dedupTol — допуск схлопывания совпадающих соседних точек.
const dedupTol = 1e-6

const defaultSamples = 16

// Exporter пишет векторные пути в DXF с послойной разметкой.
// Samples задаёт число шагов дискретизации кривых; PreferSpline включает
// вывод криволинейных путей сущностью SPLINE вместо полилинии.
type Exporter struct {
	Samples      int
	PreferSpline bool
}

// NewExporter создаёт экспортёр; samples < 1 заменяется умолчанием.
func NewExporter(samples int, preferSpline bool) *Exporter {
	if samples < 1 {
		samples = defaultSamples
	}
	return &Exporter{Samples: samples, PreferSpline: preferSpline}
}

// Export записывает чертёж. Масштаб проверяется до любого вывода;
// файл появляется по итоговому пути только целиком, через rename.
func (e *Exporter) Export(paths []entity.VectorPath, outPath string, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("%w: scale must be > 0, got %g", entity.ErrExport, scale)
	}

	// Слои OUTLINE, HOLES и REF объявляются всегда, даже неиспользуемые.
	layers := []string{entity.LayerOutline, entity.LayerHoles, entity.LayerRef}
	seen := map[string]bool{entity.LayerOutline: true, entity.LayerHoles: true, entity.LayerRef: true}
	for _, p := range paths {
		if p.Layer != "" && !seen[p.Layer] {
			seen[p.Layer] = true
			layers = append(layers, p.Layer)
		}
	}

	var b strings.Builder
	writeHeader(&b)
	writeLayerTable(&b, layers)

	tag(&b, 0, "SECTION")
	tag(&b, 2, "ENTITIES")
	for _, p := range paths {
		pts, err := samplePath(p, e.Samples)
		if err != nil {
			return err
		}
		if len(pts) == 0 {
			continue
		}
		for i := range pts {
			pts[i].X *= scale
			pts[i].Y *= scale
		}
		layer := p.Layer
		if layer == "" {
			layer = entity.LayerOutline
		}
		if p.Curved() && e.PreferSpline && len(pts) >= 4 {
			writeSpline(&b, layer, pts, p.Closed)
		} else {
			writePolyline(&b, layer, pts, p.Closed)
		}
	}
	tag(&b, 0, "ENDSEC")
	tag(&b, 0, "EOF")

	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", entity.ErrExport, tmp, err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename to %s: %v", entity.ErrExport, outPath, err)
	}
	return nil
}

// samplePath строит дискретную последовательность точек пути,
// схлопывая совпадающие соседние точки на стыках сегментов.
func samplePath(p entity.VectorPath, samples int) ([]entity.Point, error) {
	var out []entity.Point
	for _, s := range p.Segments {
		pts, err := s.Sample(samples)
		if err != nil {
			return nil, err
		}
		for _, pt := range pts {
			out = appendDedup(out, pt)
		}
	}
	return out, nil
}

func appendDedup(pts []entity.Point, p entity.Point) []entity.Point {
	if n := len(pts); n > 0 {
		last := pts[n-1]
		if math.Abs(last.X-p.X) <= dedupTol && math.Abs(last.Y-p.Y) <= dedupTol {
			return pts
		}
	}
	return append(pts, p)
}

func writeHeader(b *strings.Builder) {
	tag(b, 0, "SECTION")
	tag(b, 2, "HEADER")
	tag(b, 9, "$ACADVER")
	tag(b, 1, "AC1015")
	// $INSUNITS = 4: миллиметры.
	tag(b, 9, "$INSUNITS")
	tag(b, 70, "4")
	tag(b, 0, "ENDSEC")
}

func writeLayerTable(b *strings.Builder, layers []string) {
	tag(b, 0, "SECTION")
	tag(b, 2, "TABLES")
	tag(b, 0, "TABLE")
	tag(b, 2, "LAYER")
	tag(b, 70, strconv.Itoa(len(layers)))
	for _, name := range layers {
		tag(b, 0, "LAYER")
		tag(b, 2, name)
		tag(b, 70, "0")
		tag(b, 62, "7")
		tag(b, 6, "CONTINUOUS")
	}
	tag(b, 0, "ENDTAB")
	tag(b, 0, "ENDSEC")
}

func writePolyline(b *strings.Builder, layer string, pts []entity.Point, closed bool) {
	tag(b, 0, "LWPOLYLINE")
	tag(b, 8, layer)
	tag(b, 90, strconv.Itoa(len(pts)))
	flags := 0
	if closed {
		flags = 1
	}
	tag(b, 70, strconv.Itoa(flags))
	for _, p := range pts {
		ftag(b, 10, p.X)
		ftag(b, 20, p.Y)
	}
}

func writeSpline(b *strings.Builder, layer string, pts []entity.Point, closed bool) {
	tag(b, 0, "SPLINE")
	tag(b, 8, layer)
	// Бит 1 — замкнутый, бит 8 — плоский.
	flags := 8
	if closed {
		flags |= 1
	}
	tag(b, 70, strconv.Itoa(flags))
	tag(b, 71, "3")
	tag(b, 74, strconv.Itoa(len(pts)))
	for _, p := range pts {
		ftag(b, 11, p.X)
		ftag(b, 21, p.Y)
		ftag(b, 31, 0)
	}
}

func tag(b *strings.Builder, code int, value string) {
	b.WriteString(strconv.Itoa(code))
	b.WriteByte('\n')
	b.WriteString(value)
	b.WriteByte('\n')
}

func ftag(b *strings.Builder, code int, v float64) {
	tag(b, code, strconv.FormatFloat(v, 'f', 6, 64))
}
