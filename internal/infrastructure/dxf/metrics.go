package dxf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"sketch2cad/internal/domain/entity"
)

// ComputeMetrics читает готовый DXF и считает сводные метрики: число
// сущностей, раскладку по типам и слоям и ограничивающий прямоугольник.
// Чтение чистое: повторный вызов на неизменном файле даёт тот же результат.
func ComputeMetrics(path string) (entity.DxfMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.DxfMetrics{}, fmt.Errorf("%w: %v", entity.ErrInput, err)
	}
	defer f.Close()
	return readMetrics(f)
}

func readMetrics(r io.Reader) (entity.DxfMetrics, error) {
	m := entity.DxfMetrics{
		EntitiesByType: map[string]int{},
		Layers:         map[string]int{},
	}

	bb := newBBoxAccum()

	var (
		section     string
		pendingName bool
		cur         *dxfEntity
	)

	finalize := func() {
		if cur == nil {
			return
		}
		m.NumEntities++
		m.EntitiesByType[cur.kind]++
		layer := cur.layer
		if layer == "" {
			layer = "0"
		}
		m.Layers[layer]++
		for _, p := range cur.points() {
			bb.add(p)
		}
		cur = nil
	}

	sc := bufio.NewScanner(r)
	for {
		code, value, ok, err := nextTag(sc)
		if err != nil {
			return entity.DxfMetrics{}, err
		}
		if !ok {
			break
		}

		if code == 0 {
			switch value {
			case "SECTION":
				finalize()
				pendingName = true
				section = ""
			case "ENDSEC":
				finalize()
				section = ""
			case "EOF":
				finalize()
			default:
				if section == "ENTITIES" {
					finalize()
					cur = &dxfEntity{kind: value}
				}
			}
			continue
		}

		if pendingName && code == 2 {
			section = value
			pendingName = false
			continue
		}

		if cur == nil {
			continue
		}
		switch code {
		case 8:
			cur.layer = value
		case 10, 20, 11, 21:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return entity.DxfMetrics{}, fmt.Errorf("%w: bad coordinate %q", entity.ErrInput, value)
			}
			cur.coord(code, v)
		}
	}
	finalize()

	m.BBox = bb.bbox()
	return m, nil
}

// nextTag читает очередную пару «код группы — значение».
func nextTag(sc *bufio.Scanner) (int, string, bool, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, "", false, fmt.Errorf("%w: %v", entity.ErrInput, err)
		}
		return 0, "", false, nil
	}
	codeStr := strings.TrimSpace(sc.Text())
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return 0, "", false, fmt.Errorf("%w: bad group code %q", entity.ErrInput, codeStr)
	}
	if !sc.Scan() {
		return 0, "", false, fmt.Errorf("%w: group code %d without value", entity.ErrInput, code)
	}
	return code, strings.TrimSpace(sc.Text()), true, nil
}

// dxfEntity накапливает координаты одной сущности по ходу чтения.
type dxfEntity struct {
	kind  string
	layer string

	verts   []entity.Point // пары 10/20: вершины полилинии или контрольные точки
	fits    []entity.Point // пары 11/21: интерполяционные точки сплайна
	pendX   float64
	pendFit float64
	hasX    bool
	hasFit  bool
}

func (e *dxfEntity) coord(code int, v float64) {
	switch code {
	case 10:
		e.pendX = v
		e.hasX = true
	case 20:
		if e.hasX {
			e.verts = append(e.verts, entity.Point{X: e.pendX, Y: v})
			e.hasX = false
		}
	case 11:
		e.pendFit = v
		e.hasFit = true
	case 21:
		if e.hasFit {
			e.fits = append(e.fits, entity.Point{X: e.pendFit, Y: v})
			e.hasFit = false
		}
	}
}

// points возвращает репрезентативные координаты сущности: вершины для
// полилиний, интерполяционные точки для сплайнов с откатом на контрольные.
// Неизвестные типы координат не дают.
func (e *dxfEntity) points() []entity.Point {
	switch e.kind {
	case "LWPOLYLINE":
		return e.verts
	case "SPLINE":
		if len(e.fits) > 0 {
			return e.fits
		}
		return e.verts
	}
	return nil
}

type bboxAccum struct {
	minX, minY float64
	maxX, maxY float64
	any        bool
}

func newBBoxAccum() *bboxAccum {
	return &bboxAccum{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
}

func (b *bboxAccum) add(p entity.Point) {
	b.any = true
	b.minX = math.Min(b.minX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxX = math.Max(b.maxX, p.X)
	b.maxY = math.Max(b.maxY, p.Y)
}

// bbox возвращает накопленный прямоугольник; без координат — все нули.
func (b *bboxAccum) bbox() entity.BBox {
	if !b.any {
		return entity.BBox{}
	}
	return entity.BBox{MinX: b.minX, MinY: b.minY, MaxX: b.maxX, MaxY: b.maxY}
}
