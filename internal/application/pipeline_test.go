package app

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sketch2cad/internal/domain/entity"
	"sketch2cad/internal/infrastructure/dxf"
)

// stubPreprocessor возвращает заранее подготовленную маску.
type stubPreprocessor struct {
	mask entity.Mask
	err  error
}

func (s *stubPreprocessor) LoadBinary(path string, params entity.PreprocessParams) (entity.Mask, *image.Gray, error) {
	if s.err != nil {
		return entity.Mask{}, nil, s.err
	}
	return s.mask, nil, nil
}

// stubSegmenter отдаёт вход как внешнюю маску без отверстий.
type stubSegmenter struct {
	holes entity.Mask
}

func (s *stubSegmenter) Clean(bin entity.Mask) (entity.Mask, error) {
	return bin, nil
}

func (s *stubSegmenter) SplitOuterHoles(bin entity.Mask, gray *image.Gray) (entity.Mask, entity.Mask, error) {
	holes := s.holes
	if holes.Width == 0 {
		holes = entity.NewMask(bin.Width, bin.Height)
	}
	return bin, holes, nil
}

// stubTracer возвращает канонические пути вместо вызова potrace.
type stubTracer struct {
	paths  []entity.VectorPath
	err    error
	ncalls int
}

func (s *stubTracer) Trace(ctx context.Context, mask entity.Mask) ([]entity.VectorPath, error) {
	s.ncalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.VectorPath, len(s.paths))
	copy(out, s.paths)
	return out, nil
}

// Сценарий из регрессионного набора: маска 400x300 с прямоугольником
// 260 px шириной и отдельной опорной линией 200 px, масштаб 0.5 мм/px.
func TestPipelineEndToEnd(t *testing.T) {
	mask := entity.NewMask(400, 300)
	for y := 80; y < 220; y++ {
		for x := 60; x < 320; x++ {
			mask.Set(x, y, true)
		}
	}

	rect := entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.LineSegment(entity.Point{X: 60, Y: 80}, entity.Point{X: 320, Y: 80}),
			entity.LineSegment(entity.Point{X: 320, Y: 80}, entity.Point{X: 320, Y: 220}),
			entity.LineSegment(entity.Point{X: 320, Y: 220}, entity.Point{X: 60, Y: 220}),
			entity.LineSegment(entity.Point{X: 60, Y: 220}, entity.Point{X: 60, Y: 80}),
		},
		Closed: true,
	}
	refMark := entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.LineSegment(entity.Point{X: 60, Y: 260}, entity.Point{X: 260, Y: 260}),
		},
	}

	out := filepath.Join(t.TempDir(), "out.dxf")
	cfg := DefaultPipelineConfig("sketch.png", out)
	cfg.RefMM = 100
	cfg.RefPx = 200

	tracer := &stubTracer{paths: []entity.VectorPath{rect, refMark}}
	svc := NewPipelineService(
		&stubPreprocessor{mask: mask},
		&stubSegmenter{},
		tracer,
		dxf.NewExporter(16, true),
	)

	rep := svc.Run(context.Background(), cfg)
	require.Equal(t, entity.StatusOK, rep.Status, "errors: %v", rep.Errors)
	require.Equal(t, 400, rep.Width)
	require.Equal(t, 300, rep.Height)
	require.Equal(t, 0.5, rep.MMPerPx)
	require.Equal(t, 2, rep.NumPaths)
	require.Equal(t, 1, tracer.ncalls) // отверстий нет — второй трассировки нет

	m, err := dxf.ComputeMetrics(out)
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.Layers[entity.LayerOutline], 1)

	// Ширина рамки: 260 px * 0.5 мм/px, допуск 2 мм.
	require.InDelta(t, 130.0, m.BBox.MaxX-m.BBox.MinX, 2.0)

	// Отчёт лежит рядом с чертежом.
	data, err := os.ReadFile(ReportPath(out))
	require.NoError(t, err)
	var fromDisk entity.Report
	require.NoError(t, json.Unmarshal(data, &fromDisk))
	require.Equal(t, entity.StatusOK, fromDisk.Status)
	require.Equal(t, rep.RunID, fromDisk.RunID)
}

func TestPipelineTracesHolesSeparately(t *testing.T) {
	mask := entity.NewMask(100, 100)
	mask.Set(50, 50, true)
	holes := entity.NewMask(100, 100)
	holes.Set(10, 10, true)

	square := entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.LineSegment(entity.Point{}, entity.Point{X: 10}),
			entity.LineSegment(entity.Point{X: 10}, entity.Point{X: 10, Y: 10}),
			entity.LineSegment(entity.Point{X: 10, Y: 10}, entity.Point{Y: 10}),
			entity.LineSegment(entity.Point{Y: 10}, entity.Point{}),
		},
		Closed: true,
	}

	out := filepath.Join(t.TempDir(), "out.dxf")
	cfg := DefaultPipelineConfig("sketch.png", out)
	cfg.MMPerPx = 1

	tracer := &stubTracer{paths: []entity.VectorPath{square}}
	svc := NewPipelineService(
		&stubPreprocessor{mask: mask},
		&stubSegmenter{holes: holes},
		tracer,
		dxf.NewExporter(16, true),
	)

	rep := svc.Run(context.Background(), cfg)
	require.Equal(t, entity.StatusOK, rep.Status, "errors: %v", rep.Errors)
	require.Equal(t, 2, tracer.ncalls)
	require.Equal(t, 2, rep.NumPaths)

	m, err := dxf.ComputeMetrics(out)
	require.NoError(t, err)
	require.Equal(t, 1, m.Layers[entity.LayerOutline])
	require.Equal(t, 1, m.Layers[entity.LayerHoles])
}

func TestPipelineReportsCalibrationError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.dxf")
	cfg := DefaultPipelineConfig("sketch.png", out)
	// Калибровка не задана.

	svc := NewPipelineService(
		&stubPreprocessor{mask: entity.NewMask(10, 10)},
		&stubSegmenter{},
		&stubTracer{},
		dxf.NewExporter(16, true),
	)

	rep := svc.Run(context.Background(), cfg)
	require.Equal(t, entity.StatusError, rep.Status)
	require.NotEmpty(t, rep.Errors)

	// DXF не появляется, а отчёт об ошибке — появляется.
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(ReportPath(out))
	require.NoError(t, err)
}

func TestPipelineReportsInputError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.dxf")
	cfg := DefaultPipelineConfig("missing.png", out)
	cfg.MMPerPx = 1

	inputErr := errors.New("input error: cannot read image")
	svc := NewPipelineService(
		&stubPreprocessor{err: inputErr},
		&stubSegmenter{},
		&stubTracer{},
		dxf.NewExporter(16, true),
	)

	rep := svc.Run(context.Background(), cfg)
	require.Equal(t, entity.StatusError, rep.Status)
	require.Contains(t, rep.Errors[0], "cannot read image")
}
