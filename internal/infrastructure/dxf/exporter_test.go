package dxf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sketch2cad/internal/domain/entity"
)

func rectPath(layer string) entity.VectorPath {
	return entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.LineSegment(entity.Point{X: 0, Y: 0}, entity.Point{X: 100, Y: 0}),
			entity.LineSegment(entity.Point{X: 100, Y: 0}, entity.Point{X: 100, Y: 50}),
			entity.LineSegment(entity.Point{X: 100, Y: 50}, entity.Point{X: 0, Y: 50}),
			entity.LineSegment(entity.Point{X: 0, Y: 50}, entity.Point{X: 0, Y: 0}),
		},
		Closed: true,
		Layer:  layer,
	}
}

func TestExportRejectsBadScale(t *testing.T) {
	e := NewExporter(16, true)
	out := filepath.Join(t.TempDir(), "out.dxf")

	for _, scale := range []float64{0, -0.5} {
		err := e.Export(nil, out, scale)
		require.Error(t, err)
		require.True(t, errors.Is(err, entity.ErrExport))
	}

	// Файл не создаётся даже частично.
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestExportEmptyStillDeclaresLayers(t *testing.T) {
	e := NewExporter(16, true)
	out := filepath.Join(t.TempDir(), "empty.dxf")
	require.NoError(t, e.Export(nil, out, 1.0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	for _, layer := range []string{"OUTLINE", "HOLES", "REF"} {
		require.Contains(t, string(data), layer)
	}

	m, err := ComputeMetrics(out)
	require.NoError(t, err)
	require.Zero(t, m.NumEntities)
	require.Equal(t, entity.BBox{}, m.BBox)
}

func TestExportPolylineRoundTrip(t *testing.T) {
	e := NewExporter(16, true)
	out := filepath.Join(t.TempDir(), "rect.dxf")
	require.NoError(t, e.Export([]entity.VectorPath{rectPath(entity.LayerOutline)}, out, 0.5))

	m, err := ComputeMetrics(out)
	require.NoError(t, err)
	require.Equal(t, 1, m.NumEntities)
	require.Equal(t, 1, m.EntitiesByType["LWPOLYLINE"])
	require.Equal(t, 1, m.Layers["OUTLINE"])

	// Масштаб 0.5: прямоугольник 100x50 px превращается в 50x25 мм.
	require.InDelta(t, 50.0, m.BBox.MaxX-m.BBox.MinX, 1e-6)
	require.InDelta(t, 25.0, m.BBox.MaxY-m.BBox.MinY, 1e-6)
}

func TestExportCurvedPathBecomesSpline(t *testing.T) {
	curve := entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.CubicSegment(
				entity.Point{X: 0, Y: 0},
				entity.Point{X: 10, Y: 20},
				entity.Point{X: 30, Y: 20},
				entity.Point{X: 40, Y: 0},
			),
		},
		Closed: false,
		Layer:  entity.LayerHoles,
	}

	e := NewExporter(8, true)
	out := filepath.Join(t.TempDir(), "curve.dxf")
	require.NoError(t, e.Export([]entity.VectorPath{curve}, out, 1.0))

	m, err := ComputeMetrics(out)
	require.NoError(t, err)
	require.Equal(t, 1, m.EntitiesByType["SPLINE"])
	require.Equal(t, 1, m.Layers["HOLES"])
	require.InDelta(t, 0.0, m.BBox.MinX, 1e-6)
	require.InDelta(t, 40.0, m.BBox.MaxX, 1e-6)
}

func TestExportCurvedPathPolylineWhenNotPreferred(t *testing.T) {
	curve := entity.VectorPath{
		Segments: []entity.PathSegment{
			entity.QuadSegment(entity.Point{}, entity.Point{X: 5, Y: 10}, entity.Point{X: 10, Y: 0}),
		},
	}

	e := NewExporter(8, false)
	out := filepath.Join(t.TempDir(), "flat.dxf")
	require.NoError(t, e.Export([]entity.VectorPath{curve}, out, 1.0))

	m, err := ComputeMetrics(out)
	require.NoError(t, err)
	require.Equal(t, 1, m.EntitiesByType["LWPOLYLINE"])
	require.Zero(t, m.EntitiesByType["SPLINE"])
}

func TestExportSkipsEmptyPaths(t *testing.T) {
	e := NewExporter(16, true)
	out := filepath.Join(t.TempDir(), "skip.dxf")
	paths := []entity.VectorPath{
		{Layer: entity.LayerOutline}, // без сегментов
		rectPath(entity.LayerRef),
	}
	require.NoError(t, e.Export(paths, out, 1.0))

	m, err := ComputeMetrics(out)
	require.NoError(t, err)
	require.Equal(t, 1, m.NumEntities)
	require.Equal(t, 1, m.Layers["REF"])
}

func TestExportCustomLayerDeclared(t *testing.T) {
	e := NewExporter(16, true)
	out := filepath.Join(t.TempDir(), "custom.dxf")
	require.NoError(t, e.Export([]entity.VectorPath{rectPath("NOTES")}, out, 1.0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "NOTES")
}

func TestExportBadSegmentSurfacesGeometryError(t *testing.T) {
	bad := entity.VectorPath{
		Segments: []entity.PathSegment{{Kind: entity.SegmentCubic, Pts: []entity.Point{{X: 1}}}},
	}
	e := NewExporter(16, true)
	err := e.Export([]entity.VectorPath{bad}, filepath.Join(t.TempDir(), "bad.dxf"), 1.0)
	require.True(t, errors.Is(err, entity.ErrGeometry))
}

func TestSamplePathDedup(t *testing.T) {
	// Конец одного сегмента совпадает с началом следующего —
	// дубликат схлопывается в одну точку.
	p := rectPath(entity.LayerOutline)
	pts, err := samplePath(p, 16)
	require.NoError(t, err)
	require.Len(t, pts, 5)

	// Без дублей подряд.
	for i := 1; i < len(pts); i++ {
		require.NotEqual(t, pts[i-1], pts[i])
	}
}

func TestExportAtomicNoTempLeft(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(16, true)
	require.NoError(t, e.Export([]entity.VectorPath{rectPath(entity.LayerOutline)}, filepath.Join(dir, "a.dxf"), 1.0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, en := range entries {
		require.False(t, strings.HasSuffix(en.Name(), ".tmp"))
	}
}
