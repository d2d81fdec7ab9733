package potrace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"sketch2cad/internal/domain/entity"
)

const potraceSVG = `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 20010904//EN" "http://www.w3.org/TR/2001/REC-SVG-20010904/DTD/svg10.dtd">
<svg version="1.0" xmlns="http://www.w3.org/2000/svg" width="4pt" height="4pt" viewBox="0 0 4 4">
<metadata>Created by potrace 1.16</metadata>
<g transform="translate(0,4) scale(1,-1)" fill="#000000" stroke="none">
<path d="M1 1 L3 1 L3 3 L1 3 z"/>
</g>
</svg>
`

func TestParseSVGAppliesGroupTransform(t *testing.T) {
	paths, err := parseSVG([]byte(potraceSVG))
	require.NoError(t, err)
	require.Len(t, paths, 1)

	p := paths[0]
	require.True(t, p.Closed)
	require.Equal(t, entity.LayerOutline, p.Layer)
	require.Len(t, p.Segments, 4)

	// translate(0,4) scale(1,-1): точка (1,1) переходит в (1,3).
	require.Equal(t, entity.Point{X: 1, Y: 3}, p.Segments[0].Pts[0])
	require.Equal(t, entity.Point{X: 3, Y: 3}, p.Segments[0].Pts[1])

	// Замыкающий сегмент возвращается в начало.
	last := p.Segments[len(p.Segments)-1]
	require.Equal(t, p.Segments[0].Pts[0], last.Pts[len(last.Pts)-1])
}

func TestParseSVGCubicAndRelative(t *testing.T) {
	svg := `<svg><path d="M0 0 c 1 2 2 2 3 0 l 2 0 z"/></svg>`
	paths, err := parseSVG([]byte(svg))
	require.NoError(t, err)
	require.Len(t, paths, 1)

	segs := paths[0].Segments
	require.Equal(t, entity.SegmentCubic, segs[0].Kind)
	require.Equal(t, entity.Point{X: 1, Y: 2}, segs[0].Pts[1])
	require.Equal(t, entity.Point{X: 3, Y: 0}, segs[0].Pts[3])

	require.Equal(t, entity.SegmentLine, segs[1].Kind)
	require.Equal(t, entity.Point{X: 5, Y: 0}, segs[1].Pts[1])

	// Замыкание добавляет отрезок (5,0)->(0,0).
	require.Equal(t, entity.Point{X: 0, Y: 0}, segs[2].Pts[1])
	require.True(t, paths[0].Closed)
}

func TestParseSVGMultipleSubpaths(t *testing.T) {
	svg := `<svg><path d="M0 0 L1 0 L1 1 z M5 5 L6 5"/></svg>`
	paths, err := parseSVG([]byte(svg))
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.True(t, paths[0].Closed)
	require.False(t, paths[1].Closed)
	require.Len(t, paths[1].Segments, 1)
}

func TestParseSVGImplicitLineto(t *testing.T) {
	// После moveto лишние пары координат — неявные lineto.
	svg := `<svg><path d="M0 0 1 0 1 1"/></svg>`
	paths, err := parseSVG([]byte(svg))
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Segments, 2)
	require.Equal(t, entity.SegmentLine, paths[0].Segments[1].Kind)
}

func TestParseSVGQuad(t *testing.T) {
	svg := `<svg><path d="M0 0 Q 2 4 4 0"/></svg>`
	paths, err := parseSVG([]byte(svg))
	require.NoError(t, err)
	require.Equal(t, entity.SegmentQuad, paths[0].Segments[0].Kind)
	require.Equal(t, entity.Point{X: 2, Y: 4}, paths[0].Segments[0].Pts[1])
}

func TestParseSVGNestedGroups(t *testing.T) {
	svg := `<svg><g transform="translate(10,0)"><g transform="scale(2)"><path d="M1 1 L2 1"/></g></g></svg>`
	paths, err := parseSVG([]byte(svg))
	require.NoError(t, err)
	// Родительская группа применяется после дочерней: (1,1) -> (2,2) -> (12,2).
	require.Equal(t, entity.Point{X: 12, Y: 2}, paths[0].Segments[0].Pts[0])
}

func TestParseSVGBadPathData(t *testing.T) {
	svg := `<svg><path d="M0 0 L oops"/></svg>`
	_, err := parseSVG([]byte(svg))
	require.Error(t, err)
	require.True(t, errors.Is(err, entity.ErrExternalTool))
}

func TestParseSVGNoPaths(t *testing.T) {
	paths, err := parseSVG([]byte(`<svg></svg>`))
	require.NoError(t, err)
	require.Empty(t, paths)
}
