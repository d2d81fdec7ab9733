package entity

import "fmt"

// Слои чертежа, которые конвейер объявляет всегда.
const (
	LayerOutline = "OUTLINE" // внешние контуры детали
	LayerHoles   = "HOLES"   // отверстия внутри контуров
	LayerRef     = "REF"     // калибровочная метка
)

// Point — точка в пиксельных координатах исходного растра.
type Point struct {
	X float64
	Y float64
}

// SegmentKind — вид сегмента векторного пути.
type SegmentKind int

const (
	SegmentLine  SegmentKind = iota // отрезок, 2 точки
	SegmentQuad                     // квадратичная кривая Безье, 3 точки
	SegmentCubic                    // кубическая кривая Безье, 4 точки
)

// String возвращает имя вида сегмента.
func (k SegmentKind) String() string {
	switch k {
	case SegmentLine:
		return "line"
	case SegmentQuad:
		return "quad_bezier"
	case SegmentCubic:
		return "cubic_bezier"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

func (k SegmentKind) pointCount() int {
	switch k {
	case SegmentLine:
		return 2
	case SegmentQuad:
		return 3
	case SegmentCubic:
		return 4
	}
	return 0
}

// PathSegment — один сегмент пути. Число точек определяется видом:
// 2 для отрезка, 3 для квадратичной и 4 для кубической кривой.
type PathSegment struct {
	Kind SegmentKind
	Pts  []Point
}

// LineSegment создаёт отрезок.
func LineSegment(p0, p1 Point) PathSegment {
	return PathSegment{Kind: SegmentLine, Pts: []Point{p0, p1}}
}

// QuadSegment создаёт квадратичную кривую Безье.
func QuadSegment(p0, c, p1 Point) PathSegment {
	return PathSegment{Kind: SegmentQuad, Pts: []Point{p0, c, p1}}
}

// CubicSegment создаёт кубическую кривую Безье.
func CubicSegment(p0, c1, c2, p1 Point) PathSegment {
	return PathSegment{Kind: SegmentCubic, Pts: []Point{p0, c1, c2, p1}}
}

// Validate проверяет соответствие числа точек виду сегмента.
func (s PathSegment) Validate() error {
	want := s.Kind.pointCount()
	if want == 0 || len(s.Pts) != want {
		return fmt.Errorf("%w: segment %s expects %d points, got %d",
			ErrGeometry, s.Kind, want, len(s.Pts))
	}
	return nil
}

// Curved сообщает, является ли сегмент кривой.
func (s PathSegment) Curved() bool {
	return s.Kind != SegmentLine
}

// Sample возвращает точки дискретизации сегмента.
// Для кривых это n+1 точек равномерно по параметру t из [0,1]; первая и
// последняя воспроизводят концы сегмента побитово. Для отрезка возвращаются
// ровно его две концевые точки независимо от n.
func (s PathSegment) Sample(n int) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Kind == SegmentLine {
		return []Point{s.Pts[0], s.Pts[1]}, nil
	}
	if n < 1 {
		n = 1
	}
	out := make([]Point, 0, n+1)
	out = append(out, s.Pts[0])
	for i := 1; i < n; i++ {
		out = append(out, s.at(float64(i)/float64(n)))
	}
	out = append(out, s.Pts[len(s.Pts)-1])
	return out, nil
}

// at вычисляет точку кривой по полиномам Бернштейна.
func (s PathSegment) at(t float64) Point {
	u := 1 - t
	switch s.Kind {
	case SegmentQuad:
		p0, c, p1 := s.Pts[0], s.Pts[1], s.Pts[2]
		return Point{
			X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
			Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
		}
	case SegmentCubic:
		p0, c1, c2, p1 := s.Pts[0], s.Pts[1], s.Pts[2], s.Pts[3]
		return Point{
			X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
			Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
		}
	}
	return s.Pts[0]
}

// VectorPath — упорядоченный набор сегментов одного контура.
// Создаётся один раз при трассировке и дальше не меняется.
type VectorPath struct {
	Segments []PathSegment
	Closed   bool
	Layer    string
}

// Curved сообщает, содержит ли путь хотя бы один криволинейный сегмент.
func (p VectorPath) Curved() bool {
	for _, s := range p.Segments {
		if s.Curved() {
			return true
		}
	}
	return false
}
