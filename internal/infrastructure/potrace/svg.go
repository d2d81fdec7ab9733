package potrace

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"sketch2cad/internal/domain/entity"
)

// closeTol — допуск совпадения конечной и начальной точек подпути.
const closeTol = 1e-6

// parseSVG разбирает SVG-вывод potrace: элементы <path> внутри
// необязательных групп <g transform="...">. Преобразования групп
// компонуются сверху вниз и применяются к каждой точке каждого сегмента.
func parseSVG(data []byte) ([]entity.VectorPath, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	stack := []entity.Affine{entity.AffineIdentity()}
	var paths []entity.VectorPath

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: svg parse: %v", entity.ErrExternalTool, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "g":
				tf := stack[len(stack)-1]
				for _, a := range t.Attr {
					if a.Name.Local == "transform" {
						tf = tf.Mul(ParseTransform(a.Value))
					}
				}
				stack = append(stack, tf)
			case "path":
				var d string
				for _, a := range t.Attr {
					if a.Name.Local == "d" {
						d = a.Value
					}
				}
				ps, err := parsePathData(d, stack[len(stack)-1])
				if err != nil {
					return nil, err
				}
				paths = append(paths, ps...)
			}
		case xml.EndElement:
			if t.Name.Local == "g" && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return paths, nil
}

// parsePathData разбирает атрибут d одного элемента path. Каждый подпуть
// (от M до z или до следующего M) становится отдельным контуром; z замыкает
// только свой подпуть. tf применяется к точкам при создании сегментов,
// относительные команды считаются в исходных координатах.
func parsePathData(d string, tf entity.Affine) ([]entity.VectorPath, error) {
	p := &pathScanner{s: d}
	var out []entity.VectorPath
	var cur []entity.PathSegment
	var pos, start entity.Point
	cmd := byte(0)

	flush := func(closed bool) {
		if len(cur) > 0 {
			out = append(out, entity.VectorPath{
				Segments: cur,
				Closed:   closed,
				Layer:    entity.LayerOutline,
			})
		}
		cur = nil
	}

	for {
		p.skipSep()
		if p.done() {
			break
		}
		if c, ok := p.peekCommand(); ok {
			cmd = c
			p.i++
			if cmd == 'Z' || cmd == 'z' {
				if len(cur) > 0 {
					if math.Abs(pos.X-start.X) > closeTol || math.Abs(pos.Y-start.Y) > closeTol {
						cur = append(cur, entity.LineSegment(tf.Apply(pos), tf.Apply(start)))
					}
					flush(true)
				}
				pos = start
				cmd = 0
				continue
			}
		} else if cmd == 0 {
			return nil, fmt.Errorf("%w: path data starts without command: %q", entity.ErrExternalTool, d)
		}

		rel := cmd >= 'a'
		switch cmd {
		case 'M', 'm':
			np, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			if rel {
				np.X += pos.X
				np.Y += pos.Y
			}
			flush(false)
			pos, start = np, np
			// Дополнительные пары после moveto — неявные lineto.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L', 'l':
			np, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			if rel {
				np.X += pos.X
				np.Y += pos.Y
			}
			cur = append(cur, entity.LineSegment(tf.Apply(pos), tf.Apply(np)))
			pos = np

		case 'H', 'h':
			x, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			np := entity.Point{X: x, Y: pos.Y}
			if rel {
				np.X += pos.X
			}
			cur = append(cur, entity.LineSegment(tf.Apply(pos), tf.Apply(np)))
			pos = np

		case 'V', 'v':
			y, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			np := entity.Point{X: pos.X, Y: y}
			if rel {
				np.Y += pos.Y
			}
			cur = append(cur, entity.LineSegment(tf.Apply(pos), tf.Apply(np)))
			pos = np

		case 'C', 'c':
			c1, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			c2, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			np, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			if rel {
				c1.X += pos.X
				c1.Y += pos.Y
				c2.X += pos.X
				c2.Y += pos.Y
				np.X += pos.X
				np.Y += pos.Y
			}
			cur = append(cur, entity.CubicSegment(tf.Apply(pos), tf.Apply(c1), tf.Apply(c2), tf.Apply(np)))
			pos = np

		case 'Q', 'q':
			c, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			np, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			if rel {
				c.X += pos.X
				c.Y += pos.Y
				np.X += pos.X
				np.Y += pos.Y
			}
			cur = append(cur, entity.QuadSegment(tf.Apply(pos), tf.Apply(c), tf.Apply(np)))
			pos = np

		case 'A', 'a':
			// Дуги спрямляются до конечной точки: potrace их не пишет,
			// а редкий чужой SVG терять целиком не хочется.
			for k := 0; k < 5; k++ {
				if _, err := p.readNumber(); err != nil {
					return nil, err
				}
			}
			np, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			if rel {
				np.X += pos.X
				np.Y += pos.Y
			}
			cur = append(cur, entity.LineSegment(tf.Apply(pos), tf.Apply(np)))
			pos = np

		default:
			return nil, fmt.Errorf("%w: unsupported path command %q", entity.ErrExternalTool, string(cmd))
		}
	}

	flush(false)
	return out, nil
}

// pathScanner — курсор по строке атрибута d.
type pathScanner struct {
	s string
	i int
}

func (p *pathScanner) done() bool {
	return p.i >= len(p.s)
}

func (p *pathScanner) skipSep() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', ',':
			p.i++
		default:
			return
		}
	}
}

// peekCommand возвращает букву команды, если курсор стоит на ней.
func (p *pathScanner) peekCommand() (byte, bool) {
	if p.done() {
		return 0, false
	}
	c := p.s[p.i]
	if (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E' {
		return c, true
	}
	return 0, false
}

func (p *pathScanner) readNumber() (float64, error) {
	p.skipSep()
	j := p.i
	if j < len(p.s) && (p.s[j] == '+' || p.s[j] == '-') {
		j++
	}
	for j < len(p.s) {
		c := p.s[j]
		if c >= '0' && c <= '9' || c == '.' {
			j++
			continue
		}
		if (c == 'e' || c == 'E') && j > p.i {
			j++
			if j < len(p.s) && (p.s[j] == '+' || p.s[j] == '-') {
				j++
			}
			continue
		}
		break
	}
	if j == p.i {
		return 0, fmt.Errorf("%w: expected number at offset %d in path data", entity.ErrExternalTool, p.i)
	}
	v, err := strconv.ParseFloat(p.s[p.i:j], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q in path data", entity.ErrExternalTool, p.s[p.i:j])
	}
	p.i = j
	return v, nil
}

func (p *pathScanner) readPoint() (entity.Point, error) {
	x, err := p.readNumber()
	if err != nil {
		return entity.Point{}, err
	}
	y, err := p.readNumber()
	if err != nil {
		return entity.Point{}, err
	}
	return entity.Point{X: x, Y: y}, nil
}
