package potrace

import (
	"regexp"
	"strconv"
	"strings"

	"sketch2cad/internal/domain/entity"
)

var (
	transformRe = regexp.MustCompile(`(translate|scale|matrix)\s*\(([^)]*)\)`)
	argSepRe    = regexp.MustCompile(`[\s,]+`)
)

// ParseTransform разбирает атрибут transform в том подмножестве, которое
// пишет potrace: translate(tx[,ty]), scale(sx[,sy]) и matrix(a,b,c,d,e,f)
// в любом порядке, с пробелами или запятыми между аргументами.
//
// Список применяется к точке справа налево, как в SVG: для "T1 T2" точка
// сначала проходит T2, затем T1. Неизвестные и искажённые токены
// пропускаются, пустая строка даёт единичную матрицу.
func ParseTransform(s string) entity.Affine {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.AffineIdentity()
	}

	var mats []entity.Affine
	for _, m := range transformRe.FindAllStringSubmatch(s, -1) {
		args, ok := parseArgs(m[2])
		if !ok {
			continue
		}
		switch m[1] {
		case "translate":
			tx, ty := 0.0, 0.0
			if len(args) >= 1 {
				tx = args[0]
			}
			if len(args) >= 2 {
				ty = args[1]
			}
			mats = append(mats, entity.Affine{A: 1, D: 1, E: tx, F: ty})

		case "scale":
			sx, sy := 1.0, 1.0
			if len(args) >= 1 {
				sx = args[0]
				sy = sx
			}
			if len(args) >= 2 {
				sy = args[1]
			}
			mats = append(mats, entity.Affine{A: sx, D: sy})

		case "matrix":
			if len(args) != 6 {
				continue
			}
			mats = append(mats, entity.Affine{
				A: args[0], B: args[1], C: args[2],
				D: args[3], E: args[4], F: args[5],
			})
		}
	}

	out := entity.AffineIdentity()
	for i := len(mats) - 1; i >= 0; i-- {
		out = mats[i].Mul(out)
	}
	return out
}

// parseArgs разбирает список чисел токена. Нечисловой аргумент делает
// весь токен искажённым, и он пропускается целиком.
func parseArgs(s string) ([]float64, bool) {
	var out []float64
	for _, f := range argSepRe.Split(strings.TrimSpace(s), -1) {
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
