package entity

// Affine — аффинное преобразование плоскости:
//
//	[x']   [A C] [x]   [E]
//	[y'] = [B D]·[y] + [F]
type Affine struct {
	A, B, C, D, E, F float64
}

// AffineIdentity возвращает единичное преобразование.
func AffineIdentity() Affine {
	return Affine{A: 1, D: 1}
}

// Mul возвращает композицию t∘u: к точке сначала применяется u, затем t.
func (t Affine) Mul(u Affine) Affine {
	return Affine{
		A: t.A*u.A + t.C*u.B,
		B: t.B*u.A + t.D*u.B,
		C: t.A*u.C + t.C*u.D,
		D: t.B*u.C + t.D*u.D,
		E: t.A*u.E + t.C*u.F + t.E,
		F: t.B*u.E + t.D*u.F + t.F,
	}
}

// Apply применяет преобразование к точке.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}
