package field

import "sort"

// PiecewisePoly is a piecewise polynomial over knots x[0] < ... < x[n-1].
// Piece i covers [x[i], x[i+1]) and stores coefficients in ascending powers
// of (x - x[i]). Outside the knots the first and last pieces extrapolate.
type PiecewisePoly struct {
	x      []float64
	coeffs [][]float64
}

func newPiecewisePoly(x []float64, coeffs [][]float64) *PiecewisePoly {
	return &PiecewisePoly{x: x, coeffs: coeffs}
}

// Degree is the polynomial degree shared by every piece.
func (p *PiecewisePoly) Degree() int {
	return len(p.coeffs[0]) - 1
}

// Knots returns a copy of the breakpoints.
func (p *PiecewisePoly) Knots() []float64 {
	out := make([]float64, len(p.x))
	copy(out, p.x)
	return out
}

// Coefficients returns a copy of piece i's coefficients, lowest power first.
func (p *PiecewisePoly) Coefficients(i int) []float64 {
	out := make([]float64, len(p.coeffs[i]))
	copy(out, p.coeffs[i])
	return out
}

func (p *PiecewisePoly) Domain() (float64, float64) {
	return p.x[0], p.x[len(p.x)-1]
}

func (p *PiecewisePoly) Evaluate(x float64) float64 {
	return p.evalPiece(p.piece(x), x)
}

// piece finds i with x[i] <= x < x[i+1], clamped to the first and last
// pieces.
func (p *PiecewisePoly) piece(x float64) int {
	i := sort.Search(len(p.x), func(j int) bool { return p.x[j] > x }) - 1
	if i < 0 {
		return 0
	}
	if last := len(p.coeffs) - 1; i > last {
		return last
	}
	return i
}

func (p *PiecewisePoly) evalPiece(i int, x float64) float64 {
	c := p.coeffs[i]
	t := x - p.x[i]
	y := c[len(c)-1]
	for k := len(c) - 2; k >= 0; k-- {
		y = y*t + c[k]
	}
	return y
}

// Differentiate returns the exact derivative, one degree lower. A degree-0
// polynomial differentiates to the zero polynomial of degree 0.
func (p *PiecewisePoly) Differentiate() Field {
	return p.derivative()
}

func (p *PiecewisePoly) derivative() *PiecewisePoly {
	deg := p.Degree()
	coeffs := make([][]float64, len(p.coeffs))
	for i, c := range p.coeffs {
		if deg == 0 {
			coeffs[i] = []float64{0}
			continue
		}
		d := make([]float64, deg)
		for k := 1; k <= deg; k++ {
			d[k-1] = float64(k) * c[k]
		}
		coeffs[i] = d
	}
	return newPiecewisePoly(p.Knots(), coeffs)
}

// Negate returns -p with its own copy of the coefficients.
func (p *PiecewisePoly) Negate() *PiecewisePoly {
	coeffs := make([][]float64, len(p.coeffs))
	for i, c := range p.coeffs {
		n := make([]float64, len(c))
		for k, v := range c {
			n[k] = -v
		}
		coeffs[i] = n
	}
	return newPiecewisePoly(p.Knots(), coeffs)
}
