package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Boundary selects the end conditions of a cubic spline.
type Boundary int

const (
	// NotAKnot makes the third derivative continuous at the second and
	// second-to-last knots. This is the interpolating spline FITPACK
	// produces with zero smoothing.
	NotAKnot Boundary = iota
	// Natural sets the second derivative to zero at both ends.
	Natural
)

func (b Boundary) String() string {
	switch b {
	case NotAKnot:
		return "not-a-knot"
	case Natural:
		return "natural"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary accepts "not-a-knot" (or "") and "natural".
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "", "not-a-knot", "notaknot":
		return NotAKnot, nil
	case "natural":
		return Natural, nil
	default:
		return 0, fmt.Errorf("field: unknown spline boundary %q", s)
	}
}

// NewCubicSpline builds the C² cubic spline through (xs[i], ys[i]).
//
// The slopes at the knots are the solution of a tridiagonal system whose
// first and last rows carry the boundary condition. Inputs are copied.
func NewCubicSpline(xs, ys []float64, bc Boundary) (*PiecewisePoly, error) {
	if err := ValidateKnots(xs, ys); err != nil {
		return nil, err
	}

	n := len(xs)
	x := make([]float64, n)
	copy(x, xs)

	dx := make([]float64, n-1)
	slope := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx[i] = x[i+1] - x[i]
		slope[i] = (ys[i+1] - ys[i]) / dx[i]
	}

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	for i := 1; i < n-1; i++ {
		a.Set(i, i-1, dx[i])
		a.Set(i, i, 2*(dx[i-1]+dx[i]))
		a.Set(i, i+1, dx[i-1])
		b.SetVec(i, 3*(dx[i]*slope[i-1]+dx[i-1]*slope[i]))
	}

	switch bc {
	case NotAKnot:
		d := x[2] - x[0]
		a.Set(0, 0, dx[1])
		a.Set(0, 1, d)
		b.SetVec(0, ((dx[0]+2*d)*dx[1]*slope[0]+dx[0]*dx[0]*slope[1])/d)

		d = x[n-1] - x[n-3]
		a.Set(n-1, n-1, dx[n-3])
		a.Set(n-1, n-2, d)
		b.SetVec(n-1, (dx[n-2]*dx[n-2]*slope[n-3]+(2*d+dx[n-2])*dx[n-3]*slope[n-2])/d)
	case Natural:
		a.Set(0, 0, 2)
		a.Set(0, 1, 1)
		b.SetVec(0, 3*slope[0])

		a.Set(n-1, n-2, 1)
		a.Set(n-1, n-1, 2)
		b.SetVec(n-1, 3*slope[n-2])
	default:
		return nil, fmt.Errorf("field: unsupported spline boundary %v", bc)
	}

	var s mat.VecDense
	if err := s.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("field: solve spline slopes: %w", err)
	}

	coeffs := make([][]float64, n-1)
	for i := 0; i < n-1; i++ {
		s0, s1 := s.AtVec(i), s.AtVec(i+1)
		t := (s0 + s1 - 2*slope[i]) / dx[i]
		coeffs[i] = []float64{
			ys[i],
			s0,
			(slope[i]-s0)/dx[i] - t,
			t / dx[i],
		}
	}

	return newPiecewisePoly(x, coeffs), nil
}
