package field

import "math"

// Morse is the potential D(1 - exp(-a(r - re)))² + Offset, or one of its
// derivatives when built through Differentiate.
type Morse struct {
	Depth  float64
	Width  float64
	Re     float64
	Offset float64

	order int
}

// MorseFromCurvature picks the width a so that the well has force constant
// k at re: k = 2·D·a².
func MorseFromCurvature(depth, k, re, offset float64) Morse {
	return Morse{
		Depth:  depth,
		Width:  math.Sqrt(k / (2 * depth)),
		Re:     re,
		Offset: offset,
	}
}

// Order is the derivative order this field represents.
func (m Morse) Order() int { return m.order }

// ForceConstant is the curvature at the minimum, 2·D·a².
func (m Morse) ForceConstant() float64 { return 2 * m.Depth * m.Width * m.Width }

func (m Morse) Evaluate(r float64) float64 {
	y := math.Exp(-m.Width * (r - m.Re))
	if m.order == 0 {
		u := 1 - y
		return m.Depth*u*u + m.Offset
	}
	// D(1 - 2y + y²) differentiated n times.
	n := float64(m.order)
	return m.Depth * (-2*math.Pow(-m.Width, n)*y + math.Pow(-2*m.Width, n)*y*y)
}

func (m Morse) Differentiate() Field {
	d := m
	d.order++
	return d
}
