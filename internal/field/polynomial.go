package field

// Polynomial is a closed-form polynomial in powers of (x - Center), lowest
// power first.
type Polynomial struct {
	Center float64
	Coeffs []float64
}

// Harmonic returns v0 + k/2 (x - r0)².
func Harmonic(k, r0, v0 float64) Polynomial {
	return Polynomial{Center: r0, Coeffs: []float64{v0, 0, 0.5 * k}}
}

func (p Polynomial) Evaluate(x float64) float64 {
	if len(p.Coeffs) == 0 {
		return 0
	}
	t := x - p.Center
	y := p.Coeffs[len(p.Coeffs)-1]
	for k := len(p.Coeffs) - 2; k >= 0; k-- {
		y = y*t + p.Coeffs[k]
	}
	return y
}

func (p Polynomial) Differentiate() Field {
	if len(p.Coeffs) <= 1 {
		return Polynomial{Center: p.Center, Coeffs: []float64{0}}
	}
	d := make([]float64, len(p.Coeffs)-1)
	for k := 1; k < len(p.Coeffs); k++ {
		d[k-1] = float64(k) * p.Coeffs[k]
	}
	return Polynomial{Center: p.Center, Coeffs: d}
}

func (p Polynomial) Negate() Polynomial {
	n := make([]float64, len(p.Coeffs))
	for k, c := range p.Coeffs {
		n[k] = -c
	}
	return Polynomial{Center: p.Center, Coeffs: n}
}
