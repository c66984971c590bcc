package field

import "math"

// Field is a smooth scalar function of one variable.
type Field interface {
	Evaluate(x float64) float64
	// Differentiate returns the exact derivative as a new Field.
	Differentiate() Field
}

// Bounded is implemented by fields fitted over a finite interval.
type Bounded interface {
	Domain() (lo, hi float64)
}

// DomainOf returns the fitted interval of f, or (-Inf, +Inf) for fields
// defined everywhere.
func DomainOf(f Field) (lo, hi float64) {
	if b, ok := f.(Bounded); ok {
		return b.Domain()
	}
	return math.Inf(-1), math.Inf(1)
}

// ForceField returns F(r) = -dE/dr by negating the energy before
// differentiating it.
func ForceField(energy Field) Field {
	return Negate(energy).Differentiate()
}

// Curvature returns d²E/dr².
func Curvature(energy Field) Field {
	return energy.Differentiate().Differentiate()
}

// Negate returns -f, using an exact coefficient negation when f supports
// one.
func Negate(f Field) Field {
	switch v := f.(type) {
	case *PiecewisePoly:
		return v.Negate()
	case Polynomial:
		return v.Negate()
	case *Scaled:
		return Scale(v.f, -v.s)
	default:
		return Scale(f, -1)
	}
}

// Scaled multiplies another field by a constant.
type Scaled struct {
	f Field
	s float64
}

// Scale returns s·f.
func Scale(f Field, s float64) *Scaled {
	return &Scaled{f: f, s: s}
}

func (c *Scaled) Evaluate(x float64) float64 { return c.s * c.f.Evaluate(x) }
func (c *Scaled) Differentiate() Field       { return Scale(c.f.Differentiate(), c.s) }
func (c *Scaled) Domain() (float64, float64) { return DomainOf(c.f) }

// Guarded reports evaluations outside an interval to a hook before
// delegating to the wrapped field.
type Guarded struct {
	f      Field
	lo, hi float64
	hook   func(x float64)
}

// Guard wraps f so that hook is called with every x outside [lo, hi].
// The guard survives differentiation.
func Guard(f Field, lo, hi float64, hook func(x float64)) *Guarded {
	return &Guarded{f: f, lo: lo, hi: hi, hook: hook}
}

func (g *Guarded) Evaluate(x float64) float64 {
	if (x < g.lo || x > g.hi) && g.hook != nil {
		g.hook(x)
	}
	return g.f.Evaluate(x)
}

func (g *Guarded) Differentiate() Field {
	return Guard(g.f.Differentiate(), g.lo, g.hi, g.hook)
}

func (g *Guarded) Domain() (float64, float64) { return g.lo, g.hi }
