package integrators

import (
	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
)

// Euler is the explicit first-order method. Energy grows without bound;
// it is kept as a baseline for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (*Euler) Step(x dynamo.State, mass float64, force field.Field, dt float64) dynamo.State {
	return dynamo.State{
		R: x.R + dt*x.V,
		V: x.V + dt*force.Evaluate(x.R)/mass,
	}
}
