package integrators

import (
	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
)

// VelocityVerlet is the symplectic, time-reversible velocity form of the
// Verlet scheme. Each step costs two force evaluations.
type VelocityVerlet struct{}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (*VelocityVerlet) Step(x dynamo.State, mass float64, force field.Field, dt float64) dynamo.State {
	a := force.Evaluate(x.R) / mass
	r := x.R + x.V*dt + 0.5*a*dt*dt
	aNext := force.Evaluate(r) / mass
	v := x.V + 0.5*(a+aNext)*dt
	return dynamo.State{R: r, V: v}
}

// Leapfrog is the kick-drift-kick form: a half-step velocity kick, a full
// position drift, and a second half kick at the new position.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (*Leapfrog) Step(x dynamo.State, mass float64, force field.Field, dt float64) dynamo.State {
	halfDt := 0.5 * dt
	vHalf := x.V + force.Evaluate(x.R)/mass*halfDt
	r := x.R + vHalf*dt
	v := vHalf + force.Evaluate(r)/mass*halfDt
	return dynamo.State{R: r, V: v}
}
