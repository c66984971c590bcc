package integrators

import (
	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
)

// RK4 is the classical fourth-order Runge-Kutta method applied to
// dr/dt = v, dv/dt = F(r)/m. It is accurate but not symplectic, so energy
// drifts slowly over long runs.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (*RK4) Step(x dynamo.State, mass float64, force field.Field, dt float64) dynamo.State {
	accel := func(r float64) float64 { return force.Evaluate(r) / mass }

	k1r, k1v := x.V, accel(x.R)
	k2r, k2v := x.V+0.5*dt*k1v, accel(x.R+0.5*dt*k1r)
	k3r, k3v := x.V+0.5*dt*k2v, accel(x.R+0.5*dt*k2r)
	k4r, k4v := x.V+dt*k3v, accel(x.R+dt*k3r)

	dt6 := dt / 6.0
	return dynamo.State{
		R: x.R + dt6*(k1r+2*k2r+2*k3r+k4r),
		V: x.V + dt6*(k1v+2*k2v+2*k3v+k4v),
	}
}
