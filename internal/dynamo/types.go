package dynamo

import (
	"math"

	"github.com/san-kum/diatomic/internal/field"
)

// State is the bond separation R and its velocity V.
type State struct {
	R float64 `json:"r"`
	V float64 `json:"v"`
}

func (s State) IsValid() bool {
	return !math.IsNaN(s.R) && !math.IsInf(s.R, 0) && !math.IsNaN(s.V) && !math.IsInf(s.V, 0)
}

// KineticEnergy is ½mv².
func (s State) KineticEnergy(mass float64) float64 {
	return 0.5 * mass * s.V * s.V
}

// Integrator advances a state by one step of length dt under force.
// Implementations are deterministic and hold no per-trajectory state, so one
// value may be shared by concurrent runs.
type Integrator interface {
	Step(x State, mass float64, force field.Field, dt float64) State
}

// Observer is called by the driver for every recorded state, including the
// initial one at i = 0.
type Observer interface {
	Observe(i int, t float64, x State)
}

// Metric is an Observer that reduces a trajectory to one number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// Trajectory is a sequence of states on the grid t_i = i·Dt.
type Trajectory struct {
	States []State   `json:"states"`
	Times  []float64 `json:"times"`
	Dt     float64   `json:"dt"`
}

func (t *Trajectory) Len() int { return len(t.States) }

func (t *Trajectory) At(i int) (float64, State) {
	return t.Times[i], t.States[i]
}

// Positions returns the separations of all states.
func (t *Trajectory) Positions() []float64 {
	out := make([]float64, len(t.States))
	for i, s := range t.States {
		out[i] = s.R
	}
	return out
}

// Velocities returns the velocities of all states.
func (t *Trajectory) Velocities() []float64 {
	out := make([]float64, len(t.States))
	for i, s := range t.States {
		out[i] = s.V
	}
	return out
}

// Energies returns the total energy at every state for the given potential.
func (t *Trajectory) Energies(potential field.Field, mass float64) []float64 {
	out := make([]float64, len(t.States))
	for i, s := range t.States {
		out[i] = s.KineticEnergy(mass) + potential.Evaluate(s.R)
	}
	return out
}
