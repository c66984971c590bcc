package metrics

import (
	"math"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
)

// Energy is the mean total energy ½mv² + V(r) over the observed states,
// measured from a reference energy.
type Energy struct {
	name        string
	potential   field.Field
	mass        float64
	reference   float64
	samples     int
	totalEnergy float64
}

func NewEnergy(potential field.Field, mass float64) *Energy {
	return &Energy{
		name:      "energy",
		potential: potential,
		mass:      mass,
	}
}

// WithReference measures energies from e0, typically the potential minimum.
func (e *Energy) WithReference(e0 float64) *Energy {
	e.reference = e0
	return e
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(i int, t float64, x dynamo.State) {
	e.totalEnergy += x.KineticEnergy(e.mass) + e.potential.Evaluate(x.R) - e.reference
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation |E - E₀|/|E₀| of the total
// energy from its value at the first observed state.
type EnergyDrift struct {
	name          string
	potential     field.Field
	mass          float64
	reference     float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(potential field.Field, mass float64) *EnergyDrift {
	return &EnergyDrift{
		name:      "energy_drift",
		potential: potential,
		mass:      mass,
	}
}

// WithReference measures energies from e0. With the potential minimum as
// reference the drift is relative to the vibrational energy rather than to
// the total electronic energy.
func (e *EnergyDrift) WithReference(e0 float64) *EnergyDrift {
	e.reference = e0
	return e
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(i int, t float64, x dynamo.State) {
	energy := x.KineticEnergy(e.mass) + e.potential.Evaluate(x.R) - e.reference

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
