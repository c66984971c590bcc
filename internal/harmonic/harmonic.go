// Package harmonic is the analytic harmonic-oscillator reference used to
// validate numerical trajectories.
package harmonic

import (
	"math"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/pes"
)

// Position returns r_eq + A·sin(ωt + φ).
func Position(omega, amplitude, phase, req, t float64) float64 {
	return req + amplitude*math.Sin(omega*t+phase)
}

// Velocity returns the time derivative of Position.
func Velocity(omega, amplitude, phase, t float64) float64 {
	return amplitude * omega * math.Cos(omega*t+phase)
}

// Oscillator is a harmonic vibration about Req.
type Oscillator struct {
	Omega     float64
	Amplitude float64
	Phase     float64
	Req       float64
}

func (o Oscillator) Position(t float64) float64 {
	return Position(o.Omega, o.Amplitude, o.Phase, o.Req, t)
}

func (o Oscillator) Velocity(t float64) float64 {
	return Velocity(o.Omega, o.Amplitude, o.Phase, t)
}

// InitialState is the oscillator's state at t = 0.
func (o Oscillator) InitialState() dynamo.State {
	return dynamo.State{R: o.Position(0), V: o.Velocity(0)}
}

// Positions evaluates the trajectory at each of times.
func (o Oscillator) Positions(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = o.Position(t)
	}
	return out
}

// Energy is the conserved vibrational energy ½μω²A² for reduced mass mu.
func (o Oscillator) Energy(mu float64) float64 {
	return 0.5 * mu * o.Omega * o.Omega * o.Amplitude * o.Amplitude
}

// Potential is the closed-form harmonic surface v0 + ½k(r - req)².
func Potential(k, req, v0 float64) field.Polynomial {
	return field.Harmonic(k, req, v0)
}

// SampledPotential interpolates the harmonic surface of (k, req, v0) on the
// separations of samples, so that it shares their domain and knots.
func SampledPotential(samples pes.SampleSet, k, req, v0 float64, bc field.Boundary) (*field.PiecewisePoly, error) {
	h := Potential(k, req, v0)
	return samples.Map(func(r, _ float64) float64 { return h.Evaluate(r) }).Interpolate(bc)
}
