// Package equilibrium extracts the equilibrium geometry and harmonic
// vibrational constants from a fitted potential energy surface.
package equilibrium

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/units"
)

// DefaultGridPoints is the density of the minimum search grid.
const DefaultGridPoints = 20001

const (
	maxNewtonIterations = 50
	newtonTolerance     = 1e-13
)

var (
	ErrInvalidInput      = errors.New("equilibrium: invalid input")
	ErrDegenerateSurface = errors.New("equilibrium: surface has no bound minimum")
)

// DegenerateSurfaceError reports a non-positive or non-finite curvature at
// the located minimum.
type DegenerateSurfaceError struct {
	R float64
	K float64
}

func (e *DegenerateSurfaceError) Error() string {
	return fmt.Sprintf("equilibrium: force constant %g at r=%g is not positive", e.K, e.R)
}

func (e *DegenerateSurfaceError) Unwrap() error {
	return ErrDegenerateSurface
}

// ReducedMass returns m1·m2/(m1+m2).
func ReducedMass(m1, m2 float64) float64 {
	return m1 * m2 / (m1 + m2)
}

// Masses are the nuclear masses of a diatomic in electron masses.
type Masses struct {
	M1 float64 `yaml:"m1" json:"m1" validate:"gt=0"`
	M2 float64 `yaml:"m2" json:"m2" validate:"gt=0"`
}

func (m Masses) Reduced() float64 {
	return ReducedMass(m.M1, m.M2)
}

// Grid returns n evenly spaced points spanning [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Options tunes the search.
type Options struct {
	// GridPoints is used by FindOnDomain; zero means DefaultGridPoints.
	GridPoints int
	// Refine polishes the grid minimum with Newton steps on dE/dr, staying
	// within the neighbouring grid cells.
	Refine bool
}

// State holds the equilibrium observables in atomic units.
type State struct {
	R             float64 `json:"r_eq"`
	Energy        float64 `json:"energy"`
	ForceConstant float64 `json:"force_constant"`
	Omega         float64 `json:"omega"`
	Frequency     float64 `json:"frequency"`
	ReducedMass   float64 `json:"reduced_mass"`
}

// VibrationalEnergy is ħω in hartree.
func (s State) VibrationalEnergy() float64 {
	return s.Omega
}

// Period of the harmonic vibration in atomic time units.
func (s State) Period() float64 {
	return 2 * math.Pi / s.Omega
}

func (s State) String() string {
	return fmt.Sprintf("r_eq=%.7f Å k=%.7f Eh/bohr² ħω=%.7f eV (%.1f cm⁻¹)",
		units.BohrToAngstrom(s.R), s.ForceConstant,
		units.HartreeToEV(s.VibrationalEnergy()), units.HartreeToWavenumber(s.VibrationalEnergy()))
}

// Find locates the minimum of energy over grid (the first one on ties) and
// evaluates the curvature there.
func Find(energy field.Field, grid []float64, mu float64, opts Options) (State, error) {
	if len(grid) < 3 {
		return State{}, fmt.Errorf("%w: grid has %d points, need at least 3", ErrInvalidInput, len(grid))
	}
	if !(mu > 0) || math.IsInf(mu, 0) {
		return State{}, fmt.Errorf("%w: reduced mass %g", ErrInvalidInput, mu)
	}

	es := make([]float64, len(grid))
	for i, r := range grid {
		es[i] = energy.Evaluate(r)
	}
	if floats.HasNaN(es) {
		return State{}, fmt.Errorf("%w: energy is NaN on the grid", ErrInvalidInput)
	}
	i := floats.MinIdx(es)
	r := grid[i]

	curvature := field.Curvature(energy)
	if opts.Refine {
		lo, hi := grid[max(i-1, 0)], grid[min(i+1, len(grid)-1)]
		r = refine(energy.Differentiate(), curvature, r, lo, hi)
	}

	k := curvature.Evaluate(r)
	if !(k > 0) || math.IsInf(k, 0) {
		return State{}, &DegenerateSurfaceError{R: r, K: k}
	}

	omega := math.Sqrt(k / mu)
	return State{
		R:             r,
		Energy:        energy.Evaluate(r),
		ForceConstant: k,
		Omega:         omega,
		Frequency:     omega / (2 * math.Pi),
		ReducedMass:   mu,
	}, nil
}

// FindOnDomain searches a uniform grid over the domain of a bounded field.
func FindOnDomain(energy field.Field, mu float64, opts Options) (State, error) {
	lo, hi := field.DomainOf(energy)
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return State{}, fmt.Errorf("%w: field has no finite domain", ErrInvalidInput)
	}
	n := opts.GridPoints
	if n == 0 {
		n = DefaultGridPoints
	}
	return Find(energy, Grid(lo, hi, n), mu, opts)
}

func refine(slope, curvature field.Field, r, lo, hi float64) float64 {
	for range maxNewtonIterations {
		k := curvature.Evaluate(r)
		if !(k > 0) {
			return r
		}
		next := math.Min(math.Max(r-slope.Evaluate(r)/k, lo), hi)
		if math.Abs(next-r) < newtonTolerance {
			return next
		}
		r = next
	}
	return r
}
