package pes

import (
	"fmt"
	"sort"

	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/units"
)

// Hydrogen fluoride reference surface. The Morse parameters reproduce the
// SCF equilibrium bond length and force constant of HF; the depth is the
// experimental dissociation energy.
const (
	HFBondLength    = 0.9160804 // Å
	HFForceConstant = 0.6472560 // Eh/bohr²
	HFDepth         = 0.2250    // Eh
	HFEnergyOffset  = -100.0194 // Eh
)

// HFMorse is the closed-form hydrogen fluoride surface in atomic units.
func HFMorse() field.Morse {
	return field.MorseFromCurvature(HFDepth, HFForceConstant, units.AngstromToBohr(HFBondLength), HFEnergyOffset)
}

// HFHarmonic is the harmonic approximation of HFMorse about its minimum.
func HFHarmonic() field.Polynomial {
	return field.Harmonic(HFForceConstant, units.AngstromToBohr(HFBondLength), HFEnergyOffset)
}

var surfaces = map[string]func() field.Field{
	"hf-morse":    func() field.Field { return HFMorse() },
	"hf-harmonic": func() field.Field { return HFHarmonic() },
}

// Surface returns a named closed-form model surface.
func Surface(name string) (Model, error) {
	fn, ok := surfaces[name]
	if !ok {
		return Model{}, fmt.Errorf("pes: unknown surface %q (available: %v)", name, Surfaces())
	}
	return Model{Field: fn()}, nil
}

// Surfaces lists the registered model surfaces.
func Surfaces() []string {
	names := make([]string, 0, len(surfaces))
	for name := range surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
