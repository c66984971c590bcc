package units

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		to   func(float64) float64
		from func(float64) float64
	}{
		{"length", AngstromToBohr, BohrToAngstrom},
		{"energy", HartreeToEV, EVToHartree},
		{"mass", AMUToElectronMass, ElectronMassToAMU},
		{"time", AtomicTimeToFemtoseconds, FemtosecondsToAtomicTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range []float64{0, 1, 0.9160804, -3.5, 1e4} {
				if got := tt.from(tt.to(x)); math.Abs(got-x) > 1e-12*math.Max(1, math.Abs(x)) {
					t.Errorf("round trip of %g gave %g", x, got)
				}
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	if got := AngstromToBohr(1.0); math.Abs(got-1.8897261246) > 1e-9 {
		t.Errorf("1 Å = %.10f bohr", got)
	}
	if got := HartreeToEV(1.0); got != HartreeInEV {
		t.Errorf("1 Eh = %f eV", got)
	}
	if got := ElectronMassToAMU(AMUInElectronMass); got != 1 {
		t.Errorf("expected 1 u, got %f", got)
	}
}

func TestAngstromsToBohr(t *testing.T) {
	in := []float64{0.5, 1.0}
	out := AngstromsToBohr(in)
	if in[0] != 0.5 {
		t.Error("input slice modified")
	}
	if math.Abs(out[1]-AngstromToBohr(1.0)) > 1e-15 {
		t.Errorf("got %v", out)
	}
}
