// Package units converts between conventional and atomic units.
//
// Atomic units set ħ, mₑ and e to one: lengths are in bohr, energies in
// hartree, masses in electron masses and time in ħ/Eh. Constants are CODATA
// 2018.
package units

const (
	// BohrInAngstrom is the length of one bohr in ångström.
	BohrInAngstrom = 0.529177210903

	// HartreeInEV is one hartree in electronvolts.
	HartreeInEV = 27.211386245988

	// HartreeInWavenumber is one hartree in cm⁻¹.
	HartreeInWavenumber = 219474.6313632

	// HartreeInKcalMol is one hartree in kcal/mol.
	HartreeInKcalMol = 627.5094740631

	// AMUInElectronMass is one unified atomic mass unit in electron masses.
	AMUInElectronMass = 1822.888486209

	// AtomicTimeInFemtoseconds is one atomic unit of time in femtoseconds.
	AtomicTimeInFemtoseconds = 0.02418884326585747
)

func AngstromToBohr(x float64) float64 { return x / BohrInAngstrom }
func BohrToAngstrom(x float64) float64 { return x * BohrInAngstrom }

func HartreeToEV(e float64) float64         { return e * HartreeInEV }
func EVToHartree(e float64) float64         { return e / HartreeInEV }
func HartreeToWavenumber(e float64) float64 { return e * HartreeInWavenumber }
func HartreeToKcalMol(e float64) float64    { return e * HartreeInKcalMol }

func AMUToElectronMass(m float64) float64 { return m * AMUInElectronMass }
func ElectronMassToAMU(m float64) float64 { return m / AMUInElectronMass }

func AtomicTimeToFemtoseconds(t float64) float64 { return t * AtomicTimeInFemtoseconds }
func FemtosecondsToAtomicTime(t float64) float64 { return t / AtomicTimeInFemtoseconds }

// AngstromsToBohr returns a converted copy of xs.
func AngstromsToBohr(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = AngstromToBohr(x)
	}
	return out
}
