package pes

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"text/template"

	"github.com/san-kum/diatomic/internal/units"
)

func TestParseEnergy(t *testing.T) {
	out := []byte(`
  @DF-RHF iter   1:  -99.9
    Total Energy =                        -99.8765432100000
  ...
    Total Energy =                       -100.0193917412345
`)
	e, err := ParseEnergy(out, Psi4EnergyPattern)
	if err != nil {
		t.Fatal(err)
	}
	if e != -100.0193917412345 {
		t.Errorf("energy = %v, want last match", e)
	}

	if _, err := ParseEnergy([]byte("no energy here"), Psi4EnergyPattern); !errors.Is(err, ErrEnergyNotFound) {
		t.Errorf("expected ErrEnergyNotFound, got %v", err)
	}
}

func TestProgram_Input(t *testing.T) {
	p := NewPsi4("H", "F", "scf", "cc-pvdz")
	r := units.AngstromToBohr(0.9)

	in, err := p.Input(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"0 1\n", "H\n", "F 1 0.9000000000", "units angstrom", "set basis cc-pvdz", "energy('scf')"} {
		if !strings.Contains(in, want) {
			t.Errorf("input missing %q:\n%s", want, in)
		}
	}

	p.Angstrom = false
	in, err = p.Input(2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(in, "F 1 2.0000000000") || !strings.Contains(in, "units bohr") {
		t.Errorf("bohr input wrong:\n%s", in)
	}
}

func shellProgram(t *testing.T, script string) *Program {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return &Program{
		Command:   "sh",
		Args:      []string{"-c", script},
		Template:  template.Must(template.New("t").Parse("{{.Atom1}}{{.Atom2}} {{.R}}\n")),
		InputName: "geom.in",
		Pattern:   regexp.MustCompile(`E=(-?\d+\.\d+)`),
		Atom1:     "H",
		Atom2:     "F",
	}
}

func TestProgram_EnergyFromStdout(t *testing.T) {
	p := shellProgram(t, "test -s geom.in && echo E=-100.25")
	e, err := p.Energy(context.Background(), 1.7)
	if err != nil {
		t.Fatal(err)
	}
	if e != -100.25 {
		t.Errorf("energy = %g", e)
	}
}

func TestProgram_EnergyFromOutputFile(t *testing.T) {
	p := shellProgram(t, "echo E=-7.5 > result.out")
	p.OutputName = "result.out"
	e, err := p.Energy(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if e != -7.5 {
		t.Errorf("energy = %g", e)
	}
}

func TestProgram_Failure(t *testing.T) {
	p := shellProgram(t, "echo boom >&2; exit 3")
	if _, err := p.Energy(context.Background(), 1); !errors.Is(err, ErrProgramFailed) {
		t.Errorf("expected ErrProgramFailed, got %v", err)
	}

	p = shellProgram(t, "echo nothing useful")
	if _, err := p.Energy(context.Background(), 1); !errors.Is(err, ErrEnergyNotFound) {
		t.Errorf("expected ErrEnergyNotFound, got %v", err)
	}
}
