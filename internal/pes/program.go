package pes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/san-kum/diatomic/internal/units"
)

// Psi4Template is a single-point SCF input for a diatomic.
const Psi4Template = `molecule {
{{.Charge}} {{.Multiplicity}}
{{.Atom1}}
{{.Atom2}} 1 {{printf "%.10f" .R}}
units {{.Units}}
}

set basis {{.Basis}}
energy('{{.Method}}')
`

// Psi4EnergyPattern matches the SCF total energy line of Psi4 output.
var Psi4EnergyPattern = regexp.MustCompile(`Total Energy =\s+(-?\d+\.\d+)`)

// Geometry is the data available to an input template.
type Geometry struct {
	Atom1, Atom2 string
	// R is the separation in Units.
	R            float64
	Units        string
	Method       string
	Basis        string
	Charge       int
	Multiplicity int
}

// Program runs an external electronic-structure code once per separation.
//
// Args may contain the placeholders {input} and {output}, replaced by the
// file names inside the per-call scratch directory. When OutputName is
// empty the energy is parsed from the program's standard output.
type Program struct {
	Command    string
	Args       []string
	Template   *template.Template
	InputName  string
	OutputName string
	Pattern    *regexp.Regexp

	Atom1, Atom2 string
	Method       string
	Basis        string
	Charge       int
	Multiplicity int
	// Angstrom writes the geometry in ångström instead of bohr.
	Angstrom bool
	// ScratchDir is the parent of the per-call directories; "" uses the
	// system temporary directory.
	ScratchDir string
}

// NewPsi4 returns a Program that runs psi4 with Psi4Template.
func NewPsi4(atom1, atom2, method, basis string) *Program {
	return &Program{
		Command:      "psi4",
		Args:         []string{"{input}", "{output}"},
		Template:     template.Must(template.New("psi4").Parse(Psi4Template)),
		InputName:    "input.dat",
		OutputName:   "output.dat",
		Pattern:      Psi4EnergyPattern,
		Atom1:        atom1,
		Atom2:        atom2,
		Method:       method,
		Basis:        basis,
		Multiplicity: 1,
		Angstrom:     true,
	}
}

func (p *Program) geometry(r float64) Geometry {
	g := Geometry{
		Atom1:        p.Atom1,
		Atom2:        p.Atom2,
		R:            r,
		Units:        "bohr",
		Method:       p.Method,
		Basis:        p.Basis,
		Charge:       p.Charge,
		Multiplicity: p.Multiplicity,
	}
	if p.Angstrom {
		g.R = units.BohrToAngstrom(r)
		g.Units = "angstrom"
	}
	return g
}

// Input renders the input file for separation r (bohr).
func (p *Program) Input(r float64) (string, error) {
	var buf bytes.Buffer
	if err := p.Template.Execute(&buf, p.geometry(r)); err != nil {
		return "", fmt.Errorf("pes: render input: %w", err)
	}
	return buf.String(), nil
}

func (p *Program) Energy(ctx context.Context, r float64) (float64, error) {
	input, err := p.Input(r)
	if err != nil {
		return 0, err
	}

	dir, err := os.MkdirTemp(p.ScratchDir, "pes-*")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(dir)

	inName := p.InputName
	if inName == "" {
		inName = "input.dat"
	}
	if err := os.WriteFile(filepath.Join(dir, inName), []byte(input), 0644); err != nil {
		return 0, err
	}

	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		a = strings.ReplaceAll(a, "{input}", inName)
		args[i] = strings.ReplaceAll(a, "{output}", p.OutputName)
	}

	cmd := exec.CommandContext(ctx, p.Command, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: %s at r=%g: %v: %s", ErrProgramFailed, p.Command, r, err, lastLine(stderr.String()))
	}

	out := stdout.Bytes()
	if p.OutputName != "" {
		out, err = os.ReadFile(filepath.Join(dir, p.OutputName))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrEnergyNotFound, err)
		}
	}
	return ParseEnergy(out, p.Pattern)
}

// ParseEnergy returns the last energy matched by pattern's first capture
// group.
func ParseEnergy(out []byte, pattern *regexp.Regexp) (float64, error) {
	matches := pattern.FindAllSubmatch(out, -1)
	if len(matches) == 0 || len(matches[len(matches)-1]) < 2 {
		return 0, ErrEnergyNotFound
	}
	last := matches[len(matches)-1][1]
	e, err := strconv.ParseFloat(string(last), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrEnergyNotFound, last, err)
	}
	return e, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
