package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/diatomic/internal/equilibrium"
)

const (
	DefaultIntegrator = "verlet"
	DefaultDt         = 0.1
	DefaultSteps      = 10000
	DefaultAmplitude  = 0.2
	DefaultPhase      = math.Pi / 4
	DefaultBoundary   = "not-a-knot"
	DefaultWorkers    = 4

	// Nuclear masses of ¹H and ¹⁹F rounded to whole electron masses.
	HydrogenMass = 1836.0
	FluorineMass = 34883.0
)

var validate = validator.New()

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Name     string         `yaml:"name"`
	Molecule MoleculeConfig `yaml:"molecule"`
	Samples  SamplesConfig  `yaml:"samples"`
	Fit      FitConfig      `yaml:"fit"`
	Dynamics DynamicsConfig `yaml:"dynamics"`
	Cache    CacheConfig    `yaml:"cache"`
}

type MoleculeConfig struct {
	Atom1  string             `yaml:"atom1"`
	Atom2  string             `yaml:"atom2"`
	Masses equilibrium.Masses `yaml:"masses"`
}

// SamplesConfig selects exactly one source of (r, E) samples: inline
// arrays, a CSV file, a named model surface, or an external program.
// Surface and Program are evaluated on Grid.
type SamplesConfig struct {
	R       []float64      `yaml:"r,omitempty" validate:"required_with=Energy"`
	Energy  []float64      `yaml:"energy,omitempty" validate:"required_with=R"`
	File    string         `yaml:"file,omitempty"`
	Surface string         `yaml:"surface,omitempty"`
	Program *ProgramConfig `yaml:"program,omitempty"`
	Grid    GridConfig     `yaml:"grid"`
	// Angstrom marks separations (inline, file and grid) as ångström.
	Angstrom bool `yaml:"angstrom"`
	Workers  int  `yaml:"workers" validate:"gte=0"`
}

type GridConfig struct {
	Start  float64 `yaml:"start" validate:"gte=0"`
	Stop   float64 `yaml:"stop" validate:"gtefield=Start"`
	Points int     `yaml:"points" validate:"gte=0"`
}

type ProgramConfig struct {
	Command  string   `yaml:"command" validate:"required"`
	Args     []string `yaml:"args"`
	Template string   `yaml:"template"`
	Pattern  string   `yaml:"pattern"`
	Output   string   `yaml:"output"`
	Method   string   `yaml:"method" validate:"required"`
	Basis    string   `yaml:"basis" validate:"required"`
}

type FitConfig struct {
	Boundary   string `yaml:"boundary" validate:"omitempty,oneof=not-a-knot notaknot natural"`
	GridPoints int    `yaml:"grid_points" validate:"gte=0"`
	Refine     bool   `yaml:"refine"`
}

type DynamicsConfig struct {
	Integrator string  `yaml:"integrator" validate:"required"`
	Dt         float64 `yaml:"dt" validate:"gt=0"`
	Steps      int     `yaml:"steps" validate:"gte=1"`
	Amplitude  float64 `yaml:"amplitude" validate:"gte=0"`
	Phase      float64 `yaml:"phase"`
}

type CacheConfig struct {
	// Path of the badger energy cache; empty disables caching.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "hf",
		Molecule: MoleculeConfig{
			Atom1:  "H",
			Atom2:  "F",
			Masses: equilibrium.Masses{M1: HydrogenMass, M2: FluorineMass},
		},
		Samples: SamplesConfig{
			Surface:  "hf-morse",
			Grid:     GridConfig{Start: 0.6, Stop: 1.4, Points: 81},
			Angstrom: true,
			Workers:  DefaultWorkers,
		},
		Fit: FitConfig{
			Boundary:   DefaultBoundary,
			GridPoints: equilibrium.DefaultGridPoints,
		},
		Dynamics: DynamicsConfig{
			Integrator: DefaultIntegrator,
			Dt:         DefaultDt,
			Steps:      DefaultSteps,
			Amplitude:  DefaultAmplitude,
			Phase:      DefaultPhase,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var peek struct {
		Samples *yaml.Node `yaml:"samples"`
	}
	if err := yaml.Unmarshal(data, &peek); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	// A samples section replaces the default surface rather than adding
	// a second source.
	if peek.Samples != nil {
		cfg.Samples.Surface = ""
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s SamplesConfig) sourceCount() int {
	n := 0
	if len(s.R) > 0 {
		n++
	}
	if s.File != "" {
		n++
	}
	if s.Surface != "" {
		n++
	}
	if s.Program != nil {
		n++
	}
	return n
}

// Swept reports whether the samples come from evaluating a source on Grid.
func (s SamplesConfig) Swept() bool {
	return s.Surface != "" || s.Program != nil
}

// Validate checks struct constraints and that exactly one sample source is
// configured.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch n := c.Samples.sourceCount(); {
	case n == 0:
		return fmt.Errorf("%w: no sample source (r/energy, file, surface or program)", ErrInvalid)
	case n > 1:
		return fmt.Errorf("%w: %d sample sources configured, need exactly one", ErrInvalid, n)
	}
	if len(c.Samples.R) != len(c.Samples.Energy) {
		return fmt.Errorf("%w: %d separations but %d energies", ErrInvalid, len(c.Samples.R), len(c.Samples.Energy))
	}
	if c.Samples.Swept() && (c.Samples.Grid.Points < 4 || !(c.Samples.Grid.Stop > c.Samples.Grid.Start)) {
		return fmt.Errorf("%w: sweep grid needs stop > start and at least 4 points", ErrInvalid)
	}
	if c.Samples.Program != nil && (c.Molecule.Atom1 == "" || c.Molecule.Atom2 == "") {
		return fmt.Errorf("%w: program sweeps need molecule.atom1 and molecule.atom2", ErrInvalid)
	}
	return nil
}
