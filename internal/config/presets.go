package config

import "sort"

// Presets are ready-made runs keyed by molecule, then preset name.
var Presets = map[string]map[string]*Config{
	"hf": {
		"default": DefaultConfig(),
		"harmonic-check": func() *Config {
			c := DefaultConfig()
			c.Name = "hf-harmonic-check"
			c.Samples.Surface = "hf-harmonic"
			return c
		}(),
		"large-amplitude": func() *Config {
			c := DefaultConfig()
			c.Name = "hf-large-amplitude"
			c.Samples.Grid = GridConfig{Start: 0.5, Stop: 2.0, Points: 151}
			c.Dynamics.Amplitude = 0.6
			c.Dynamics.Phase = 0
			return c
		}(),
		"psi4-scf": func() *Config {
			c := DefaultConfig()
			c.Name = "hf-psi4-scf"
			c.Samples.Surface = ""
			c.Samples.Program = &ProgramConfig{Command: "psi4", Method: "scf", Basis: "cc-pvdz"}
			c.Samples.Grid = GridConfig{Start: 0.7, Stop: 1.3, Points: 25}
			c.Cache.Path = ".diatomic/cache"
			return c
		}(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(molecule, preset string) *Config {
	molPresets, ok := Presets[molecule]
	if !ok {
		return nil
	}
	cfg, ok := molPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	if cfg.Samples.Program != nil {
		p := *cfg.Samples.Program
		c.Samples.Program = &p
	}
	return &c
}

func ListPresets(molecule string) []string {
	molPresets, ok := Presets[molecule]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(molPresets))
	for name := range molPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Molecules() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
