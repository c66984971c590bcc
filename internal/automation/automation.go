package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diatomic/internal/config"
	"github.com/san-kum/diatomic/internal/experiment"
	"github.com/san-kum/diatomic/internal/storage"
	"github.com/san-kum/diatomic/internal/telemetry"
)

// Scenario is a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset or config file plus overrides
type ScenarioStep struct {
	Molecule   string             `yaml:"molecule"`
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Surface    string             `yaml:"surface"`
	Integrator string             `yaml:"integrator"`
	Boundary   string             `yaml:"boundary"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// Options are shared by every run of a scenario or sweep
type Options struct {
	Logger    *slog.Logger
	Telemetry *telemetry.Recorder
	// Store, if set, receives every step with a save_as name.
	Store *storage.Store
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) experiment(cfg *config.Config) *experiment.Experiment {
	return experiment.New(cfg).WithLogger(o.logger()).WithTelemetry(o.Telemetry)
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the configuration of a step: the config file if given,
// else the preset, else the defaults, then the overrides.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		mol := s.Molecule
		if mol == "" {
			mol = "hf"
		}
		if cfg = config.GetPreset(mol, s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", mol, s.Preset)
		}
	}

	if s.Surface != "" {
		cfg.Samples.R, cfg.Samples.Energy = nil, nil
		cfg.Samples.File, cfg.Samples.Program = "", nil
		cfg.Samples.Surface = s.Surface
	}
	if s.Integrator != "" {
		cfg.Dynamics.Integrator = s.Integrator
	}
	if s.Boundary != "" {
		cfg.Fit.Boundary = s.Boundary
	}
	for name, v := range s.Params {
		if err := SetParam(cfg, name, v); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// SetParam sets a numeric dynamics or fit parameter by name.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dynamics.Dt = v
	case "steps":
		cfg.Dynamics.Steps = int(v)
	case "amplitude":
		cfg.Dynamics.Amplitude = v
	case "phase":
		cfg.Dynamics.Phase = v
	case "grid_points":
		cfg.Fit.GridPoints = int(v)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]*experiment.Report, error) {
	log := opts.logger()
	reports := make([]*experiment.Report, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", cfg.Name)

		report, err := opts.experiment(cfg).Run(ctx)
		if err != nil {
			return reports, fmt.Errorf("step %d run: %w", i+1, err)
		}
		reports = append(reports, report)

		if opts.Store != nil && step.SaveAs != "" {
			id, err := opts.Store.Save(report.Record())
			if err != nil {
				return reports, fmt.Errorf("step %d save: %w", i+1, err)
			}
			log.Info("saved", "step", i+1, "id", id)
		}
	}
	return reports, nil
}

// ParameterSweep varies one parameter of Config over [Min, Max] while the
// surface is sampled and fitted only once.
type ParameterSweep struct {
	Config   *config.Config
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult summarizes the ab initio trajectory at one parameter value
type SweepResult struct {
	ParamValue        float64
	DominantFrequency float64
	// FrequencyRatio is the FFT frequency over the harmonic frequency.
	FrequencyRatio float64
	EnergyDrift    float64
	MaxDeviation   float64
	Extrapolations int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, opts Options) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if err := SetParam(config.DefaultConfig(), sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	base := opts.experiment(sweep.Config)
	samples, err := base.Samples(ctx)
	if err != nil {
		return nil, err
	}
	fit, err := base.FitSamples(samples)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := *sweep.Config
		if err := SetParam(&cfg, sweep.Param, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		report, err := opts.experiment(&cfg).Dynamics(ctx, fit)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		ab := report.Runs[experiment.AbInitio]
		results = append(results, SweepResult{
			ParamValue:        paramVal,
			DominantFrequency: report.DominantFrequency,
			FrequencyRatio:    report.DominantFrequency / fit.Equilibrium.Frequency,
			EnergyDrift:       ab.Metrics["energy_drift"],
			MaxDeviation:      ab.Metrics["max_deviation"],
			Extrapolations:    report.Extrapolations[experiment.AbInitio],
		})
		log.Debug("sweep point", "param", sweep.Param, "value", paramVal, "index", i+1, "of", sweep.NumSteps)
	}
	return results, nil
}
