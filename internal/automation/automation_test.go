package automation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/diatomic/internal/config"
	"github.com/san-kum/diatomic/internal/experiment"
	"github.com/san-kum/diatomic/internal/storage"
)

func quiet() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

const scenarioYAML = `name: hf-checks
description: morse and harmonic surfaces with two integrators
steps:
  - preset: default
    params:
      steps: 500
    save_as: hf-verlet
  - surface: hf-harmonic
    integrator: leapfrog
    params:
      steps: 300
      amplitude: 0.1
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "hf-checks" || len(s.Steps) != 2 {
		t.Fatalf("scenario = %+v", s)
	}

	cfg, err := s.Steps[1].Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Samples.Surface != "hf-harmonic" || cfg.Dynamics.Integrator != "leapfrog" ||
		cfg.Dynamics.Steps != 300 || cfg.Dynamics.Amplitude != 0.1 {
		t.Errorf("resolved config = %+v", cfg)
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for a scenario without steps")
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []ScenarioStep{
		{Preset: "missing"},
		{Params: map[string]float64{"temperature": 300}},
		{Params: map[string]float64{"dt": -1}},
	}
	for _, step := range tests {
		if _, err := step.Resolve(); err == nil {
			t.Errorf("step %+v: expected error", step)
		}
	}
}

func TestRunScenario(t *testing.T) {
	s := &Scenario{Name: "hf-checks"}
	s.Steps = []ScenarioStep{
		{Preset: "default", Params: map[string]float64{"steps": 500}, SaveAs: "hf-verlet"},
		{Surface: "hf-harmonic", Integrator: "leapfrog", Params: map[string]float64{"steps": 300}},
	}
	opts := quiet()
	opts.Store = storage.New(t.TempDir())

	reports, err := RunScenario(context.Background(), s, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("%d reports", len(reports))
	}
	if got := reports[1].Runs[experiment.AbInitio].Len(); got != 300 {
		t.Errorf("second step: %d states", got)
	}

	runs, err := opts.Store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Name != "hf-verlet" {
		t.Errorf("stored runs = %+v", runs)
	}
}

func TestRunSweep_AnharmonicSoftening(t *testing.T) {
	sweep := &ParameterSweep{
		Config:   config.DefaultConfig(),
		Param:    "amplitude",
		Min:      0.05,
		Max:      0.3,
		NumSteps: 4,
	}
	results, err := RunSweep(context.Background(), sweep, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("%d results", len(results))
	}
	for i, r := range results {
		if r.Extrapolations != 0 {
			t.Errorf("amplitude %g: %d extrapolations", r.ParamValue, r.Extrapolations)
		}
		if i > 0 && r.FrequencyRatio >= results[i-1].FrequencyRatio {
			t.Errorf("frequency ratio did not fall with amplitude: %g at %g, %g at %g",
				results[i-1].FrequencyRatio, results[i-1].ParamValue, r.FrequencyRatio, r.ParamValue)
		}
	}
	if r := results[0].FrequencyRatio; r < 0.98 || r > 1.01 {
		t.Errorf("small-amplitude ratio = %g, want close to 1", r)
	}
}

func TestRunSweep_Errors(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Config: config.DefaultConfig(), Param: "dt", NumSteps: 1}, quiet()); err == nil {
		t.Error("expected error for a single-step sweep")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Config: config.DefaultConfig(), Param: "mass", NumSteps: 3}, quiet()); err == nil {
		t.Error("expected error for an unknown parameter")
	}
}
