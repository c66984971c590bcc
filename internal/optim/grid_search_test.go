package optim

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/diatomic/internal/config"
	"github.com/san-kum/diatomic/internal/experiment"
)

func TestGridSearch_SmallestStepConservesBest(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Dynamics.Dt = params["dt"]
		cfg.Dynamics.Steps = 2000
		cfg.Fit.GridPoints = 2001
		return experiment.New(cfg).WithLogger(logger), nil
	}

	g := NewGridSearch([]string{"dt"}, [][]float64{{0.4, 0.1, 0.8}})
	best, val, err := g.Search(context.Background(), build, Objective{Trajectory: experiment.AbInitio, Metric: "energy_drift"})
	if err != nil {
		t.Fatal(err)
	}
	if best["dt"] != 0.1 {
		t.Errorf("best dt = %g (drift %g), want 0.1", best["dt"], val)
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"dt"}, [][]float64{{0.1}})
	best, _, err := g.Search(ctx, func(map[string]float64) (*experiment.Experiment, error) {
		t.Error("experiment built after cancellation")
		return nil, nil
	}, Objective{Trajectory: experiment.AbInitio, Metric: "energy_drift"})
	if err == nil || best != nil {
		t.Errorf("best=%v err=%v", best, err)
	}
}
