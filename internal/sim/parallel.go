package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/telemetry"
)

// Member is one force field of an ensemble. Its metrics and observers are
// owned by its goroutine and must not be shared with other members.
type Member struct {
	Name      string
	Force     field.Field
	Metrics   []dynamo.Metric
	Observers []dynamo.Observer
	// Watch, if set, guards Force and reports evaluations outside its domain.
	Watch *ExtrapolationWatch
}

// Ensemble integrates several force fields from the same initial state on
// the same time grid, one goroutine per field.
type Ensemble struct {
	integrator dynamo.Integrator
	members    []Member
	telemetry  *telemetry.Recorder
}

func NewEnsemble(integrator dynamo.Integrator) *Ensemble {
	return &Ensemble{integrator: integrator}
}

func (e *Ensemble) WithTelemetry(rec *telemetry.Recorder) *Ensemble {
	e.telemetry = rec
	return e
}

func (e *Ensemble) Add(m Member) error {
	if m.Name == "" || m.Force == nil {
		return fmt.Errorf("sim: ensemble member needs a name and a force field")
	}
	for _, existing := range e.members {
		if existing.Name == m.Name {
			return fmt.Errorf("sim: duplicate ensemble member %q", m.Name)
		}
	}
	e.members = append(e.members, m)
	return nil
}

func (e *Ensemble) Names() []string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Name
	}
	return names
}

// Run integrates every member. The first failure cancels the others.
func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State, mass, dt float64, nSteps int) (map[string]*Result, error) {
	results := make([]*Result, len(e.members))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range e.members {
		g.Go(func() error {
			s := New(e.integrator).WithTelemetry(e.telemetry, m.Name)
			for _, metric := range m.Metrics {
				s.AddMetric(metric)
			}
			for _, obs := range m.Observers {
				s.AddObserver(obs)
			}

			force := m.Force
			if m.Watch != nil {
				force = m.Watch.Wrap(force)
				s.AddObserver(m.Watch)
			}

			res, err := s.Run(gctx, x0, mass, force, dt, nSteps)
			if m.Watch != nil {
				m.Watch.LogSummary()
			}
			if err != nil {
				return fmt.Errorf("sim: %s: %w", m.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(e.members))
	for i, m := range e.members {
		out[m.Name] = results[i]
	}
	return out, nil
}
