// Package sim drives integrators over a force field to produce trajectories.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/telemetry"
)

// Result is a trajectory together with the final value of every metric.
type Result struct {
	*dynamo.Trajectory
	Metrics map[string]float64
}

type Simulator struct {
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	telemetry  *telemetry.Recorder
	name       string
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		name:       "default",
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// WithTelemetry counts steps under the given run name.
func (s *Simulator) WithTelemetry(rec *telemetry.Recorder, name string) *Simulator {
	s.telemetry = rec
	s.name = name
	return s
}

// Run integrates from x0 and returns exactly nSteps states, the first being
// x0, on the grid t_i = i·dt. Metrics and observers see every state.
//
// On cancellation or a non-finite state the states computed so far are
// returned along with the error.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, mass float64, force field.Field, dt float64, nSteps int) (*Result, error) {
	if err := validate(x0, mass, dt, nSteps); err != nil {
		return nil, err
	}

	traj := &dynamo.Trajectory{
		States: make([]dynamo.State, 0, nSteps),
		Times:  make([]float64, 0, nSteps),
		Dt:     dt,
	}
	result := &Result{Trajectory: traj, Metrics: make(map[string]float64)}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0
	for i := 0; i < nSteps; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				s.finish(result)
				return result, ctx.Err()
			default:
			}

			x = s.integrator.Step(x, mass, force, dt)
			if !x.IsValid() {
				s.finish(result)
				return result, &dynamo.SimulationError{Step: i, Time: float64(i) * dt, State: x, Wrapped: dynamo.ErrInvalidState}
			}
		}

		t := float64(i) * dt
		traj.States = append(traj.States, x)
		traj.Times = append(traj.Times, t)

		for _, m := range s.metrics {
			m.Observe(i, t, x)
		}
		for _, obs := range s.observers {
			obs.Observe(i, t, x)
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	s.telemetry.RecordSteps(s.name, result.Len()-1)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validate(x0 dynamo.State, mass, dt float64, nSteps int) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidStep, dt)
	}
	if nSteps < 1 {
		return fmt.Errorf("%w: need at least one step, got %d", dynamo.ErrInvalidStep, nSteps)
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrInvalidStep, mass)
	}
	if !x0.IsValid() {
		return &dynamo.SimulationError{State: x0, Wrapped: dynamo.ErrInvalidState}
	}
	return nil
}
