// Package telemetry counts the work done by a run: integrator steps, force
// evaluations outside the fitted domain, energy evaluations and cache
// lookups. Counters live in a private Prometheus registry and can be dumped
// in the text exposition format for node_exporter's textfile collector.
//
// A nil *Recorder is valid and records nothing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "diatomic"

// Recorder holds the run counters.
type Recorder struct {
	Registry *prometheus.Registry

	// StepsTotal counts integrator steps. Labels: run.
	StepsTotal *prometheus.CounterVec

	// ExtrapolationsTotal counts force evaluations outside the fitted
	// domain. Labels: run.
	ExtrapolationsTotal *prometheus.CounterVec

	// EnergyEvaluationsTotal counts calls into an energy source that were
	// not served from cache.
	EnergyEvaluationsTotal prometheus.Counter

	// CacheLookupsTotal counts energy cache lookups. Labels: result (hit, miss).
	CacheLookupsTotal *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dynamics",
				Name:      "steps_total",
				Help:      "Integrator steps taken, by trajectory",
			},
			[]string{"run"},
		),
		ExtrapolationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dynamics",
				Name:      "extrapolations_total",
				Help:      "Force evaluations outside the fitted domain, by trajectory",
			},
			[]string{"run"},
		),
		EnergyEvaluationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pes",
				Name:      "energy_evaluations_total",
				Help:      "Energy source evaluations",
			},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pes",
				Name:      "cache_lookups_total",
				Help:      "Energy cache lookups by result",
			},
			[]string{"result"},
		),
	}
	r.Registry.MustRegister(r.StepsTotal, r.ExtrapolationsTotal, r.EnergyEvaluationsTotal, r.CacheLookupsTotal)
	return r
}

func (r *Recorder) RecordSteps(run string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.StepsTotal.WithLabelValues(run).Add(float64(n))
}

func (r *Recorder) RecordExtrapolation(run string) {
	if r == nil {
		return
	}
	r.ExtrapolationsTotal.WithLabelValues(run).Inc()
}

func (r *Recorder) RecordEnergyEvaluation() {
	if r == nil {
		return
	}
	r.EnergyEvaluationsTotal.Inc()
}

func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes all counters to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.Registry)
}
