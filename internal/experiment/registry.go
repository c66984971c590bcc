package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/integrators"
	"github.com/san-kum/diatomic/internal/metrics"
	"github.com/san-kum/diatomic/internal/pes"
)

// Registry resolves the names used in configuration files.
type Registry struct {
	surfaces    map[string]func() pes.Source
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		surfaces:    make(map[string]func() pes.Source),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	for _, name := range pes.Surfaces() {
		r.surfaces[name] = func() pes.Source {
			m, _ := pes.Surface(name)
			return m
		}
	}
	for _, name := range integrators.Names() {
		r.integrators[name] = func() dynamo.Integrator {
			integ, _ := integrators.Lookup(name)
			return integ
		}
	}
	return r
}

// RegisterSurface adds or replaces a named closed-form surface.
func (r *Registry) RegisterSurface(name string, f field.Field) {
	r.surfaces[name] = func() pes.Source { return pes.Model{Field: f} }
}

func (r *Registry) GetSurface(name string) (pes.Source, error) {
	fn, ok := r.surfaces[name]
	if !ok {
		return nil, fmt.Errorf("unknown surface: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSurfaces() []string {
	return sortedKeys(r.surfaces)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are attached to every trajectory. Energies are measured
// from the potential minimum e0: the mean vibrational energy and its drift.
// The rest compare against the analytic oscillator and count time spent
// outside [lo, hi].
func (r *Registry) DefaultMetrics(potential field.Field, mass, e0 float64, oracle func(float64) float64, lo, hi float64) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(potential, mass).WithReference(e0),
		metrics.NewEnergyDrift(potential, mass).WithReference(e0),
		metrics.NewDeviation(oracle),
		metrics.NewExcursion(lo, hi),
	}
}
