// Package experiment runs the full pipeline for one configuration: sample
// the potential energy surface, fit it, locate the equilibrium and
// integrate the ab initio and harmonic trajectories side by side.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"text/template"
	"time"

	"github.com/san-kum/diatomic/internal/analysis"
	"github.com/san-kum/diatomic/internal/cache"
	"github.com/san-kum/diatomic/internal/config"
	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/equilibrium"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/harmonic"
	"github.com/san-kum/diatomic/internal/pes"
	"github.com/san-kum/diatomic/internal/sim"
	"github.com/san-kum/diatomic/internal/storage"
	"github.com/san-kum/diatomic/internal/telemetry"
	"github.com/san-kum/diatomic/internal/units"
)

// Trajectory names.
const (
	AbInitio = "abinitio"
	Harmonic = "harmonic"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *slog.Logger
	telemetry *telemetry.Recorder
	cache     pes.Cache
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   slog.Default(),
	}
}

func (e *Experiment) WithRegistry(r *Registry) *Experiment {
	e.registry = r
	return e
}

func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	e.logger = l
	return e
}

func (e *Experiment) WithTelemetry(rec *telemetry.Recorder) *Experiment {
	e.telemetry = rec
	return e
}

// WithCache memoizes swept energies in c instead of the cache named by the
// configuration.
func (e *Experiment) WithCache(c pes.Cache) *Experiment {
	e.cache = c
	return e
}

// Fit is a fitted surface and its equilibrium.
type Fit struct {
	Samples     pes.SampleSet
	Boundary    field.Boundary
	Energy      *field.PiecewisePoly
	Force       field.Field
	Lo, Hi      float64
	Equilibrium equilibrium.State
}

type Report struct {
	Name       string
	Config     *config.Config
	Fit        *Fit
	Oscillator harmonic.Oscillator
	Initial    dynamo.State
	Runs       map[string]*sim.Result
	// DominantFrequency is the FFT frequency of the ab initio trajectory.
	DominantFrequency float64
	Extrapolations    map[string]int
	Elapsed           time.Duration
}

// Samples obtains the PES samples in bohr and hartree.
func (e *Experiment) Samples(ctx context.Context) (pes.SampleSet, error) {
	sc := e.cfg.Samples
	switch {
	case len(sc.R) > 0:
		rs := sc.R
		if sc.Angstrom {
			rs = units.AngstromsToBohr(rs)
		}
		return pes.NewSampleSet(rs, sc.Energy)

	case sc.File != "":
		f, err := os.Open(sc.File)
		if err != nil {
			return pes.SampleSet{}, err
		}
		defer f.Close()
		set, err := pes.ReadCSV(f)
		if err != nil {
			return pes.SampleSet{}, fmt.Errorf("%s: %w", sc.File, err)
		}
		if sc.Angstrom {
			return pes.NewSampleSet(units.AngstromsToBohr(set.Separations()), set.Energies())
		}
		return set, nil

	case sc.Swept():
		return e.sweep(ctx)
	}
	return pes.SampleSet{}, fmt.Errorf("%w: no sample source", config.ErrInvalid)
}

func (e *Experiment) sweep(ctx context.Context) (pes.SampleSet, error) {
	sc := e.cfg.Samples
	src, namespace, err := e.source()
	if err != nil {
		return pes.SampleSet{}, err
	}
	src = &counted{Source: src, rec: e.telemetry}

	c := e.cache
	if c == nil && (e.cfg.Cache.Path != "" || e.cfg.Cache.InMemory) {
		cc := cache.DefaultConfig(e.cfg.Cache.Path)
		cc.InMemory = e.cfg.Cache.InMemory
		cc.Logger = e.logger
		store, err := cache.Open(cc)
		if err != nil {
			return pes.SampleSet{}, err
		}
		defer store.Close()
		c = store
	}
	if c != nil {
		src = &pes.Cached{
			Source:    src,
			Cache:     c,
			Namespace: namespace,
			OnLookup:  e.telemetry.RecordCacheLookup,
		}
	}

	grid := equilibrium.Grid(sc.Grid.Start, sc.Grid.Stop, sc.Grid.Points)
	if sc.Angstrom {
		grid = units.AngstromsToBohr(grid)
	}
	e.logger.Info("sweeping surface", "source", namespace, "points", len(grid), "workers", sc.Workers)
	return pes.Sweep(ctx, src, grid, sc.Workers)
}

// source builds the configured energy source and its cache namespace.
func (e *Experiment) source() (pes.Source, string, error) {
	sc := e.cfg.Samples
	if sc.Program == nil {
		src, err := e.registry.GetSurface(sc.Surface)
		return src, sc.Surface, err
	}

	pc := sc.Program
	p := pes.NewPsi4(e.cfg.Molecule.Atom1, e.cfg.Molecule.Atom2, pc.Method, pc.Basis)
	p.Command = pc.Command
	if len(pc.Args) > 0 {
		p.Args = pc.Args
	}
	if pc.Template != "" {
		tmpl, err := template.ParseFiles(pc.Template)
		if err != nil {
			return nil, "", err
		}
		p.Template = tmpl
	}
	if pc.Pattern != "" {
		re, err := regexp.Compile(pc.Pattern)
		if err != nil {
			return nil, "", fmt.Errorf("%w: energy pattern: %v", config.ErrInvalid, err)
		}
		p.Pattern = re
	}
	if pc.Output != "" {
		p.OutputName = pc.Output
	}
	namespace := fmt.Sprintf("%s/%s%s/%s/%s", pc.Command, p.Atom1, p.Atom2, pc.Method, pc.Basis)
	return p, namespace, nil
}

// FitSamples splines samples and locates the equilibrium.
func (e *Experiment) FitSamples(samples pes.SampleSet) (*Fit, error) {
	bc, err := field.ParseBoundary(e.cfg.Fit.Boundary)
	if err != nil {
		return nil, err
	}
	spline, err := samples.Interpolate(bc)
	if err != nil {
		return nil, err
	}
	lo, hi := spline.Domain()

	eq, err := equilibrium.FindOnDomain(spline, e.cfg.Molecule.Masses.Reduced(), equilibrium.Options{
		GridPoints: e.cfg.Fit.GridPoints,
		Refine:     e.cfg.Fit.Refine,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("equilibrium located",
		"r_eq_angstrom", units.BohrToAngstrom(eq.R),
		"k", eq.ForceConstant,
		"hbar_omega_ev", units.HartreeToEV(eq.VibrationalEnergy()))

	return &Fit{
		Samples:     samples,
		Boundary:    bc,
		Energy:      spline,
		Force:       field.ForceField(spline),
		Lo:          lo,
		Hi:          hi,
		Equilibrium: eq,
	}, nil
}

// Run executes the whole pipeline.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	// Fail before sweeping, which may run external programs.
	if _, err := e.registry.GetIntegrator(e.cfg.Dynamics.Integrator); err != nil {
		return nil, err
	}

	samples, err := e.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("experiment: samples: %w", err)
	}
	fit, err := e.FitSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("experiment: fit: %w", err)
	}

	report, err := e.Dynamics(ctx, fit)
	if err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)
	e.logger.Info("experiment complete", "name", report.Name, "elapsed", report.Elapsed)
	return report, nil
}

// Dynamics integrates both trajectories on an existing fit using the
// configured dynamics.
func (e *Experiment) Dynamics(ctx context.Context, fit *Fit) (*Report, error) {
	start := time.Now()
	integ, err := e.registry.GetIntegrator(e.cfg.Dynamics.Integrator)
	if err != nil {
		return nil, err
	}
	eq := fit.Equilibrium
	samples := fit.Samples

	dc := e.cfg.Dynamics
	osc := harmonic.Oscillator{Omega: eq.Omega, Amplitude: dc.Amplitude, Phase: dc.Phase, Req: eq.R}
	x0 := osc.InitialState()

	harm, err := harmonic.SampledPotential(samples, eq.ForceConstant, eq.R, eq.Energy, fit.Boundary)
	if err != nil {
		return nil, fmt.Errorf("experiment: harmonic surface: %w", err)
	}

	ens := sim.NewEnsemble(integ).WithTelemetry(e.telemetry)
	watches := make(map[string]*sim.ExtrapolationWatch)
	for _, m := range []struct {
		name      string
		potential *field.PiecewisePoly
	}{
		{AbInitio, fit.Energy},
		{Harmonic, harm},
	} {
		w := sim.NewExtrapolationWatch(m.name, fit.Lo, fit.Hi, e.logger, e.telemetry)
		watches[m.name] = w
		err := ens.Add(sim.Member{
			Name:    m.name,
			Force:   field.ForceField(m.potential),
			Metrics: e.registry.DefaultMetrics(m.potential, eq.ReducedMass, eq.Energy, osc.Position, fit.Lo, fit.Hi),
			Watch:   w,
		})
		if err != nil {
			return nil, err
		}
	}

	e.logger.Info("integrating", "integrator", dc.Integrator, "dt", dc.Dt, "steps", dc.Steps,
		"r0", x0.R, "v0", x0.V)
	runs, err := ens.Run(ctx, x0, eq.ReducedMass, dc.Dt, dc.Steps)
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}

	report := &Report{
		Name:           e.cfg.Name,
		Config:         e.cfg,
		Fit:            fit,
		Oscillator:     osc,
		Initial:        x0,
		Runs:           runs,
		Extrapolations: make(map[string]int, len(watches)),
	}
	for name, w := range watches {
		report.Extrapolations[name] = w.Count()
	}

	if nu, err := analysis.DominantFrequency(runs[AbInitio].Positions(), dc.Dt); err == nil {
		report.DominantFrequency = nu
	} else {
		e.logger.Warn("no dominant frequency", "error", err)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// Comparison is one integrator's ab initio trajectory.
type Comparison struct {
	Integrator string
	Result     *sim.Result
	Elapsed    time.Duration
}

// Compare integrates the ab initio force of fit with each named integrator
// from the configured initial state.
func (e *Experiment) Compare(ctx context.Context, fit *Fit, names []string) ([]Comparison, error) {
	eq := fit.Equilibrium
	dc := e.cfg.Dynamics
	osc := harmonic.Oscillator{Omega: eq.Omega, Amplitude: dc.Amplitude, Phase: dc.Phase, Req: eq.R}

	out := make([]Comparison, 0, len(names))
	for _, name := range names {
		integ, err := e.registry.GetIntegrator(name)
		if err != nil {
			return out, err
		}
		s := sim.New(integ).WithTelemetry(e.telemetry, name)
		for _, m := range e.registry.DefaultMetrics(fit.Energy, eq.ReducedMass, eq.Energy, osc.Position, fit.Lo, fit.Hi) {
			s.AddMetric(m)
		}
		w := sim.NewExtrapolationWatch(name, fit.Lo, fit.Hi, e.logger, e.telemetry)
		s.AddObserver(w)

		start := time.Now()
		res, err := s.Run(ctx, osc.InitialState(), eq.ReducedMass, w.Wrap(fit.Force), dc.Dt, dc.Steps)
		w.LogSummary()
		if err != nil {
			return out, fmt.Errorf("experiment: %s: %w", name, err)
		}
		out = append(out, Comparison{Integrator: name, Result: res, Elapsed: time.Since(start)})
	}
	return out, nil
}

// Run is New(cfg).Run(ctx).
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	return New(cfg).Run(ctx)
}

// Record converts the report into a storable run.
func (r *Report) Record() *storage.Run {
	dc := r.Config.Dynamics
	run := &storage.Run{
		Metadata: storage.RunMetadata{
			Name:              r.Name,
			Integrator:        dc.Integrator,
			Boundary:          r.Fit.Boundary.String(),
			Dt:                dc.Dt,
			Steps:             dc.Steps,
			Amplitude:         dc.Amplitude,
			Phase:             dc.Phase,
			Equilibrium:       r.Fit.Equilibrium,
			DominantFrequency: r.DominantFrequency,
			Metrics:           make(map[string]map[string]float64, len(r.Runs)),
		},
		Samples:      r.Fit.Samples,
		Trajectories: make(map[string]*dynamo.Trajectory, len(r.Runs)),
	}
	for name, res := range r.Runs {
		run.Trajectories[name] = res.Trajectory
		run.Metadata.Metrics[name] = res.Metrics
	}
	return run
}

// counted reports every energy evaluation that reaches the wrapped source.
type counted struct {
	pes.Source
	rec *telemetry.Recorder
}

func (c *counted) Energy(ctx context.Context, r float64) (float64, error) {
	c.rec.RecordEnergyEvaluation()
	return c.Source.Energy(ctx, r)
}
