package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/diatomic/internal/analysis"
	"github.com/san-kum/diatomic/internal/automation"
	"github.com/san-kum/diatomic/internal/config"
	"github.com/san-kum/diatomic/internal/experiment"
	"github.com/san-kum/diatomic/internal/optim"
	"github.com/san-kum/diatomic/internal/sim"
	"github.com/san-kum/diatomic/internal/storage"
	"github.com/san-kum/diatomic/internal/telemetry"
	"github.com/san-kum/diatomic/internal/units"
	"github.com/san-kum/diatomic/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	metricsFile string

	configFile string
	molecule   string
	preset     string

	integrator string
	dt         float64
	steps      int
	amplitude  float64
	phase      float64
	boundary   string
	surface    string
	samplesCSV string
	angstrom   bool
	workers    int
	gridPoints int
	refine     bool
	cachePath  string
	noSave     bool

	trajectory  string
	plotWidth   int
	plotHeight  int
	phaseWidth  int
	phaseHeight int

	sweepParam      string
	sweepMin        float64
	sweepMax        float64
	sweepN          int
	objectiveMetric string

	logger   *slog.Logger
	recorder = telemetry.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "diatomic",
		Short:         "vibrational dynamics of diatomic molecules on fitted potential energy surfaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsFile == "" {
				return nil
			}
			return recorder.WriteTextfile(metricsFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".diatomic/runs", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus counters to this file on exit")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fit the surface and integrate the ab initio and harmonic trajectories",
		Args:  cobra.NoArgs,
		RunE:  runExperiment,
	}
	addConfigFlags(runCmd)
	addDynamicsFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "sample the surface and print r,energy in bohr and hartree",
		Args:  cobra.NoArgs,
		RunE:  scanSurface,
	}
	addConfigFlags(scanCmd)

	equilibriumCmd := &cobra.Command{
		Use:   "equilibrium",
		Short: "locate the equilibrium and print the harmonic constants",
		Args:  cobra.NoArgs,
		RunE:  findEquilibrium,
	}
	addConfigFlags(equilibriumCmd)

	compareCmd := &cobra.Command{
		Use:   "compare <integrator>...",
		Short: "integrate the ab initio trajectory with several integrators",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)
	addDynamicsFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot r(t) of every trajectory of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase <run-id>",
		Short: "draw the (r, v) phase portrait of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&trajectory, "trajectory", experiment.AbInitio, "trajectory name")
	phaseCmd.Flags().IntVar(&phaseWidth, "width", 70, "portrait width")
	phaseCmd.Flags().IntVar(&phaseHeight, "height", 20, "portrait height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run-id>",
		Short: "frequency analysis of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&trajectory, "trajectory", experiment.AbInitio, "trajectory name")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv <run-id>",
		Short: "write a trajectory as time,r,v csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&trajectory, "trajectory", experiment.AbInitio, "trajectory name")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json <run-id>",
		Short: "write a run with samples and trajectories as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [molecule] [preset]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(2),
		RunE:  showPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one dynamics parameter on a single fitted surface",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	addDynamicsFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "amplitude", "parameter to vary (dt, steps, amplitude, phase)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 10, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize name=v1,v2,... [name=...]",
		Short: "grid search over parameters minimizing a trajectory metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runOptimize,
	}
	addConfigFlags(optimizeCmd)
	addDynamicsFlags(optimizeCmd)
	optimizeCmd.Flags().StringVar(&objectiveMetric, "metric", "energy_drift", "metric to minimize")
	optimizeCmd.Flags().StringVar(&trajectory, "trajectory", experiment.AbInitio, "trajectory the metric is read from")

	rootCmd.AddCommand(runCmd, scanCmd, equilibriumCmd, compareCmd, listCmd, plotCmd,
		phaseCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd,
		scenarioCmd, sweepCmd, optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&molecule, "molecule", "hf", "molecule for --preset")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&surface, "surface", "", "sample a named model surface")
	cmd.Flags().StringVar(&samplesCSV, "samples", "", "read r,energy samples from csv")
	cmd.Flags().BoolVar(&angstrom, "angstrom", true, "separations are in ångström")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent energy evaluations")
	cmd.Flags().StringVar(&boundary, "boundary", config.DefaultBoundary, "spline end condition (not-a-knot, natural)")
	cmd.Flags().IntVar(&gridPoints, "grid-points", 0, "equilibrium search grid size")
	cmd.Flags().BoolVar(&refine, "refine", false, "polish the equilibrium with Newton steps")
	cmd.Flags().StringVar(&cachePath, "cache", "", "badger energy cache directory")
}

func addDynamicsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (atomic units)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of states")
	cmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "initial amplitude (bohr)")
	cmd.Flags().Float64Var(&phase, "phase", config.DefaultPhase, "initial phase (rad)")
}

// loadConfig builds the configuration: defaults, then preset, then config
// file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(molecule, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(molecule))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("surface") {
		cfg.Samples = config.SamplesConfig{
			Surface:  surface,
			Grid:     cfg.Samples.Grid,
			Angstrom: cfg.Samples.Angstrom,
			Workers:  cfg.Samples.Workers,
		}
	}
	if flags.Changed("samples") {
		cfg.Samples = config.SamplesConfig{
			File:     samplesCSV,
			Angstrom: cfg.Samples.Angstrom,
			Workers:  cfg.Samples.Workers,
		}
	}
	if flags.Changed("angstrom") {
		cfg.Samples.Angstrom = angstrom
	}
	if flags.Changed("workers") {
		cfg.Samples.Workers = workers
	}
	if flags.Changed("boundary") {
		cfg.Fit.Boundary = boundary
	}
	if flags.Changed("grid-points") {
		cfg.Fit.GridPoints = gridPoints
	}
	if flags.Changed("refine") {
		cfg.Fit.Refine = refine
	}
	if flags.Changed("cache") {
		cfg.Cache.Path = cachePath
	}
	if flags.Changed("integrator") {
		cfg.Dynamics.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dynamics.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Dynamics.Steps = steps
	}
	if flags.Changed("amplitude") {
		cfg.Dynamics.Amplitude = amplitude
	}
	if flags.Changed("phase") {
		cfg.Dynamics.Phase = phase
	}
	return cfg, cfg.Validate()
}

func newExperiment(cfg *config.Config) *experiment.Experiment {
	return experiment.New(cfg).WithLogger(logger).WithTelemetry(recorder)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s...\n", cfg.Name)
	report, err := newExperiment(cfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(equilibriumPanel(report.Fit))
	fmt.Println(dynamicsPanel(report))
	if err := printMetrics(report.Runs); err != nil {
		return err
	}
	if res, ok := report.Runs[experiment.AbInitio]; ok {
		fmt.Printf("\nr(t) %s\n", viz.Sparkline(res.Positions(), 72))
	}

	fmt.Printf("\ncompleted in %v\n", report.Elapsed.Round(time.Millisecond))
	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(report.Record())
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func scanSurface(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	samples, err := newExperiment(cfg).Samples(ctx)
	if err != nil {
		return err
	}
	return samples.WriteCSV(os.Stdout)
}

func findEquilibrium(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	exp := newExperiment(cfg)
	samples, err := exp.Samples(ctx)
	if err != nil {
		return err
	}
	fit, err := exp.FitSamples(samples)
	if err != nil {
		return err
	}
	fmt.Println(equilibriumPanel(fit))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	exp := newExperiment(cfg)
	samples, err := exp.Samples(ctx)
	if err != nil {
		return err
	}
	fit, err := exp.FitSamples(samples)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%g, steps=%d)\n\n", cfg.Name, cfg.Dynamics.Dt, cfg.Dynamics.Steps)
	results, err := exp.Compare(ctx, fit, args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_R\tENERGY_DRIFT\tMAX_DEVIATION\tTIME_MS")
	for _, c := range results {
		_, final := c.Result.At(c.Result.Len() - 1)
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.2e\t%.2f\n",
			c.Integrator,
			final.R,
			c.Result.Metrics["energy_drift"],
			c.Result.Metrics["max_deviation"],
			float64(c.Elapsed.Microseconds())/1000,
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tDT\tSTEPS\tR_EQ(Å)\tħω(eV)\tFFT_FREQ")
	for _, run := range runs {
		eq := run.Equilibrium
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.5f\t%.5f\t%.4e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Dt,
			run.Steps,
			units.BohrToAngstrom(eq.R),
			units.HartreeToEV(eq.VibrationalEnergy()),
			run.DominantFrequency,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}
	if len(run.Trajectories) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", run.Metadata.ID)
	fmt.Printf("states: %d\n\n", run.Metadata.Steps)

	series := make([]viz.Series, 0, len(run.Trajectories))
	for _, name := range run.Metadata.Trajectories {
		series = append(series, viz.Series{Name: name, Values: run.Trajectories[name].Positions()})
	}
	opts := viz.PlotOptions{Width: plotWidth, Height: plotHeight}
	fmt.Println(viz.Plot("r(t) bohr", series, opts))

	ab, okA := run.Trajectories[experiment.AbInitio]
	h, okH := run.Trajectories[experiment.Harmonic]
	if okA && okH && ab.Len() == h.Len() {
		diff := make([]float64, ab.Len())
		for i := range diff {
			diff[i] = ab.States[i].R - h.States[i].R
		}
		fmt.Println()
		fmt.Println(viz.Plot("r_abinitio - r_harmonic (bohr)", []viz.Series{{Name: "difference", Values: diff}}, opts))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0], trajectory)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s (%s)\n\n", meta.ID, trajectory)
	fmt.Println(analysis.NewPhasePortrait(traj).ASCII(phaseWidth, phaseHeight, meta.Equilibrium.R))
	fmt.Println(viz.Subtle.Render("x: r (bohr), y: v (bohr/a.u.), axis at r_eq; . early, o middle, ● late"))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0], trajectory)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s (%s)\n\n", meta.ID, trajectory)

	positions := traj.Positions()
	ps := analysis.PowerSpectrum(positions, 0)
	if len(ps) > 2 {
		fmt.Println(viz.Plot("power spectrum of r(t)", []viz.Series{{Name: "power", Values: ps[:max(len(ps)/16, 2)]}},
			viz.PlotOptions{Height: 15}))
		fmt.Println()
	}

	nu, err := analysis.DominantFrequency(positions, traj.Dt)
	if err != nil {
		return err
	}
	eq := meta.Equilibrium
	rows := []viz.Row{
		viz.Rowf("dominant frequency", "%.6e 1/a.u.", nu),
		viz.Rowf("harmonic frequency", "%.6e 1/a.u.", eq.Frequency),
		viz.Rowf("ratio", "%.5f", nu/eq.Frequency),
		viz.Rowf("wavenumber", "%.1f cm⁻¹", units.HartreeToWavenumber(2*math.Pi*nu)),
	}
	if period := analysis.MeanPeriod(traj, eq.R); period > 0 {
		rows = append(rows,
			viz.Rowf("crossing period", "%.2f a.u. (%.3f fs)", period, units.AtomicTimeToFemtoseconds(period)),
			viz.Rowf("harmonic period", "%.2f a.u.", eq.Period()))
	}
	fmt.Println(viz.Panel("spectrum", rows))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	traj, err := storage.New(dataDir).LoadTrajectory(args[0], trajectory)
	if err != nil {
		return err
	}
	return storage.WriteTrajectoryCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, run)
}

func showPresets(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		for _, mol := range config.Molecules() {
			fmt.Printf("%s: %s\n", mol, strings.Join(config.ListPresets(mol), ", "))
		}
		return nil
	case 1:
		names := config.ListPresets(args[0])
		if names == nil {
			return fmt.Errorf("unknown molecule: %s (available: %v)", args[0], config.Molecules())
		}
		fmt.Printf("available presets for %s:\n", args[0])
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	}

	cfg := config.GetPreset(args[0], args[1])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s/%s", args[0], args[1])
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func equilibriumPanel(fit *experiment.Fit) string {
	eq := fit.Equilibrium
	return viz.Panel("equilibrium", []viz.Row{
		viz.Rowf("samples", "%d on [%.4f, %.4f] bohr", fit.Samples.Len(), fit.Lo, fit.Hi),
		viz.Rowf("spline", "%s", fit.Boundary),
		viz.Rowf("r_eq", "%.7f Å (%.7f bohr)", units.BohrToAngstrom(eq.R), eq.R),
		viz.Rowf("E(r_eq)", "%.8f Eh", eq.Energy),
		viz.Rowf("force constant", "%.7f Eh/bohr²", eq.ForceConstant),
		viz.Rowf("reduced mass", "%.4f mₑ", eq.ReducedMass),
		viz.Rowf("ħω", "%.7f eV (%.1f cm⁻¹)", units.HartreeToEV(eq.VibrationalEnergy()), units.HartreeToWavenumber(eq.VibrationalEnergy())),
		viz.Rowf("period", "%.3f a.u. (%.3f fs)", eq.Period(), units.AtomicTimeToFemtoseconds(eq.Period())),
	})
}

func dynamicsPanel(r *experiment.Report) string {
	dc := r.Config.Dynamics
	rows := []viz.Row{
		viz.Rowf("integrator", "%s", dc.Integrator),
		viz.Rowf("dt × states", "%g × %d", dc.Dt, dc.Steps),
		viz.Rowf("initial state", "r=%.6f bohr v=%.3e", r.Initial.R, r.Initial.V),
	}
	if r.DominantFrequency > 0 {
		eq := r.Fit.Equilibrium
		rows = append(rows, viz.Rowf("fft frequency", "%.6e 1/a.u. (%.4f × harmonic)", r.DominantFrequency, r.DominantFrequency/eq.Frequency))
	}
	for _, name := range sortedNames(r.Extrapolations) {
		if n := r.Extrapolations[name]; n > 0 {
			rows = append(rows, viz.Rowf("extrapolations", "%s: %s", name, viz.Warning.Render(fmt.Sprint(n))))
		}
	}
	return viz.Panel("dynamics", rows)
}

func printMetrics(runs map[string]*sim.Result) error {
	names := sortedNames(runs)
	if len(names) == 0 {
		return nil
	}
	metricNames := sortedNames(runs[names[0]].Metrics)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRAJECTORY\t%s\n", strings.ToUpper(strings.Join(metricNames, "\t")))
	for _, name := range names {
		vals := make([]string, len(metricNames))
		for i, m := range metricNames {
			vals[i] = fmt.Sprintf("%.3e", runs[name].Metrics[m])
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(vals, "\t"))
	}
	return w.Flush()
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	reports, err := automation.RunScenario(ctx, scenario, automation.Options{
		Logger:    logger,
		Telemetry: recorder,
		Store:     st,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tINTEG\tR_EQ(Å)\tħω(eV)\tFFT/HARMONIC\tENERGY_DRIFT")
	for i, r := range reports {
		eq := r.Fit.Equilibrium
		fmt.Fprintf(w, "%d\t%s\t%s\t%.6f\t%.6f\t%.5f\t%.2e\n",
			i+1,
			r.Name,
			r.Config.Dynamics.Integrator,
			units.BohrToAngstrom(eq.R),
			units.HartreeToEV(eq.VibrationalEnergy()),
			r.DominantFrequency/eq.Frequency,
			r.Runs[experiment.AbInitio].Metrics["energy_drift"],
		)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Config:   cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepN,
	}, automation.Options{Logger: logger, Telemetry: recorder})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFFT_FREQ\tFFT/HARMONIC\tENERGY_DRIFT\tMAX_DEVIATION\tEXTRAPOLATIONS\n", strings.ToUpper(sweepParam))
	ratios := make([]float64, len(results))
	for i, r := range results {
		ratios[i] = r.FrequencyRatio
		fmt.Fprintf(w, "%g\t%.6e\t%.5f\t%.2e\t%.2e\t%d\n",
			r.ParamValue, r.DominantFrequency, r.FrequencyRatio, r.EnergyDrift, r.MaxDeviation, r.Extrapolations)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nfft/harmonic %s\n", viz.Sparkline(ratios, len(ratios)))
	return nil
}

// parseGrid parses "name=v1,v2,..." arguments.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid grid %q, want name=v1,v2,...", arg)
		}
		var values []float64
		for _, part := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(args)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := automation.SetParam(config.DefaultConfig(), name, 0); err != nil {
			return err
		}
	}
	ctx, cancel := signalContext()
	defer cancel()

	evaluated := 0
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		for name, v := range params {
			if err := automation.SetParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		evaluated++
		logger.Info("grid point", "params", params)
		return newExperiment(&cfg), nil
	}

	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, build,
		optim.Objective{Trajectory: trajectory, Metric: objectiveMetric})
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no grid point produced %s for %s", objectiveMetric, trajectory)
	}

	rows := []viz.Row{viz.Rowf("evaluated", "%d points", evaluated)}
	for _, name := range names {
		rows = append(rows, viz.Rowf(name, "%g", best[name]))
	}
	rows = append(rows, viz.Rowf(objectiveMetric, "%.4e", val))
	fmt.Println(viz.Panel("best", rows))
	return nil
}
