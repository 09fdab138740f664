package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/experiment"
	"github.com/san-kum/spinlab/internal/export"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/logging"
	"github.com/san-kum/spinlab/internal/storage"
)

var (
	dataDir  string
	logLevel string

	// run parameters
	n             int
	seed          uint32
	repeats       int
	maxTime       int
	rule          string
	beta          float64
	coupling      float64
	field         float64
	probs         string
	observables   []string
	backend       string
	workers       int
	repeatWorkers int
	runName       string
	noSave        bool
	showLattice   bool
	svgPath       string

	// Config file
	configFile string
	saveConfig string
	// Preset name
	preset string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spinlab",
		Short:         "deterministic parallel spin lattice lab",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, verbose, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset or rule)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showLattice, "show", false, "print the final lattice of repeat 0")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final lattice of repeat 0 as SVG")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean and spread of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "export run series as an SVG plot",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(resolveDataDir(cmd)).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time a run across worker counts and check outputs match",
		Args:  cobra.NoArgs,
		RunE:  benchRun,
	}
	addRunFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep inverse temperature and plot the order parameter",
		Args:  cobra.NoArgs,
		RunE:  sweepBeta,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest beta")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "highest beta")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of beta values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML batch of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "equilibration and spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	damageCmd := &cobra.Command{
		Use:   "damage",
		Short: "spread of a single flipped spin under shared randomness",
		Args:  cobra.NoArgs,
		RunE:  damageRun,
	}
	addRunFlags(damageCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "energy against magnetization over time",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	addRunFlags(phaseCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, deleteCmd,
		presetsCmd, benchCmd, sweepCmd, scenarioCmd, analyzeCmd, damageCmd, phaseCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&n, "n", config.DefaultN, "lattice side length")
	cmd.Flags().Uint32Var(&seed, "seed", config.DefaultSeed, "top-level seed")
	cmd.Flags().IntVar(&repeats, "repeats", config.DefaultRepeats, "independent repeats")
	cmd.Flags().IntVar(&maxTime, "time", config.DefaultMaxTime, "timesteps per repeat")
	cmd.Flags().StringVar(&rule, "rule", config.DefaultRule, "flip rule used to derive thresholds")
	cmd.Flags().Float64Var(&beta, "beta", 0, "inverse temperature (default critical)")
	cmd.Flags().Float64Var(&coupling, "coupling", config.DefaultCoupling, "coupling J")
	cmd.Flags().Float64Var(&field, "field", 0, "external field H")
	cmd.Flags().StringVar(&probs, "probs", "", "ten comma-separated thresholds, overriding the rule")
	cmd.Flags().StringSliceVar(&observables, "observe", nil, "extra observables to aggregate")
	cmd.Flags().StringVar(&backend, "backend", "auto", "cell update backend: auto, cpu or serial")
	cmd.Flags().IntVar(&workers, "workers", 0, "cell workers (0 = one per CPU)")
	cmd.Flags().IntVar(&repeatWorkers, "repeat-workers", 1, "repeats run concurrently")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = n
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("repeats") {
		cfg.Repeats = repeats
	}
	if flags.Changed("time") {
		cfg.MaxTime = maxTime
	}
	if flags.Changed("rule") {
		cfg.Rule.Name = rule
	}
	if flags.Changed("beta") {
		cfg.Rule.Beta = beta
	}
	if flags.Changed("coupling") {
		cfg.Rule.Coupling = coupling
	}
	if flags.Changed("field") {
		cfg.Rule.Field = field
	}
	if flags.Changed("probs") {
		p, err := parseProbs(probs)
		if err != nil {
			return nil, err
		}
		cfg.Probs = p
	}
	if flags.Changed("observe") {
		cfg.Observables = observables
	}
	if flags.Changed("backend") {
		cfg.Runtime.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Runtime.Workers = workers
	}
	if flags.Changed("repeat-workers") {
		cfg.Runtime.RepeatWorkers = repeatWorkers
	}
	if flags.Changed("log-level") {
		cfg.Runtime.LogLevel = logLevel
	}
	if flags.Changed("data") {
		cfg.Runtime.DataDir = dataDir
	}

	return cfg, nil
}

func parseProbs(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// resolveDataDir is the store location for commands without run flags.
func resolveDataDir(cmd *cobra.Command) string {
	if cmd.Flags().Changed("data") {
		return dataDir
	}
	if dir := os.Getenv(config.EnvPrefix + "DATA_DIR"); dir != "" {
		return dir
	}
	return dataDir
}

func newLogger(level string) (logging.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, lvl), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg.Runtime.LogLevel)
	if err != nil {
		return err
	}

	name := runName
	switch {
	case name != "":
	case cfg.Name != "":
		name = cfg.Name
	case len(cfg.Probs) > 0:
		name = "custom"
	default:
		name = cfg.Rule.Name
	}

	exp := experiment.New(cfg, logger)
	var observers []ising.Observer
	final := &finalFrame{step: cfg.MaxTime - 1}
	if showLattice || svgPath != "" {
		observers = append(observers, final)
	}
	if err := exp.Setup(observers...); err != nil {
		return err
	}

	fmt.Printf("running %dx%d lattice, %d repeats of %d steps...\n", cfg.N, cfg.N, cfg.Repeats, cfg.MaxTime)
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	meta := res.Metadata(cfg, name)
	fmt.Printf("completed in %v on %s\n", res.Elapsed, res.Backend)
	if !noSave {
		st := storage.New(cfg.Runtime.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, res.Output)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("steps: %d\n", len(res.Output.Means))
	if !res.Output.Exact {
		fmt.Println("warning: sums exceeded exact float range; statistics may vary with worker count")
	}
	fmt.Println("\nsummary:")
	printSummary(meta.Summary)

	for _, name := range sortedKeys(res.Output.Observables) {
		series := res.Output.Observables[name]
		last := len(series.Means) - 1
		fmt.Printf("  %s: %.6f ± %.6f\n", name, series.Means[last], series.Stddevs[last])
	}

	if showLattice && final.lat != nil {
		fmt.Println("\nfinal lattice (repeat 0):")
		fmt.Print(lattice.Render(final.lat))
	}
	if svgPath != "" && final.lat != nil {
		if err := os.WriteFile(svgPath, []byte(export.LatticeToSVG(final.lat, svgScale(cfg.N))), 0644); err != nil {
			return err
		}
		fmt.Printf("lattice written to %s\n", svgPath)
	}

	return nil
}

// finalFrame keeps the lattice of repeat 0 at one timestep.
type finalFrame struct {
	step int
	lat  *lattice.Lattice
}

func (f *finalFrame) OnStep(repeat, t int, l *lattice.Lattice) {
	if repeat == 0 && t == f.step {
		f.lat = l.Clone()
	}
}
