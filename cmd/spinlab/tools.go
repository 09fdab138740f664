package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinlab/internal/analysis"
	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/experiment"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/rules"
	"github.com/san-kum/spinlab/internal/scenario"
	"github.com/san-kum/spinlab/internal/storage"
	"github.com/san-kum/spinlab/internal/sweep"
)

var (
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tN\tREPEATS\tSTEPS\tRULE\tBETA\tFIELD")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		ruleName, betaStr := p.Rule.Name, fmt.Sprintf("%.4f", p.Rule.Beta)
		if len(p.Probs) > 0 {
			ruleName, betaStr = "custom", "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%.2f\n",
			name, p.N, p.Repeats, p.MaxTime, ruleName, betaStr, p.Rule.Field)
	}
	return w.Flush()
}

// benchRun times the same configuration under several worker layouts and
// verifies every layout reproduces the first one exactly.
func benchRun(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	type layout struct {
		backend       string
		workers       int
		repeatWorkers int
	}
	cpus := runtime.NumCPU()
	layouts := []layout{
		{"serial", 1, 1},
		{"cpu", 2, 1},
		{"cpu", cpus, 1},
		{"serial", 1, min(cpus, base.Repeats)},
		{"cpu", max(1, cpus/2), 2},
	}

	fmt.Printf("benchmarking %dx%d lattice, %d repeats of %d steps\n\n", base.N, base.N, base.Repeats, base.MaxTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tREPEAT WORKERS\tTIME\tCELL UPDATES/SEC\tMATCHES")

	var reference *ising.Output
	cellUpdates := float64(base.N*base.N) * float64(base.MaxTime) * float64(base.Repeats)

	for _, l := range layouts {
		cfg := base.Clone()
		cfg.Runtime.Backend = l.backend
		cfg.Runtime.Workers = l.workers
		cfg.Runtime.RepeatWorkers = l.repeatWorkers

		res, err := experiment.RunConfig(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}

		match := "ref"
		if reference == nil {
			reference = res.Output
		} else if sameOutput(reference, res.Output) {
			match = "yes"
		} else {
			match = "NO"
		}

		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%s\n",
			res.Backend, l.repeatWorkers, res.Elapsed.Round(time.Microsecond),
			cellUpdates/res.Elapsed.Seconds(), match)
	}

	return w.Flush()
}

func sameOutput(a, b *ising.Output) bool {
	return slices.Equal(a.Means, b.Means) && slices.Equal(a.Stddevs, b.Stddevs)
}

func sweepBeta(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepSteps < 1 {
		return fmt.Errorf("steps must be positive")
	}

	betas := sweep.Linspace(sweepMin, sweepMax, sweepSteps)
	fmt.Printf("sweeping beta over [%.3f, %.3f] with rule %s\n\n", sweepMin, sweepMax, cfg.Rule.Name)

	points, err := sweep.New(cfg, betas, nil).Run(cmd.Context(), func(i, total int, p sweep.Point) {
		fmt.Printf("sweep %d/%d: beta=%.4f |m|=%.4f\n", i+1, total, p.Beta, p.Order)
	})
	if err != nil {
		return err
	}

	order := make([]float64, len(points))
	for i, p := range points {
		order[i] = p.Order
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(order,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption("|magnetization| per spin vs beta"),
	))

	if beta, ok := sweep.Transition(points); ok {
		fmt.Printf("\nsteepest rise near beta=%.4f (exact critical %.4f)\n", beta, rules.CriticalBeta)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	st := storage.New(resolveDataDir(cmd))
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	outcomes, err := scenario.NewRunner(st, logger, nil).Run(cmd.Context(), sc)
	for _, o := range outcomes {
		fmt.Printf("  %s -> %s (final mean %.4f)\n", o.Name, o.RunID, o.Summary["final_mean"])
	}
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(resolveDataDir(cmd))
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Means) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	summary := analysis.Summarize(series, meta.N, experiment.EquilibrationTolerance)
	printSummary(summary.Map())
	fmt.Printf("  autocorrelation_time: %.3f\n", analysis.IntegratedAutocorrelationTime(series.Means[summary.Equilibrium:]))
	fmt.Println()

	ps := analysis.PowerSpectrum(series.Means)
	if len(ps) < 2 {
		return nil
	}
	fmt.Println(asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of mean magnetization"),
	))
	if period := analysis.DominantPeriod(series.Means); period > 0 {
		fmt.Printf("\ndominant period: %.2f steps\n", period)
	}

	return nil
}

func damageRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	in, err := cfg.Input()
	if err != nil {
		return err
	}
	b, err := experiment.NewRegistry().GetBackend(cfg.Runtime.Backend, cfg.Runtime.Workers)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	damage, err := analysis.DamageSpreading(in, b, cfg.N/2, cfg.N/2)
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(damage,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("fraction of cells differing from the unperturbed copy"),
	))
	fmt.Printf("\nfinal damage: %.4f\n", damage[len(damage)-1])
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !slices.Contains(cfg.Observables, "energy") {
		cfg.Observables = append(cfg.Observables, "energy")
	}

	res, err := experiment.RunConfig(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	portrait, err := analysis.MagnetizationPortrait(res.Output, "energy")
	if err != nil {
		return err
	}
	fmt.Print(portrait.ASCII(70, 22))
	return nil
}
