package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinlab/internal/export"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(resolveDataDir(cmd))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tREPEATS\tSTEPS\tRULE\tBETA\tBACKEND\tELAPSED")

	for _, run := range runs {
		ruleName, betaStr := run.Rule, fmt.Sprintf("%.4f", run.Beta)
		if ruleName == "" {
			ruleName, betaStr = "custom", "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Repeats,
			run.MaxTime,
			ruleName,
			betaStr,
			run.Backend,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d, %d repeats\n", meta.N, meta.N, meta.Repeats)
	fmt.Printf("steps: %d\n\n", len(series.Means))

	fmt.Println(asciigraph.Plot(series.Means,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("mean magnetization"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(series.Stddevs,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("standard deviation"),
	))
	fmt.Println()

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(resolveDataDir(cmd))
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(resolveDataDir(cmd))
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	if len(series.Means) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteSeriesCSV(os.Stdout, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
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

	out := &ising.Output{Means: series.Means, Stddevs: series.Stddevs, Exact: meta.Exact}
	return storage.ExportJSON(os.Stdout, storage.NewExportData(*meta, out))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(resolveDataDir(cmd))
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(series, 800, 300, "#7fdbff")
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("series written to %s\n", args[1])
	return nil
}

// svgScale keeps lattice images around 512 pixels wide.
func svgScale(n int) float64 {
	return max(1, 512/float64(n))
}

func printSummary(summary map[string]float64) {
	for _, k := range sortedKeys(summary) {
		fmt.Printf("  %s: %.6f\n", k, summary[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
