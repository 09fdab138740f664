package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/stats"
)

type ExportData struct {
	Meta    RunMetadata             `json:"meta"`
	Steps   int                     `json:"steps"`
	Means   []float64               `json:"means"`
	Stddevs []float64               `json:"stddevs"`
	Extra   map[string]stats.Series `json:"observables,omitempty"`
}

func NewExportData(meta RunMetadata, out *ising.Output) ExportData {
	return ExportData{
		Meta:    meta,
		Steps:   len(out.Means),
		Means:   out.Means,
		Stddevs: out.Stddevs,
		Extra:   out.Observables,
	}
}

// ExportJSON writes data as indented JSON to w.
func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, data)
}

// WriteSeriesCSV writes a "t,mean,stddev" table. Values are written with
// full precision so a reload is exact.
func WriteSeriesCSV(w io.Writer, series stats.Series) error {
	if len(series.Means) != len(series.Stddevs) {
		return fmt.Errorf("%w: %d means, %d stddevs", ErrMalformedSeries, len(series.Means), len(series.Stddevs))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "mean", "stddev"}); err != nil {
		return err
	}
	for t := range series.Means {
		row := []string{
			strconv.Itoa(t),
			strconv.FormatFloat(series.Means[t], 'g', -1, 64),
			strconv.FormatFloat(series.Stddevs[t], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
