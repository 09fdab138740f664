package analysis

import (
	"math"

	"github.com/san-kum/spinlab/internal/stats"
)

type Summary struct {
	Steps       int     `json:"steps"`
	FinalMean   float64 `json:"final_mean"`
	FinalStddev float64 `json:"final_stddev"`
	MinMean     float64 `json:"min_mean"`
	MaxMean     float64 `json:"max_mean"`
	AvgStddev   float64 `json:"avg_stddev"`
	Equilibrium int     `json:"equilibration_step"`
}

// Summarize reduces a series. Equilibrium uses a tolerance of tol per spin
// for an n×n lattice.
func Summarize(series stats.Series, n int, tol float64) Summary {
	s := Summary{Steps: len(series.Means)}
	if s.Steps == 0 {
		return s
	}

	s.FinalMean = series.Means[s.Steps-1]
	s.FinalStddev = series.Stddevs[s.Steps-1]
	s.MinMean, s.MaxMean = math.Inf(1), math.Inf(-1)
	for i, m := range series.Means {
		s.MinMean = math.Min(s.MinMean, m)
		s.MaxMean = math.Max(s.MaxMean, m)
		s.AvgStddev += series.Stddevs[i]
	}
	s.AvgStddev /= float64(s.Steps)
	s.Equilibrium = EquilibrationTime(series.Means, tol*float64(n*n))
	return s
}

// Map flattens s for run metadata.
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		"final_mean":         s.FinalMean,
		"final_stddev":       s.FinalStddev,
		"min_mean":           s.MinMean,
		"max_mean":           s.MaxMean,
		"avg_stddev":         s.AvgStddev,
		"equilibration_step": float64(s.Equilibrium),
	}
}
