// Package stats accumulates per-timestep moments of the lattice summary
// across repeats.
package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTimestepRange  = errors.New("stats: timestep out of range")
	ErrLengthMismatch = errors.New("stats: accumulator lengths differ")
	ErrNoRepeats      = errors.New("stats: finalize needs at least one repeat")
)

// ExactLimit bounds the running sums below which float64 addition of
// integral summaries is exact, and therefore independent of merge order.
const ExactLimit = 1 << 53

// Accumulator keeps sum and sum-of-squares per timestep. It is not safe for
// concurrent use; parallel repeats each own one and are merged afterwards.
type Accumulator struct {
	sums       []float64
	sumSquares []float64
	count      int
}

func NewAccumulator(maxTime int) *Accumulator {
	return &Accumulator{
		sums:       make([]float64, maxTime),
		sumSquares: make([]float64, maxTime),
	}
}

func (a *Accumulator) Len() int { return len(a.sums) }

// Observe folds one repeat's summary at timestep t.
func (a *Accumulator) Observe(t int, summary float64) {
	a.sums[t] += summary
	a.sumSquares[t] += summary * summary
}

// EndRepeat records that one more repeat has been folded in.
func (a *Accumulator) EndRepeat() { a.count++ }

// Repeats reports how many repeats ended on this accumulator.
func (a *Accumulator) Repeats() int { return a.count }

// Merge adds other into a element-wise. Merging partials in a fixed order
// gives a fixed result; while every sum stays under ExactLimit the order
// does not matter at all.
func (a *Accumulator) Merge(other *Accumulator) error {
	if len(other.sums) != len(a.sums) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a.sums), len(other.sums))
	}
	for t := range a.sums {
		a.sums[t] += other.sums[t]
		a.sumSquares[t] += other.sumSquares[t]
	}
	a.count += other.count
	return nil
}

// Exact reports whether every running sum is still in the exact range.
func (a *Accumulator) Exact() bool {
	for t := range a.sums {
		if math.Abs(a.sums[t]) >= ExactLimit || a.sumSquares[t] >= ExactLimit {
			return false
		}
	}
	return true
}

func (a *Accumulator) Sums() []float64       { return a.sums }
func (a *Accumulator) SumSquares() []float64 { return a.sumSquares }

// Finalize converts the moments into per-timestep mean and population
// standard deviation over repeats. Rounding can push the variance a hair
// below zero; it is clamped.
func (a *Accumulator) Finalize(repeats int) (means, stddevs []float64, err error) {
	if repeats < 1 {
		return nil, nil, ErrNoRepeats
	}
	r := float64(repeats)
	means = make([]float64, len(a.sums))
	stddevs = make([]float64, len(a.sums))
	for t := range a.sums {
		means[t] = a.sums[t] / r
		variance := a.sumSquares[t]/r - means[t]*means[t]
		stddevs[t] = math.Sqrt(math.Max(0, variance))
	}
	return means, stddevs, nil
}

// ObserveAt is Observe with a range check, for callers outside the hot loop.
func (a *Accumulator) ObserveAt(t int, summary float64) error {
	if t < 0 || t >= len(a.sums) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrTimestepRange, t, len(a.sums))
	}
	a.Observe(t, summary)
	return nil
}

// Series is a finalized pair of per-timestep mean and standard deviation.
type Series struct {
	Means   []float64 `json:"means"`
	Stddevs []float64 `json:"stddevs"`
}

// Series finalizes into a Series.
func (a *Accumulator) Series(repeats int) (Series, error) {
	means, stddevs, err := a.Finalize(repeats)
	if err != nil {
		return Series{}, err
	}
	return Series{Means: means, Stddevs: stddevs}, nil
}
