package ising

import (
	"fmt"

	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/stats"
)

// Input is the run record.
type Input struct {
	N       int       `json:"n"`
	Seed    uint32    `json:"seed"`
	Repeats int       `json:"repeats"`
	MaxTime int       `json:"max_time"`
	Probs   []float64 `json:"probs"`
}

// Validate checks every precondition and names the first one that fails.
func (in Input) Validate() error {
	if in.N < 1 {
		return fmt.Errorf("%w: got n=%d", ErrInvalidSize, in.N)
	}
	if in.Repeats < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidRepeats, in.Repeats)
	}
	if in.MaxTime < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxTime, in.MaxTime)
	}
	if len(in.Probs) != lattice.TableSize {
		return fmt.Errorf("%w: got %d", ErrProbsLength, len(in.Probs))
	}
	return nil
}

// Output holds per-timestep statistics of the magnetization over repeats.
// Means and Stddevs always have MaxTime entries.
type Output struct {
	Means   []float64 `json:"means"`
	Stddevs []float64 `json:"stddevs"`

	// Observables holds the same statistics for every extra observable
	// registered on the simulator, keyed by name.
	Observables map[string]stats.Series `json:"observables,omitempty"`

	// Exact reports whether the magnetization sums stayed in the range where
	// float64 addition is exact, making Means and Stddevs independent of
	// how repeats were split across workers. Observables with fractional
	// values carry no such guarantee.
	Exact bool `json:"exact"`
}

// Observer sees the lattice after every timestep of every repeat.
type Observer interface {
	OnStep(repeat, t int, l *lattice.Lattice)
}

// Observable is an extra per-timestep scalar aggregated alongside the
// magnetization.
type Observable interface {
	Name() string
	Measure(l *lattice.Lattice) float64
}
