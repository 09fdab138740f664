package lattice

import (
	"fmt"
	"math"
)

const (
	// TableSize is the number of (neighbour sum, spin) combinations.
	TableSize = 10

	// MaxThreshold is the threshold every uint32 draw falls below.
	MaxThreshold = float64(1 << 32)
)

// ProbabilityTable maps (neighbour sum, spin) to a flip threshold.
//
// Thresholds live in the native range of the uint32 draw: a cell flips when
// float64(draw) < threshold. They are not normalised probabilities.
type ProbabilityTable [TableSize]float64

func NewProbabilityTable(probs []float64) (ProbabilityTable, error) {
	var t ProbabilityTable
	if len(probs) != TableSize {
		return t, fmt.Errorf("%w: got %d", ErrProbsLength, len(probs))
	}
	for i, p := range probs {
		if math.IsNaN(p) {
			return t, fmt.Errorf("%w: entry %d", ErrInvalidThreshold, i)
		}
		t[i] = p
	}
	return t, nil
}

// Index maps neighbourSum ∈ {-4,-2,0,2,4} and spin ∈ {-1,1} onto 0..9.
// Inputs outside those domains are a caller bug.
func Index(neighborSum, spin int) int {
	return (neighborSum+4)/2 + 5*(spin+1)/2
}

func (t *ProbabilityTable) Lookup(neighborSum, spin int) float64 {
	return t[Index(neighborSum, spin)]
}

// Flips reports whether draw falls under the threshold for the given
// neighbourhood.
func (t *ProbabilityTable) Flips(neighborSum, spin int, draw uint32) bool {
	return float64(draw) < t[Index(neighborSum, spin)]
}

// Slice returns a copy of the thresholds in index order.
func (t *ProbabilityTable) Slice() []float64 {
	out := make([]float64, TableSize)
	copy(out, t[:])
	return out
}
