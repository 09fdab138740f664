// Package rules derives flip-threshold tables from single-spin update
// rules at a given inverse temperature.
//
// Flipping spin s with neighbour sum h changes the energy by
// ΔE = 2 s (J h + H). A rule maps ΔE to a flip probability p, and the table
// stores p scaled to the uint32 draw range.
package rules

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/spinlab/internal/lattice"
)

// CriticalBeta is the exact inverse critical temperature of the square
// lattice Ising model with J = 1.
var CriticalBeta = math.Log(1+math.Sqrt2) / 2

type Rule interface {
	Name() string
	FlipProbability(deltaE, beta float64) float64
}

type Metropolis struct{}

func (Metropolis) Name() string { return "metropolis" }

func (Metropolis) FlipProbability(deltaE, beta float64) float64 {
	if deltaE <= 0 {
		return 1
	}
	return math.Exp(-beta * deltaE)
}

type Glauber struct{}

func (Glauber) Name() string { return "glauber" }

func (Glauber) FlipProbability(deltaE, beta float64) float64 {
	return 1 / (1 + math.Exp(beta*deltaE))
}

// Frozen never flips.
type Frozen struct{}

func (Frozen) Name() string                             { return "frozen" }
func (Frozen) FlipProbability(float64, float64) float64 { return 0 }

var registry = map[string]Rule{
	"metropolis": Metropolis{},
	"glauber":    Glauber{},
	"frozen":     Frozen{},
}

func Get(name string) (Rule, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule: %s (available: %v)", name, List())
	}
	return r, nil
}

func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Thresholds builds the 10-entry table for rule r.
func Thresholds(r Rule, beta, coupling, field float64) []float64 {
	out := make([]float64, lattice.TableSize)
	for _, spin := range []int{-1, 1} {
		for sum := -4; sum <= 4; sum += 2 {
			deltaE := 2 * float64(spin) * (coupling*float64(sum) + field)
			p := r.FlipProbability(deltaE, beta)
			p = math.Min(1, math.Max(0, p))
			out[lattice.Index(sum, spin)] = p * lattice.MaxThreshold
		}
	}
	return out
}
