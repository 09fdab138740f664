package analysis

import (
	"github.com/san-kum/spinlab/internal/compute"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/rng"
)

// DamageSpreading runs the first repeat of in twice: once as is and once
// with the spin at (x, y) flipped after initialization. Both copies consume
// the same per-cell draws. The result holds, for every timestep, the
// fraction of cells on which the two copies disagree.
func DamageSpreading(in ising.Input, backend compute.Backend, x, y int) ([]float64, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	table, err := lattice.NewProbabilityTable(in.Probs)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		backend = compute.NewSerialBackend()
	}

	a, err := lattice.New(in.N)
	if err != nil {
		return nil, err
	}
	seed := a.Initialize(rng.TopLevelSeeds(in.Seed, 1)[0])

	b := a.Clone()
	x, y = b.Wrap(x, y)
	b.Set(x, y, -b.At(x, y))

	updater := lattice.NewUpdater(in.N, table, backend)
	cells := float64(in.N * in.N)
	damage := make([]float64, in.MaxTime)

	for t := 0; t < in.MaxTime; t++ {
		seed = updater.Advance(a, seed)

		// Same seeds as the step just taken on a.
		lattice.Step(b, updater.Table(), updater.Seeds(), backend)
		b.Swap()

		damage[t] = float64(hamming(a.Cells(), b.Cells())) / cells
	}

	return damage, nil
}

func hamming(a, b []int8) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}
