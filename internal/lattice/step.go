package lattice

import (
	"github.com/san-kum/spinlab/internal/compute"
	"github.com/san-kum/spinlab/internal/rng"
)

// AssignSeeds fills dst with consecutive LCG values in row-major order and
// returns the seed that follows the last one handed out.
func AssignSeeds(dst []uint32, seed uint32) uint32 {
	for i := range dst {
		dst[i] = seed
		seed = rng.Advance(seed)
	}
	return seed
}

// Step computes the next generation into the next buffer. seeds[i] is the
// draw for cell i. Rows are dispatched through backend; the call returns
// once every row is written. The buffers are not swapped.
func Step(l *Lattice, table *ProbabilityTable, seeds []uint32, backend compute.Backend) {
	n := l.n
	cur, next := l.cur, l.next
	backend.Dispatch(n, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			stepRow(n, y, cur, next, table, seeds)
		}
	})
}

func stepRow(n, y int, cur, next []int8, table *ProbabilityTable, seeds []uint32) {
	row := y * n
	up := (y - 1) * n
	if y == 0 {
		up = (n - 1) * n
	}
	down := (y + 1) * n
	if y == n-1 {
		down = 0
	}

	for x := 0; x < n; x++ {
		xw := x - 1
		if x == 0 {
			xw = n - 1
		}
		xe := x + 1
		if x == n-1 {
			xe = 0
		}

		c := cur[row+x]
		sum := int(cur[row+xw]) + int(cur[row+xe]) + int(cur[up+x]) + int(cur[down+x])

		if float64(seeds[row+x]) < table[(sum+4)/2+5*(int(c)+1)/2] {
			c = -c
		}
		next[row+x] = c
	}
}

// Updater owns the per-timestep seed buffer for one lattice size so that a
// repeat allocates it once.
type Updater struct {
	table   ProbabilityTable
	backend compute.Backend
	seeds   []uint32
}

func NewUpdater(n int, table ProbabilityTable, backend compute.Backend) *Updater {
	if backend == nil {
		backend = compute.NewSerialBackend()
	}
	return &Updater{
		table:   table,
		backend: backend,
		seeds:   make([]uint32, n*n),
	}
}

// Advance runs one full timestep: assign draws, update, swap. It returns the
// running seed for the next timestep.
func (u *Updater) Advance(l *Lattice, seed uint32) uint32 {
	seed = AssignSeeds(u.seeds, seed)
	Step(l, &u.table, u.seeds, u.backend)
	l.Swap()
	return seed
}

// Seeds exposes the draws used by the most recent Advance.
func (u *Updater) Seeds() []uint32 { return u.seeds }

func (u *Updater) Table() *ProbabilityTable { return &u.table }
