package lattice

import (
	"fmt"

	"github.com/san-kum/spinlab/internal/rng"
)

// InitThreshold gives a +1 spin with probability just over one half.
const InitThreshold uint32 = 0x80001000

type Lattice struct {
	n    int
	cur  []int8
	next []int8
}

// New allocates both buffers. Cells start at +1 so the lattice is valid
// before the first Initialize.
func New(n int) (*Lattice, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	l := &Lattice{
		n:    n,
		cur:  make([]int8, n*n),
		next: make([]int8, n*n),
	}
	for i := range l.cur {
		l.cur[i] = 1
		l.next[i] = 1
	}
	return l, nil
}

func (l *Lattice) Size() int { return l.n }

// Cells exposes the current buffer in row-major order. Callers must not
// write to it while a step is running.
func (l *Lattice) Cells() []int8 { return l.cur }

func (l *Lattice) Index(x, y int) int { return y*l.n + x }

func (l *Lattice) At(x, y int) int8 { return l.cur[y*l.n+x] }

// Set writes a single spin into the current buffer; v must be ±1.
func (l *Lattice) Set(x, y int, v int8) { l.cur[y*l.n+x] = v }

// Wrap applies toroidal wrapping to the provided coordinates.
func (l *Lattice) Wrap(x, y int) (int, int) {
	x = (x%l.n + l.n) % l.n
	y = (y%l.n + l.n) % l.n
	return x, y
}

// Initialize fills the current buffer from the LCG in row-major order and
// returns the running seed. Cell i sees the i-th value of the stream.
func (l *Lattice) Initialize(seed uint32) uint32 {
	for i := range l.cur {
		if seed < InitThreshold {
			l.cur[i] = 1
		} else {
			l.cur[i] = -1
		}
		seed = rng.Advance(seed)
	}
	return seed
}

// Swap exchanges the buffers. It is the barrier between timesteps.
func (l *Lattice) Swap() {
	l.cur, l.next = l.next, l.cur
}

// Magnetization is the sum of all spins.
func (l *Lattice) Magnetization() int64 {
	var m int64
	for _, s := range l.cur {
		m += int64(s)
	}
	return m
}

// Valid reports whether every spin is exactly ±1.
func (l *Lattice) Valid() bool {
	for _, s := range l.cur {
		if s != 1 && s != -1 {
			return false
		}
	}
	return true
}

// Snapshot copies the current buffer.
func (l *Lattice) Snapshot() []int8 {
	out := make([]int8, len(l.cur))
	copy(out, l.cur)
	return out
}

func (l *Lattice) Clone() *Lattice {
	c := &Lattice{
		n:    l.n,
		cur:  make([]int8, len(l.cur)),
		next: make([]int8, len(l.next)),
	}
	copy(c.cur, l.cur)
	copy(c.next, l.next)
	return c
}
