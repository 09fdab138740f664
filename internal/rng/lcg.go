package rng

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// Advance returns the successor of x in the LCG recurrence.
// It is a pure, total function over the full uint32 range.
func Advance(x uint32) uint32 {
	return x*lcgMultiplier + lcgIncrement
}

// AdvanceN applies Advance k times.
func AdvanceN(x uint32, k int) uint32 {
	for i := 0; i < k; i++ {
		x = Advance(x)
	}
	return x
}

// LCG is a sequential view over the recurrence. Next returns the current
// value and then advances, which is the consumption pattern of the lattice
// engine: draw, then step.
type LCG struct {
	state uint32
}

func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next returns the current value and advances the stream.
func (l *LCG) Next() uint32 {
	v := l.state
	l.state = Advance(l.state)
	return v
}

// Seed reports the current (not yet consumed) value.
func (l *LCG) Seed() uint32 { return l.state }

// Skip advances the stream without returning values.
func (l *LCG) Skip(k int) { l.state = AdvanceN(l.state, k) }
