package rng

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff

	// DefaultMTSeed is the default seed of std::mt19937.
	DefaultMTSeed = 5489
)

// MT19937 is the 32-bit Mersenne Twister. It is used only for per-repeat
// top-level seeds, never inside a parallel region.
type MT19937 struct {
	mt  [mtN]uint32
	idx int
}

// NewMT19937 returns a generator seeded with seed.
func NewMT19937(seed uint32) *MT19937 {
	m := &MT19937{}
	m.Seed(seed)
	return m
}

// Seed resets the generator state.
func (m *MT19937) Seed(seed uint32) {
	m.mt[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.mt[i-1]
		m.mt[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.idx = mtN
}

func (m *MT19937) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.mt[i] & mtUpperMask) | (m.mt[(i+1)%mtN] & mtLowerMask)
		v := m.mt[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.mt[i] = v
	}
	m.idx = 0
}

// Uint32 returns the next tempered output.
func (m *MT19937) Uint32() uint32 {
	if m.idx >= mtN {
		m.twist()
	}
	y := m.mt[m.idx]
	m.idx++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// TopLevelSeeds draws one seed per repeat from a generator seeded with
// seed. The draws happen in repeat order on the calling goroutine, so
// repeat i always receives the i-th output no matter how the repeats are
// later scheduled.
func TopLevelSeeds(seed uint32, repeats int) []uint32 {
	gen := NewMT19937(seed)
	seeds := make([]uint32, repeats)
	for i := range seeds {
		seeds[i] = gen.Uint32()
	}
	return seeds
}
