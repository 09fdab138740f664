package ising

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/stats"
)

// repeatBlocks splits [0, repeats) into at most workers contiguous blocks.
// Block b is always the same range for a given (repeats, workers) pair.
func repeatBlocks(repeats, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > repeats {
		workers = repeats
	}
	size := (repeats + workers - 1) / workers
	blocks := make([][2]int, 0, workers)
	for start := 0; start < repeats; start += size {
		end := start + size
		if end > repeats {
			end = repeats
		}
		blocks = append(blocks, [2]int{start, end})
	}
	return blocks
}

// runRepeats runs every repeat, one goroutine per block, and merges the
// per-block accumulators in block order. The returned slice holds the
// magnetization accumulator first, then one per observable.
func (s *Simulator) runRepeats(ctx context.Context, in Input, table lattice.ProbabilityTable, seeds []uint32) ([]*stats.Accumulator, error) {
	blocks := repeatBlocks(in.Repeats, s.repeatWorkers)
	partials := make([]*repeatState, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	for b, block := range blocks {
		st, err := s.newRepeatState(in, table)
		if err != nil {
			return nil, err
		}
		partials[b] = st

		g.Go(func() error {
			for i := block[0]; i < block[1]; i++ {
				if err := gctx.Err(); err != nil {
					return &RepeatError{Repeat: i, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, err)}
				}
				final := s.runRepeat(st, i, seeds[i], in.MaxTime)
				s.logger.Debug("repeat %d done, running seed %d", i, final)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := partials[0].accs
	for _, st := range partials[1:] {
		for i := range total {
			if err := total[i].Merge(st.accs[i]); err != nil {
				return nil, err
			}
		}
	}
	return total, nil
}
