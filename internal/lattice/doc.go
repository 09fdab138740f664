// Package lattice holds the spin lattice and its synchronous update rule.
//
// A [Lattice] is an n×n toroidal grid of ±1 spins stored as two flat,
// row-major buffers. One timestep reads only the current buffer and writes
// only the next one, then [Lattice.Swap] exchanges them:
//
//	seed = lattice.AssignSeeds(seeds, seed) // row-major, one goroutine
//	lattice.Step(l, &table, seeds, backend) // any order, any worker count
//	l.Swap()                                // timestep barrier
//
// # Parallelism
//
// Within a timestep no cell reads anything another cell writes, so the
// update is embarrassingly parallel. Reproducibility depends only on the
// order in which LCG draws are assigned to cells, which is always row-major
// and always done before dispatch. The worker count therefore never changes
// the trajectory.
package lattice
