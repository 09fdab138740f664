// Package ising drives repeated spin-lattice experiments and aggregates
// their per-timestep statistics.
//
// A run is described by an [Input]. [Simulator.Run] validates it, draws one
// top-level seed per repeat from an MT19937 generator seeded with
// Input.Seed, and for each repeat initializes a lattice, advances it
// MaxTime timesteps and folds the magnetization after every timestep into
// an accumulator. The result is an [Output] with per-timestep means and
// standard deviations over repeats.
//
// # Example
//
//	sim := ising.New(compute.AutoSelectBackend(0), logger)
//	out, err := sim.Run(ctx, ising.Input{
//	    N: 64, Seed: 42, Repeats: 10, MaxTime: 100, Probs: thresholds,
//	})
//
// # Determinism
//
// Two levels of parallelism are available: the cell update of one timestep
// (the compute backend) and whole repeats ([Simulator.SetRepeatWorkers]).
// Neither changes the lattice trajectory of any repeat: top-level seeds are
// drawn sequentially before any goroutine starts, and every cell draw is
// assigned row-major before its timestep is dispatched. Statistics from
// parallel repeats are merged in repeat order; because magnetizations are
// integers the sums are exact (see [stats.ExactLimit]) and the output is
// bit-identical for any worker count while Output.Exact is true.
//
// # Thread Safety
//
// A Simulator may be reused for several runs but not concurrently.
// Observers are invoked from the goroutine running the repeat, so with more
// than one repeat worker they must be safe for concurrent use.
package ising
