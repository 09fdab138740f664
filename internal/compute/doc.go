// Package compute provides the work-dispatch backends used by the lattice
// update.
//
// A [Backend] runs a fork-join over an index range: Dispatch splits [0, n)
// into contiguous chunks, runs them, and returns only when every chunk has
// finished. The lattice step relies on that return as its timestep barrier.
//
//   - CPU: goroutine per chunk, sized to runtime.NumCPU() by default
//   - Serial: runs the whole range inline on the caller's goroutine
//
// Accelerators (GPU kernels and the like) would plug in behind the same
// interface; none ship with spinlab.
//
//	backend := compute.AutoSelectBackend(0)
//	defer backend.Cleanup()
//	backend.Dispatch(rows, func(start, end int) { ... })
package compute
