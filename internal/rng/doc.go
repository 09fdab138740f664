// Package rng provides the deterministic random sources used by the lattice
// engine.
//
// Two generators are involved:
//
//   - [Advance] / [LCG]: the 32-bit linear congruential recurrence
//     x' = x*1664525 + 1013904223 (mod 2^32). Every spin draw in a repeat
//     comes from this stream, consumed in a fixed row-major order.
//   - [MT19937]: the portable per-run generator. It is seeded once from the
//     configuration seed and produces one top-level seed per repeat. Its
//     output matches C++ std::mt19937 for the same seed.
//
// # Thread Safety
//
// Neither generator is safe for concurrent use. Draw everything a parallel
// region needs before the region starts (see [TopLevelSeeds]).
package rng
