// Package analysis post-processes magnetization series and lattice
// trajectories.
//
//   - [Summarize]: final value, extrema and average spread of a run
//   - [EquilibrationTime]: first step after which a series settles
//   - [Autocorrelation], [IntegratedAutocorrelationTime]: memory of a series
//   - [PowerSpectrum]: spectrum of the mean series
//   - [DamageSpreading]: divergence of two lattices that differ in one spin
//     and share every random draw
//   - [NewPhasePortrait]: magnetization against energy, rendered as text
//
// # Damage spreading
//
// Above the critical temperature a single flipped spin heals; below it the
// damage spreads across the lattice:
//
//	d, err := analysis.DamageSpreading(in, backend, 0, 0)
//	if d[len(d)-1] > 0 {
//	    // ordered phase
//	}
package analysis
