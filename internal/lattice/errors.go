package lattice

import "errors"

var (
	// ErrInvalidSize indicates a non-positive grid side length.
	ErrInvalidSize = errors.New("lattice: side length must be at least 1")

	// ErrProbsLength indicates a threshold table of the wrong length.
	ErrProbsLength = errors.New("lattice: probability table needs exactly 10 thresholds")

	// ErrInvalidThreshold indicates a NaN threshold.
	ErrInvalidThreshold = errors.New("lattice: threshold is NaN")
)
