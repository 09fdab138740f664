package ising

import (
	"errors"
	"fmt"

	"github.com/san-kum/spinlab/internal/lattice"
)

// Precondition errors. Every one of them means the Input was rejected
// before any work started.
var (
	// ErrInvalidSize indicates n < 1.
	ErrInvalidSize = lattice.ErrInvalidSize

	// ErrInvalidRepeats indicates repeats < 1.
	ErrInvalidRepeats = errors.New("ising: repeats must be at least 1")

	// ErrInvalidMaxTime indicates maxTime < 1.
	ErrInvalidMaxTime = errors.New("ising: maxTime must be at least 1")

	// ErrProbsLength indicates a threshold table that is not 10 entries long.
	ErrProbsLength = lattice.ErrProbsLength

	// ErrCanceled indicates the run was interrupted between repeats.
	ErrCanceled = errors.New("ising: simulation canceled by context")
)

// RepeatError wraps an error with the repeat it surfaced in.
type RepeatError struct {
	Repeat  int
	Wrapped error
}

func (e *RepeatError) Error() string {
	return fmt.Sprintf("repeat %d: %v", e.Repeat, e.Wrapped)
}

func (e *RepeatError) Unwrap() error {
	return e.Wrapped
}
