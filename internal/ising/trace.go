package ising

import (
	"sync"

	"github.com/san-kum/spinlab/internal/lattice"
)

// Recorder is an Observer that keeps every lattice snapshot of one repeat.
type Recorder struct {
	repeat int

	mu             sync.Mutex
	frames         [][]int8
	magnetizations []int64
}

func NewRecorder(repeat int) *Recorder {
	return &Recorder{repeat: repeat}
}

func (r *Recorder) OnStep(repeat, t int, l *lattice.Lattice) {
	if repeat != r.repeat {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, l.Snapshot())
	r.magnetizations = append(r.magnetizations, l.Magnetization())
}

// Frames returns the recorded snapshots, one per timestep.
func (r *Recorder) Frames() [][]int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Magnetizations() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.magnetizations
}

// Last returns the final snapshot, or nil if nothing was recorded.
func (r *Recorder) Last() []int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}
