package ising

import (
	"context"
	"fmt"

	"github.com/san-kum/spinlab/internal/compute"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/logging"
	"github.com/san-kum/spinlab/internal/rng"
	"github.com/san-kum/spinlab/internal/stats"
)

type Simulator struct {
	backend       compute.Backend
	logger        logging.Logger
	repeatWorkers int
	observers     []Observer
	observables   []Observable
}

// New returns a simulator dispatching cell updates through backend. A nil
// backend runs serially; a nil logger discards.
func New(backend compute.Backend, logger logging.Logger) *Simulator {
	if backend == nil {
		backend = compute.NewSerialBackend()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Simulator{
		backend:       backend,
		logger:        logger,
		repeatWorkers: 1,
		observers:     make([]Observer, 0),
		observables:   make([]Observable, 0),
	}
}

func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) AddObservable(o Observable) { s.observables = append(s.observables, o) }

// SetRepeatWorkers sets how many repeats may run at once. Values below one
// mean one.
func (s *Simulator) SetRepeatWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.repeatWorkers = n
}

func (s *Simulator) Backend() compute.Backend { return s.backend }

// Run executes every repeat and finalizes the statistics.
func (s *Simulator) Run(ctx context.Context, in Input) (*Output, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	table, err := lattice.NewProbabilityTable(in.Probs)
	if err != nil {
		return nil, err
	}

	seeds := rng.TopLevelSeeds(in.Seed, in.Repeats)

	s.logger.Info("starting %d repeats of %d steps on a %dx%d lattice (backend %s, repeat workers %d)",
		in.Repeats, in.MaxTime, in.N, in.N, s.backend.Name(), s.workersFor(in.Repeats))

	accs, err := s.runRepeats(ctx, in, table, seeds)
	if err != nil {
		return nil, err
	}

	s.logger.Info("calculating final statistics")

	mag := accs[0]
	means, stddevs, err := mag.Finalize(in.Repeats)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Means:   means,
		Stddevs: stddevs,
		Exact:   mag.Exact(),
	}

	if len(s.observables) > 0 {
		out.Observables = make(map[string]stats.Series, len(s.observables))
		for i, o := range s.observables {
			series, err := accs[i+1].Series(in.Repeats)
			if err != nil {
				return nil, err
			}
			out.Observables[o.Name()] = series
		}
	}

	for t := range means {
		s.logger.Verbose("  time %d : mean=%8.6f, stddev=%8.4f", t, means[t], stddevs[t])
	}
	s.logger.Info("finished")

	return out, nil
}

// repeatState is everything one goroutine needs to run repeats: its own
// lattice buffers, seed buffer and accumulators.
type repeatState struct {
	lat     *lattice.Lattice
	updater *lattice.Updater
	accs    []*stats.Accumulator
}

func (s *Simulator) newRepeatState(in Input, table lattice.ProbabilityTable) (*repeatState, error) {
	lat, err := lattice.New(in.N)
	if err != nil {
		return nil, err
	}
	accs := make([]*stats.Accumulator, 1+len(s.observables))
	for i := range accs {
		accs[i] = stats.NewAccumulator(in.MaxTime)
	}
	return &repeatState{
		lat:     lat,
		updater: lattice.NewUpdater(in.N, table, s.backend),
		accs:    accs,
	}, nil
}

// runRepeat runs one full trial and returns the running seed after the
// trailing decorrelation step.
func (s *Simulator) runRepeat(st *repeatState, repeat int, topSeed uint32, maxTime int) uint32 {
	l := st.lat
	seed := l.Initialize(topSeed)

	s.logger.Verbose("  repeat %d (seed %d)", repeat, topSeed)
	s.logger.Log(logging.DebugLevel, func() string {
		return fmt.Sprintf("repeat %d initial lattice:\n%s", repeat, lattice.Render(l))
	})

	for t := 0; t < maxTime; t++ {
		seed = st.updater.Advance(l, seed)

		st.accs[0].Observe(t, float64(l.Magnetization()))
		for i, o := range s.observables {
			st.accs[i+1].Observe(t, o.Measure(l))
		}
		for _, obs := range s.observers {
			obs.OnStep(repeat, t, l)
		}
	}

	for _, acc := range st.accs {
		acc.EndRepeat()
	}

	return rng.Advance(seed)
}

func (s *Simulator) workersFor(repeats int) int {
	if s.repeatWorkers > repeats {
		return repeats
	}
	return s.repeatWorkers
}
