package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/spinlab/internal/analysis"
	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/logging"
	"github.com/san-kum/spinlab/internal/stats"
	"github.com/san-kum/spinlab/internal/storage"
)

// EquilibrationTolerance is the per-spin band used to detect equilibration
// in run summaries.
const EquilibrationTolerance = 0.02

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    logging.Logger
	simulator *ising.Simulator
	input     ising.Input
}

// Result is a finished run with the wall time it took.
type Result struct {
	Output  *ising.Output
	Input   ising.Input
	Backend string
	Elapsed time.Duration
}

func New(cfg *config.Config, logger logging.Logger) *Experiment {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Setup validates the config and builds the simulator. Extra observers are
// attached as given.
func (e *Experiment) Setup(observers ...ising.Observer) error {
	in, err := e.cfg.Input()
	if err != nil {
		return err
	}

	backend, err := e.registry.GetBackend(e.cfg.Runtime.Backend, e.cfg.Runtime.Workers)
	if err != nil {
		return err
	}

	sim := ising.New(backend, e.logger)
	sim.SetRepeatWorkers(e.cfg.Runtime.RepeatWorkers)

	for _, name := range e.cfg.Observables {
		o, err := e.registry.GetObservable(name, e.cfg.Rule.Coupling, e.cfg.Rule.Field)
		if err != nil {
			return err
		}
		sim.AddObservable(o)
	}
	for _, o := range observers {
		sim.AddObserver(o)
	}

	e.input = in
	e.simulator = sim
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	defer e.simulator.Backend().Cleanup()

	start := time.Now()
	out, err := e.simulator.Run(ctx, e.input)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:  out,
		Input:   e.input,
		Backend: e.simulator.Backend().Name(),
		Elapsed: time.Since(start),
	}, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *ising.Simulator {
	return e.simulator
}

// RunConfig sets up and runs cfg in one call.
func RunConfig(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Result, error) {
	exp := New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func (r *Result) Series() stats.Series {
	return stats.Series{Means: r.Output.Means, Stddevs: r.Output.Stddevs}
}

// Metadata describes the run of cfg that produced r for the store.
func (r *Result) Metadata(cfg *config.Config, name string) storage.RunMetadata {
	meta := storage.RunMetadata{
		Name:    name,
		N:       r.Input.N,
		Seed:    r.Input.Seed,
		Repeats: r.Input.Repeats,
		MaxTime: r.Input.MaxTime,
		Probs:   r.Input.Probs,
		Backend: r.Backend,
		Workers: cfg.Runtime.Workers,
		Elapsed: r.Elapsed,
		Summary: analysis.Summarize(r.Series(), r.Input.N, EquilibrationTolerance).Map(),
	}
	if len(cfg.Probs) == 0 {
		meta.Rule = cfg.Rule.Name
		meta.Beta = cfg.Rule.Beta
	}
	return meta
}
