// Package scenario runs a YAML batch of named simulations and stores each
// result.
package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/experiment"
	"github.com/san-kum/spinlab/internal/logging"
	"github.com/san-kum/spinlab/internal/storage"
)

// Scenario defines a scripted batch of runs
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Preset, when set, is applied first and the remaining
// fields override it.
type Step struct {
	Preset string         `yaml:"preset"`
	Config *config.Config `yaml:"config"`
	SaveAs string         `yaml:"save_as"`
}

// Outcome is the stored result of one step.
type Outcome struct {
	Name    string
	RunID   string
	Summary map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description}
	for i, node := range raw.Steps {
		step, err := decodeStep(&node)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}

// decodeStep layers the step's config fields over its preset, or over the
// defaults when no preset is named.
func decodeStep(node *yaml.Node) (Step, error) {
	var head struct {
		Preset string    `yaml:"preset"`
		SaveAs string    `yaml:"save_as"`
		Config yaml.Node `yaml:"config"`
	}
	if err := node.Decode(&head); err != nil {
		return Step{}, err
	}

	cfg := config.DefaultConfig()
	if head.Preset != "" {
		cfg = config.GetPreset(head.Preset)
		if cfg == nil {
			return Step{}, fmt.Errorf("unknown preset: %s", head.Preset)
		}
	}
	if !head.Config.IsZero() {
		if err := head.Config.Decode(cfg); err != nil {
			return Step{}, err
		}
	}

	return Step{Preset: head.Preset, Config: cfg, SaveAs: head.SaveAs}, nil
}

// Name is the label a step is stored under.
func (s Step) Name() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Config != nil && s.Config.Name != "":
		return s.Config.Name
	case s.Preset != "":
		return s.Preset
	default:
		return "step"
	}
}

// Runner executes scenarios against a store.
type Runner struct {
	store   *storage.Store
	logger  logging.Logger
	runtime *config.RuntimeConfig
}

// NewRunner returns a runner. A non-nil runtime replaces every step's
// runtime settings.
func NewRunner(store *storage.Store, logger logging.Logger, runtime *config.RuntimeConfig) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{store: store, logger: logger, runtime: runtime}
}

// Run executes all steps in order and stops at the first failure, returning
// the outcomes completed so far.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		cfg := step.Config.Clone()
		if r.runtime != nil {
			cfg.Runtime = *r.runtime
		}
		name := step.Name()
		r.logger.Info("step %d/%d: %s", i+1, len(sc.Steps), name)

		res, err := experiment.RunConfig(ctx, cfg, r.logger)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		meta := res.Metadata(cfg, name)
		runID, err := r.store.Save(meta, res.Output)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
		}

		outcomes = append(outcomes, Outcome{Name: name, RunID: runID, Summary: meta.Summary})
	}

	return outcomes, nil
}
