package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/rules"
)

const (
	DefaultN        = 32
	DefaultSeed     = 1
	DefaultRepeats  = 10
	DefaultMaxTime  = 100
	DefaultRule     = "metropolis"
	DefaultCoupling = 1.0
	DefaultDataDir  = ".spinlab"
	DefaultLogLevel = "info"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SPINLAB_"
)

type Config struct {
	Name        string        `yaml:"name,omitempty"`
	N           int           `yaml:"n" env:"N"`
	Seed        uint32        `yaml:"seed" env:"SEED"`
	Repeats     int           `yaml:"repeats" env:"REPEATS"`
	MaxTime     int           `yaml:"max_time" env:"MAX_TIME"`
	Probs       []float64     `yaml:"probs,omitempty"`
	Rule        RuleConfig    `yaml:"rule"`
	Observables []string      `yaml:"observables,omitempty"`
	Runtime     RuntimeConfig `yaml:"runtime"`
}

// RuleConfig derives thresholds when Probs is empty.
type RuleConfig struct {
	Name     string  `yaml:"name" env:"RULE"`
	Beta     float64 `yaml:"beta" env:"BETA"`
	Coupling float64 `yaml:"coupling" env:"COUPLING"`
	Field    float64 `yaml:"field" env:"FIELD"`
}

// RuntimeConfig never affects results, only how they are computed and
// reported.
type RuntimeConfig struct {
	Backend       string `yaml:"backend" env:"BACKEND"`
	Workers       int    `yaml:"workers" env:"WORKERS"`
	RepeatWorkers int    `yaml:"repeat_workers" env:"REPEAT_WORKERS"`
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL"`
	DataDir       string `yaml:"data_dir" env:"DATA_DIR"`
}

func DefaultConfig() *Config {
	return &Config{
		N:       DefaultN,
		Seed:    DefaultSeed,
		Repeats: DefaultRepeats,
		MaxTime: DefaultMaxTime,
		Rule: RuleConfig{
			Name:     DefaultRule,
			Beta:     rules.CriticalBeta,
			Coupling: DefaultCoupling,
		},
		Runtime: RuntimeConfig{
			Backend:       "auto",
			RepeatWorkers: 1,
			LogLevel:      DefaultLogLevel,
			DataDir:       DefaultDataDir,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg. Keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from SPINLAB_* environment variables. Unset
// variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Probs = append([]float64(nil), c.Probs...)
	out.Observables = append([]string(nil), c.Observables...)
	return &out
}

// Thresholds returns the explicit table when one is configured, otherwise
// the table derived from the rule.
func (c *Config) Thresholds() ([]float64, error) {
	if len(c.Probs) > 0 {
		out := make([]float64, len(c.Probs))
		copy(out, c.Probs)
		return out, nil
	}
	r, err := rules.Get(c.Rule.Name)
	if err != nil {
		return nil, err
	}
	return rules.Thresholds(r, c.Rule.Beta, c.Rule.Coupling, c.Rule.Field), nil
}

// Input builds and validates the simulator input.
func (c *Config) Input() (ising.Input, error) {
	probs, err := c.Thresholds()
	if err != nil {
		return ising.Input{}, err
	}
	in := ising.Input{
		N:       c.N,
		Seed:    c.Seed,
		Repeats: c.Repeats,
		MaxTime: c.MaxTime,
		Probs:   probs,
	}
	if err := in.Validate(); err != nil {
		return ising.Input{}, fmt.Errorf("invalid config: %w", err)
	}
	return in, nil
}
