package config

import (
	"sort"

	"github.com/san-kum/spinlab/internal/rules"
)

var Presets = map[string]*Config{
	"hot": {
		Name: "hot", N: 64, Seed: 1, Repeats: 20, MaxTime: 200,
		Rule: RuleConfig{Name: "metropolis", Beta: 0.2, Coupling: 1},
	},
	"critical": {
		Name: "critical", N: 64, Seed: 1, Repeats: 20, MaxTime: 500,
		Rule: RuleConfig{Name: "metropolis", Beta: rules.CriticalBeta, Coupling: 1},
	},
	"cold": {
		Name: "cold", N: 64, Seed: 1, Repeats: 20, MaxTime: 300,
		Rule: RuleConfig{Name: "glauber", Beta: 0.8, Coupling: 1},
	},
	"field": {
		Name: "field", N: 48, Seed: 1, Repeats: 20, MaxTime: 200,
		Rule: RuleConfig{Name: "glauber", Beta: 0.3, Coupling: 1, Field: 0.2},
	},
	"frozen": {
		Name: "frozen", N: 4, Seed: 42, Repeats: 1, MaxTime: 3,
		Probs: make([]float64, 10),
	},
	"tiny": {
		Name: "tiny", N: 1, Seed: 7, Repeats: 8, MaxTime: 16,
		Rule: RuleConfig{Name: "glauber", Beta: 0.5, Coupling: 1},
	},
}

// GetPreset returns a copy of the named preset with runtime defaults
// filled in, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	cfg.Runtime = DefaultConfig().Runtime
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
