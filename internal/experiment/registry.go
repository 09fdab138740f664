package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/spinlab/internal/compute"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/metrics"
	"github.com/san-kum/spinlab/internal/rules"
)

type Registry struct {
	rules       map[string]func() rules.Rule
	backends    map[string]func(workers int) compute.Backend
	observables map[string]func(coupling, field float64) ising.Observable
}

func NewRegistry() *Registry {
	r := &Registry{
		rules:       make(map[string]func() rules.Rule),
		backends:    make(map[string]func(int) compute.Backend),
		observables: make(map[string]func(float64, float64) ising.Observable),
	}

	r.rules["metropolis"] = func() rules.Rule { return rules.Metropolis{} }
	r.rules["glauber"] = func() rules.Rule { return rules.Glauber{} }
	r.rules["frozen"] = func() rules.Rule { return rules.Frozen{} }

	for _, name := range []string{"auto", "cpu", "serial"} {
		r.backends[name] = func(workers int) compute.Backend {
			b, _ := compute.ByName(name, workers)
			return b
		}
	}

	for _, name := range []string{"energy", "abs_magnetization", "domain_walls"} {
		r.observables[name] = func(coupling, field float64) ising.Observable {
			o, _ := metrics.ByName(name, coupling, field)
			return o
		}
	}

	return r
}

func (r *Registry) GetRule(name string) (rules.Rule, error) {
	fn, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule: %s", name)
	}
	return fn(), nil
}

// GetBackend resolves a backend name. An empty name selects automatically.
func (r *Registry) GetBackend(name string, workers int) (compute.Backend, error) {
	if name == "" {
		name = "auto"
	}
	fn, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
	return fn(workers), nil
}

func (r *Registry) GetObservable(name string, coupling, field float64) (ising.Observable, error) {
	fn, ok := r.observables[name]
	if !ok {
		return nil, fmt.Errorf("unknown observable: %s", name)
	}
	return fn(coupling, field), nil
}

func (r *Registry) ListRules() []string       { return sortedKeys(r.rules) }
func (r *Registry) ListBackends() []string    { return sortedKeys(r.backends) }
func (r *Registry) ListObservables() []string { return sortedKeys(r.observables) }

// DefaultObservables are aggregated when a config names none.
func (r *Registry) DefaultObservables() []string {
	return []string{"abs_magnetization", "energy"}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
