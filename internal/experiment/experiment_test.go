package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/ising"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		list []string
		want int
	}{
		{"rules", r.ListRules(), 3},
		{"backends", r.ListBackends(), 3},
		{"observables", r.ListObservables(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.list) != tt.want {
				t.Errorf("expected %d entries, got %v", tt.want, tt.list)
			}
		})
	}

	if _, err := r.GetRule("glauber"); err != nil {
		t.Errorf("glauber: %v", err)
	}
	if _, err := r.GetRule("heatbath2"); err == nil {
		t.Error("expected error for unknown rule")
	}
	if b, err := r.GetBackend("", 1); err != nil || b.Name() != "serial" {
		t.Errorf("auto backend with one worker: %v %v", b, err)
	}
	if _, err := r.GetBackend("gpu", 1); err == nil {
		t.Error("expected error for unknown backend")
	}
	for _, name := range r.DefaultObservables() {
		if _, err := r.GetObservable(name, 1, 0); err != nil {
			t.Errorf("default observable %s: %v", name, err)
		}
	}
}

func TestExperimentRunBeforeSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), nil)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error when running before setup")
	}
}

func TestExperimentFrozenPreset(t *testing.T) {
	cfg := config.GetPreset("frozen")
	rec := ising.NewRecorder(0)

	exp := New(cfg, nil)
	if err := exp.Setup(rec); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := res.Output
	if len(out.Means) != cfg.MaxTime || len(out.Stddevs) != cfg.MaxTime {
		t.Fatalf("unexpected output length: %d/%d", len(out.Means), len(out.Stddevs))
	}
	for i := 1; i < len(out.Means); i++ {
		if out.Means[i] != out.Means[0] {
			t.Errorf("frozen lattice changed at t=%d: %v", i, out.Means)
		}
	}
	for i, s := range out.Stddevs {
		if s != 0 {
			t.Errorf("stddev[%d] = %f, want 0", i, s)
		}
	}
	if got := len(rec.Frames()); got != cfg.MaxTime {
		t.Errorf("recorder saw %d frames, want %d", got, cfg.MaxTime)
	}
}

func TestExperimentWorkerInvariance(t *testing.T) {
	base := config.GetPreset("tiny")
	base.N = 6
	base.Observables = []string{"energy"}

	serial := base.Clone()
	serial.Runtime.Backend = "serial"

	parallel := base.Clone()
	parallel.Runtime.Backend = "cpu"
	parallel.Runtime.Workers = 3
	parallel.Runtime.RepeatWorkers = 4

	a, err := RunConfig(context.Background(), serial, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunConfig(context.Background(), parallel, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Output.Means {
		if a.Output.Means[i] != b.Output.Means[i] || a.Output.Stddevs[i] != b.Output.Stddevs[i] {
			t.Fatalf("t=%d differs: %f/%f vs %f/%f", i,
				a.Output.Means[i], a.Output.Stddevs[i], b.Output.Means[i], b.Output.Stddevs[i])
		}
	}
	if _, ok := b.Output.Observables["energy"]; !ok {
		t.Error("energy observable missing")
	}
}

func TestExperimentUnknownObservable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Observables = []string{"entropy"}
	if err := New(cfg, nil).Setup(); err == nil {
		t.Error("expected error for unknown observable")
	}
}
