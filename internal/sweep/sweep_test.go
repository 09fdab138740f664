package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/spinlab/internal/config"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("linspace[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if got := Linspace(2, 3, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("single step: %v", got)
	}
}

func TestSweepRun(t *testing.T) {
	base := config.GetPreset("tiny")
	base.N = 4
	base.MaxTime = 5

	betas := []float64{0.1, 0.4, 0.9}
	calls := 0
	points, err := New(base, betas, nil).Run(context.Background(), func(i, total int, p Point) {
		calls++
		if total != len(betas) {
			t.Errorf("total = %d", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != len(betas) || calls != len(betas) {
		t.Fatalf("expected %d points, got %d (%d callbacks)", len(betas), len(points), calls)
	}
	for i, p := range points {
		if p.Beta != betas[i] {
			t.Errorf("point %d beta = %f", i, p.Beta)
		}
		if p.Order < 0 || p.Order > 1 {
			t.Errorf("order out of range: %f", p.Order)
		}
	}
	if base.Rule.Beta == 0.9 {
		t.Error("sweep mutated the base config")
	}
}

func TestSweepOrderSeesTransition(t *testing.T) {
	if testing.Short() {
		t.Skip("long lattice run")
	}
	base := config.DefaultConfig()
	base.N = 16
	base.Seed = 3
	base.Repeats = 40
	base.MaxTime = 400
	base.Rule.Name = "glauber"
	base.Runtime.RepeatWorkers = 4

	points, err := New(base, []float64{0.2, 1.0}, nil).Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	hot, cold := points[0], points[1]
	if cold.Order < 0.3 {
		t.Errorf("cold order = %f, want an ordered lattice", cold.Order)
	}
	if cold.Order < 3*hot.Order {
		t.Errorf("cold order %f not clearly above hot order %f", cold.Order, hot.Order)
	}
	if hot.Order <= 0 {
		t.Errorf("hot order = %f, |m| of a finite lattice is positive", hot.Order)
	}
}

func TestSweepRejectsExplicitProbs(t *testing.T) {
	base := config.GetPreset("frozen")
	if _, err := New(base, []float64{0.1}, nil).Run(context.Background(), nil); err == nil {
		t.Error("expected error for explicit probabilities")
	}
}

func TestSweepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	points, err := New(config.GetPreset("tiny"), []float64{0.1, 0.2}, nil).Run(ctx, nil)
	if err == nil {
		t.Error("expected context error")
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

func TestTransition(t *testing.T) {
	points := []Point{
		{Beta: 0.2, Order: 0.01},
		{Beta: 0.4, Order: 0.1},
		{Beta: 0.5, Order: 0.8},
		{Beta: 0.7, Order: 0.95},
	}
	beta, ok := Transition(points)
	if !ok || math.Abs(beta-0.45) > 1e-12 {
		t.Errorf("transition = %f, %v", beta, ok)
	}
	if _, ok := Transition(points[:1]); ok {
		t.Error("one point has no transition")
	}
}
