package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/spinlab/internal/lattice"
)

func TestEnergy_Uniform(t *testing.T) {
	l, _ := lattice.New(4)
	e := NewEnergy(1.0, 0.0)

	// 16 sites, 2 bonds each, all aligned.
	if got := e.Measure(l); got != -32 {
		t.Errorf("uniform energy = %f, want -32", got)
	}

	withField := NewEnergy(1.0, 0.5)
	if got := withField.Measure(l); math.Abs(got-(-40)) > 1e-12 {
		t.Errorf("energy with field = %f, want -40", got)
	}
}

func TestEnergy_Checkerboard(t *testing.T) {
	l, _ := lattice.New(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 1 {
				l.Set(x, y, -1)
			}
		}
	}
	if got := NewEnergy(1.0, 0.0).Measure(l); got != 32 {
		t.Errorf("checkerboard energy = %f, want 32", got)
	}
	if got := NewDomainWalls().Measure(l); got != 32 {
		t.Errorf("checkerboard walls = %f, want 32", got)
	}
}

func TestDomainWalls_SingleFlip(t *testing.T) {
	l, _ := lattice.New(3)
	l.Set(1, 1, -1)
	if got := NewDomainWalls().Measure(l); got != 4 {
		t.Errorf("walls around one flipped spin = %f, want 4", got)
	}
}

func TestAbsMagnetization(t *testing.T) {
	l, _ := lattice.New(2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			l.Set(x, y, -1)
		}
	}
	if got := NewAbsMagnetization().Measure(l); got != 4 {
		t.Errorf("abs magnetization = %f, want 4", got)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"energy", "abs_magnetization", "domain_walls"} {
		o, ok := ByName(name, 1, 0)
		if !ok || o.Name() != name {
			t.Errorf("ByName(%q) failed", name)
		}
	}
	if _, ok := ByName("entropy", 1, 0); ok {
		t.Error("expected unknown observable to fail")
	}
}
