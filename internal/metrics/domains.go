package metrics

import (
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
)

// AbsMagnetization is |Σ s_i|.
type AbsMagnetization struct{}

func NewAbsMagnetization() *AbsMagnetization { return &AbsMagnetization{} }

func (a *AbsMagnetization) Name() string { return "abs_magnetization" }

func (a *AbsMagnetization) Measure(l *lattice.Lattice) float64 {
	m := l.Magnetization()
	if m < 0 {
		m = -m
	}
	return float64(m)
}

// DomainWalls counts bonds joining opposite spins, each bond once.
type DomainWalls struct{}

func NewDomainWalls() *DomainWalls { return &DomainWalls{} }

func (d *DomainWalls) Name() string { return "domain_walls" }

func (d *DomainWalls) Measure(l *lattice.Lattice) float64 {
	n := l.Size()
	cells := l.Cells()
	walls := 0
	for y := 0; y < n; y++ {
		row := y * n
		down := ((y + 1) % n) * n
		for x := 0; x < n; x++ {
			s := cells[row+x]
			if cells[row+(x+1)%n] != s {
				walls++
			}
			if cells[down+x] != s {
				walls++
			}
		}
	}
	return float64(walls)
}

// ByName resolves an observable by its registry name.
func ByName(name string, coupling, field float64) (ising.Observable, bool) {
	switch name {
	case "energy":
		return NewEnergy(coupling, field), true
	case "abs_magnetization":
		return NewAbsMagnetization(), true
	case "domain_walls":
		return NewDomainWalls(), true
	default:
		return nil, false
	}
}
