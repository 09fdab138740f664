// Package metrics provides extra lattice observables that the simulator can
// aggregate alongside the magnetization.
package metrics

import "github.com/san-kum/spinlab/internal/lattice"

// Energy is the nearest-neighbour Ising energy
// E = -J Σ s_i s_j - H Σ s_i, counting each bond once.
type Energy struct {
	name     string
	coupling float64
	field    float64
}

func NewEnergy(coupling, field float64) *Energy {
	return &Energy{
		name:     "energy",
		coupling: coupling,
		field:    field,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Measure(l *lattice.Lattice) float64 {
	n := l.Size()
	cells := l.Cells()
	var bonds, spins int64
	for y := 0; y < n; y++ {
		row := y * n
		down := ((y + 1) % n) * n
		for x := 0; x < n; x++ {
			s := int64(cells[row+x])
			right := int64(cells[row+(x+1)%n])
			below := int64(cells[down+x])
			bonds += s * (right + below)
			spins += s
		}
	}
	return -e.coupling*float64(bonds) - e.field*float64(spins)
}
