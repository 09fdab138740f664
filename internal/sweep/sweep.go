// Package sweep runs a base configuration across a grid of inverse
// temperatures and reports the order parameter at each point.
package sweep

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/experiment"
	"github.com/san-kum/spinlab/internal/logging"
)

const orderObservable = "abs_magnetization"

type Point struct {
	Beta float64 `json:"beta"`

	// Order is the final mean of |magnetization| per spin. The absolute
	// value is taken per repeat, so repeats ordered with opposite signs do
	// not cancel.
	Order float64 `json:"order"`

	// Spread is the final standard deviation of |magnetization| per spin.
	Spread float64 `json:"spread"`
}

type Sweep struct {
	base   *config.Config
	betas  []float64
	logger logging.Logger
}

func New(base *config.Config, betas []float64, logger logging.Logger) *Sweep {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sweep{base: base, betas: betas, logger: logger}
}

// Linspace returns steps evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{lo}
	}
	out := make([]float64, steps)
	step := (hi - lo) / float64(steps-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Run executes one simulation per beta, in order. The base config must
// derive its thresholds from a rule; explicit probabilities would make
// every point identical.
func (s *Sweep) Run(ctx context.Context, progress func(i, total int, p Point)) ([]Point, error) {
	if len(s.base.Probs) > 0 {
		return nil, fmt.Errorf("sweep needs a rule, not explicit probabilities")
	}

	points := make([]Point, 0, len(s.betas))
	for i, beta := range s.betas {
		if err := ctx.Err(); err != nil {
			return points, err
		}

		cfg := s.base.Clone()
		cfg.Rule.Beta = beta
		cfg.Observables = []string{orderObservable}

		res, err := experiment.RunConfig(ctx, cfg, s.logger)
		if err != nil {
			return points, fmt.Errorf("beta=%.4f: %w", beta, err)
		}

		order, ok := res.Output.Observables[orderObservable]
		if !ok || len(order.Means) == 0 {
			return points, fmt.Errorf("beta=%.4f: no %s series", beta, orderObservable)
		}
		cells := float64(cfg.N * cfg.N)
		last := len(order.Means) - 1
		p := Point{
			Beta:   beta,
			Order:  order.Means[last] / cells,
			Spread: order.Stddevs[last] / cells,
		}
		points = append(points, p)

		if progress != nil {
			progress(i, len(s.betas), p)
		}
	}
	return points, nil
}

// Transition returns the beta at which the order parameter rises most
// steeply between neighbouring points.
func Transition(points []Point) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}
	best := math.Inf(-1)
	beta := 0.0
	for i := 1; i < len(points); i++ {
		slope := points[i].Order - points[i-1].Order
		if slope > best {
			best = slope
			beta = (points[i].Beta + points[i-1].Beta) / 2
		}
	}
	return beta, true
}
