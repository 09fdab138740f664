package ising_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinlab/internal/compute"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/metrics"
)

func thresholds(fractions ...float64) []float64 {
	p := make([]float64, lattice.TableSize)
	for i := range p {
		p[i] = lattice.MaxThreshold * fractions[i%len(fractions)]
	}
	return p
}

type spinChecker struct {
	bad  int
	sums map[int]bool
}

func (c *spinChecker) OnStep(repeat, t int, l *lattice.Lattice) {
	if !l.Valid() {
		c.bad++
	}
	n := l.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			w, _ := l.Wrap(x-1, y)
			e, _ := l.Wrap(x+1, y)
			_, up := l.Wrap(x, y-1)
			_, down := l.Wrap(x, y+1)
			c.sums[int(l.At(w, y))+int(l.At(e, y))+int(l.At(x, up))+int(l.At(x, down))] = true
		}
	}
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("determinism", func() {
		in := ising.Input{N: 13, Seed: 2024, Repeats: 4, MaxTime: 25, Probs: thresholds(0.1, 0.4, 0.7, 0.2, 0.05)}

		run := func(cellWorkers, repeatWorkers int) (*ising.Output, [][]int8) {
			sim := ising.New(compute.AutoSelectBackend(cellWorkers), nil)
			sim.SetRepeatWorkers(repeatWorkers)
			rec := ising.NewRecorder(0)
			sim.AddObserver(rec)
			out, err := sim.Run(ctx, in)
			Expect(err).NotTo(HaveOccurred())
			return out, rec.Frames()
		}

		It("produces the same trajectory for any cell worker count", func() {
			_, serial := run(1, 1)
			for _, workers := range []int{2, 4, 7} {
				_, parallel := run(workers, 1)
				Expect(parallel).To(Equal(serial), "cell workers = %d", workers)
			}
		})

		It("produces bit-identical statistics for any repeat worker count", func() {
			base, frames := run(1, 1)
			Expect(base.Exact).To(BeTrue())
			for _, workers := range []int{2, 3, 4} {
				out, parallelFrames := run(3, workers)
				Expect(out.Means).To(Equal(base.Means))
				Expect(out.Stddevs).To(Equal(base.Stddevs))
				Expect(parallelFrames).To(Equal(frames))
			}
		})

		It("changes with the seed", func() {
			a, _ := run(1, 1)
			in.Seed++
			b, _ := run(1, 1)
			in.Seed--
			Expect(a.Means).NotTo(Equal(b.Means))
		})
	})

	Describe("output shape", func() {
		DescribeTable("has maxTime entries",
			func(n, repeats, maxTime int) {
				out, err := ising.New(nil, nil).Run(ctx, ising.Input{
					N: n, Seed: 1, Repeats: repeats, MaxTime: maxTime, Probs: thresholds(0.3),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(out.Means).To(HaveLen(maxTime))
				Expect(out.Stddevs).To(HaveLen(maxTime))
			},
			Entry("single step", 3, 1, 1),
			Entry("several repeats", 5, 4, 10),
			Entry("single cell", 1, 2, 7),
		)
	})

	Describe("spin invariant", func() {
		It("keeps every cell at exactly +1 or -1", func() {
			checker := &spinChecker{sums: map[int]bool{}}
			sim := ising.New(compute.NewCPUBackend(4), nil)
			sim.AddObserver(checker)
			_, err := sim.Run(ctx, ising.Input{N: 9, Seed: 77, Repeats: 3, MaxTime: 30, Probs: thresholds(0.5, 0.9)})
			Expect(err).NotTo(HaveOccurred())
			Expect(checker.bad).To(BeZero())
		})
	})

	Describe("zero thresholds", func() {
		It("freezes the lattice after initialization", func() {
			rec := ising.NewRecorder(0)
			sim := ising.New(nil, nil)
			sim.AddObserver(rec)
			out, err := sim.Run(ctx, ising.Input{N: 4, Seed: 42, Repeats: 1, MaxTime: 3, Probs: thresholds(0)})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Stddevs).To(Equal([]float64{0, 0, 0}))
			Expect(out.Means[1]).To(Equal(out.Means[0]))
			Expect(out.Means[2]).To(Equal(out.Means[0]))

			frames := rec.Frames()
			Expect(frames).To(HaveLen(3))
			Expect(frames[1]).To(Equal(frames[0]))
			Expect(frames[2]).To(Equal(frames[0]))
		})

		It("keeps each repeat constant across timesteps", func() {
			out, err := ising.New(nil, nil).Run(ctx, ising.Input{N: 8, Seed: 9, Repeats: 6, MaxTime: 5, Probs: thresholds(0)})
			Expect(err).NotTo(HaveOccurred())
			for t := 1; t < 5; t++ {
				Expect(out.Means[t]).To(Equal(out.Means[0]))
				Expect(out.Stddevs[t]).To(Equal(out.Stddevs[0]))
			}
		})
	})

	Describe("single-cell lattice", func() {
		It("wraps every neighbour onto the cell itself", func() {
			checker := &spinChecker{sums: map[int]bool{}}
			sim := ising.New(compute.NewCPUBackend(3), nil)
			sim.AddObserver(checker)

			probs := thresholds(0)
			probs[2] = lattice.MaxThreshold / 2
			probs[7] = lattice.MaxThreshold / 2
			probs[0] = lattice.MaxThreshold / 3
			probs[9] = lattice.MaxThreshold / 3

			out, err := sim.Run(ctx, ising.Input{N: 1, Seed: 3, Repeats: 4, MaxTime: 20, Probs: probs})
			Expect(err).NotTo(HaveOccurred())
			Expect(checker.bad).To(BeZero())
			for sum := range checker.sums {
				Expect(sum).To(Or(Equal(-4), Equal(4)))
			}
			for _, m := range out.Means {
				Expect(m).To(BeNumerically(">=", -1))
				Expect(m).To(BeNumerically("<=", 1))
			}
		})

		It("flips every step under saturated thresholds", func() {
			rec := ising.NewRecorder(0)
			sim := ising.New(nil, nil)
			sim.AddObserver(rec)
			_, err := sim.Run(ctx, ising.Input{N: 1, Seed: 11, Repeats: 1, MaxTime: 4, Probs: thresholds(1)})
			Expect(err).NotTo(HaveOccurred())

			m := rec.Magnetizations()
			Expect(m).To(HaveLen(4))
			for t := 1; t < len(m); t++ {
				Expect(m[t]).To(Equal(-m[t-1]))
			}
		})
	})

	Describe("observables", func() {
		It("aggregates energy alongside magnetization", func() {
			sim := ising.New(nil, nil)
			sim.AddObservable(metrics.NewEnergy(1, 0))
			out, err := sim.Run(ctx, ising.Input{N: 4, Seed: 42, Repeats: 2, MaxTime: 3, Probs: thresholds(0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Observables).To(HaveKey("energy"))
			Expect(out.Observables["energy"].Means).To(HaveLen(3))
		})
	})
})
