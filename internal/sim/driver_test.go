package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/harmonic"
	"github.com/san-kum/diatomic/internal/integrators"
	"github.com/san-kum/diatomic/internal/sim"
)

// cancelAfter cancels a context once its force has been evaluated n times.
type cancelAfter struct {
	field.Field
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Evaluate(x float64) float64 {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return c.Field.Evaluate(x)
}

type constant float64

func (c constant) Evaluate(float64) float64   { return float64(c) }
func (c constant) Differentiate() field.Field { return constant(0) }

var _ = Describe("Simulator", func() {
	const (
		mu  = 1744.1975
		k   = 0.647256
		req = 1.7311
	)
	var (
		potential field.Field
		force     field.Field
		osc       harmonic.Oscillator
		s         *sim.Simulator
	)

	BeforeEach(func() {
		potential = harmonic.Potential(k, req, 0)
		force = field.ForceField(potential)
		osc = harmonic.Oscillator{Omega: math.Sqrt(k / mu), Amplitude: 0.2, Phase: math.Pi / 4, Req: req}
		s = sim.New(integrators.NewVelocityVerlet())
	})

	Describe("Run", func() {
		It("returns exactly nSteps states on the grid i·dt", func() {
			res, err := s.Run(context.Background(), osc.InitialState(), mu, force, 0.1, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Len()).To(Equal(1000))
			Expect(res.States[0]).To(Equal(osc.InitialState()))
			for i, t := range res.Times {
				Expect(t).To(Equal(float64(i) * 0.1))
			}
		})

		It("conserves energy to within 0.1%", func() {
			res, err := s.Run(context.Background(), osc.InitialState(), mu, force, 0.1, 1000)
			Expect(err).NotTo(HaveOccurred())
			es := res.Energies(potential, mu)
			for _, e := range es {
				Expect(math.Abs(e-es[0]) / math.Abs(es[0])).To(BeNumerically("<", 1e-3))
			}
		})

		It("tracks the analytic oscillator over 10000 steps", func() {
			res, err := s.Run(context.Background(), osc.InitialState(), mu, force, 0.1, 10000)
			Expect(err).NotTo(HaveOccurred())
			exact := osc.Positions(res.Times)
			for i, r := range res.Positions() {
				Expect(r).To(BeNumerically("~", exact[i], 1e-3))
			}
		})

		It("is deterministic", func() {
			a, err := s.Run(context.Background(), osc.InitialState(), mu, force, 0.1, 500)
			Expect(err).NotTo(HaveOccurred())
			b, err := s.Run(context.Background(), osc.InitialState(), mu, force, 0.1, 500)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.States).To(Equal(b.States))
		})

		It("returns the partial trajectory when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			f := &cancelAfter{Field: force, n: 20, cancel: cancel}

			res, err := s.Run(ctx, osc.InitialState(), mu, f, 0.1, 1000)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Len()).To(BeNumerically("<", 1000))
			Expect(res.Len()).To(BeNumerically(">", 1))
		})

		It("stops on a non-finite state", func() {
			res, err := s.Run(context.Background(), dynamo.State{R: 1}, mu, constant(math.Inf(1)), 0.1, 10)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(res.Len()).To(Equal(1))
		})

		It("rejects a non-finite initial state", func() {
			_, err := s.Run(context.Background(), dynamo.State{R: math.NaN()}, mu, force, 0.1, 10)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
		})
	})
})

var _ = Describe("Ensemble", func() {
	const mu = 1000.0

	It("runs every member from the same initial state", func() {
		e := sim.NewEnsemble(integrators.NewVelocityVerlet())
		Expect(e.Add(sim.Member{Name: "stiff", Force: field.ForceField(field.Harmonic(2, 0, 0))})).To(Succeed())
		Expect(e.Add(sim.Member{Name: "soft", Force: field.ForceField(field.Harmonic(0.5, 0, 0))})).To(Succeed())
		Expect(e.Names()).To(Equal([]string{"stiff", "soft"}))

		x0 := dynamo.State{R: 0.1}
		runs, err := e.Run(context.Background(), x0, mu, 0.5, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))

		single, err := sim.New(integrators.NewVelocityVerlet()).
			Run(context.Background(), x0, mu, field.ForceField(field.Harmonic(2, 0, 0)), 0.5, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs["stiff"].States).To(Equal(single.States))
		Expect(runs["soft"].States[0]).To(Equal(x0))
		Expect(runs["soft"].States[199]).NotTo(Equal(runs["stiff"].States[199]))
	})

	It("rejects duplicate names", func() {
		e := sim.NewEnsemble(integrators.NewEuler())
		Expect(e.Add(sim.Member{Name: "a", Force: constant(0)})).To(Succeed())
		Expect(e.Add(sim.Member{Name: "a", Force: constant(1)})).NotTo(Succeed())
	})

	It("fails as a whole when one member fails", func() {
		e := sim.NewEnsemble(integrators.NewVelocityVerlet())
		Expect(e.Add(sim.Member{Name: "ok", Force: constant(0)})).To(Succeed())
		Expect(e.Add(sim.Member{Name: "bad", Force: constant(math.NaN())})).To(Succeed())

		_, err := e.Run(context.Background(), dynamo.State{R: 1}, mu, 0.1, 50)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
		Expect(err.Error()).To(ContainSubstring("bad"))
	})

	It("watches members for extrapolation", func() {
		w := sim.NewExtrapolationWatch("wide", -0.05, 0.05, nil, nil)
		e := sim.NewEnsemble(integrators.NewVelocityVerlet())
		Expect(e.Add(sim.Member{Name: "wide", Force: field.ForceField(field.Harmonic(1, 0, 0)), Watch: w})).To(Succeed())

		_, err := e.Run(context.Background(), dynamo.State{R: 0.1}, mu, 0.5, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Count()).To(BeNumerically(">", 0))
	})
})
