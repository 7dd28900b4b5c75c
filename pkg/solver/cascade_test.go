package solver

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

func mustCurve(name string, us, vs []float64) *curve.Curve {
	c, err := curve.New(name, us, vs)
	Expect(err).NotTo(HaveOccurred())
	return c
}

// linearDiagram has a carrier-free raffinate branch, an extract branch at
// N=10 and the distribution Y=2X. The tie-line through a mixture (xm, nm)
// on this diagram is anchored at x = xm*10/(10+nm).
func linearDiagram() *curve.Diagram {
	d, err := curve.NewDiagramFromCurves(
		mustCurve(curve.RaffinateCurveName, []float64{0, 1}, []float64{0, 0}),
		mustCurve(curve.ExtractCurveName, []float64{0, 1}, []float64{10, 10}),
		mustCurve(curve.DistributionCurveName, []float64{0, 1}, []float64{0, 2}),
	)
	Expect(err).NotTo(HaveOccurred())
	return d
}

// identityDiagram is the diagram whose distribution curve is Y=X.
func identityDiagram() *curve.Diagram {
	d, err := curve.NewDiagramFromCurves(
		mustCurve(curve.RaffinateCurveName, []float64{0, 1}, []float64{0, 0}),
		mustCurve(curve.ExtractCurveName, []float64{0, 1}, []float64{0, 100}),
		mustCurve(curve.DistributionCurveName, []float64{0, 1}, []float64{0, 1}),
	)
	Expect(err).NotTo(HaveOccurred())
	return d
}

type countingObserver struct {
	bisections int
	scans      int
	misses     int
	stages     int
	outcomes   []string
}

func (o *countingObserver) ObserveBisection(int) { o.bisections++ }

func (o *countingObserver) ObserveBracketScan(_ int, found bool) {
	o.scans++
	if !found {
		o.misses++
	}
}

func (o *countingObserver) ObserveStage(core.StageRecord) { o.stages++ }

func (o *countingObserver) ObserveRun(outcome string, _ int, _ core.CompositeResult) {
	o.outcomes = append(o.outcomes, outcome)
}

var _ = Describe("TieLineSolver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("finds the analytic tie-line of a linear diagram", func() {
		s, err := NewTieLineSolver(linearDiagram(), config.Defaults())
		Expect(err).NotTo(HaveOccurred())

		tl, err := s.Solve(ctx, core.MixturePoint{Mass: 110, X: 5.0 / 11, N: 10.0 / 11})
		Expect(err).NotTo(HaveOccurred())
		Expect(tl.Raffinate.X).To(BeNumerically("~", 5.0/12, 1e-9))
		Expect(tl.Extract.X).To(BeNumerically("~", 5.0/6, 1e-9))
		Expect(tl.Raffinate.N).To(BeNumerically("==", 0))
		Expect(tl.Extract.N).To(BeNumerically("~", 10, 1e-12))
	})

	It("brackets the root between consecutive grid points", func() {
		s, err := NewTieLineSolver(linearDiagram(), config.Defaults())
		Expect(err).NotTo(HaveOccurred())

		r := NewResidual(s.diagram, core.MixturePoint{Mass: 110, X: 5.0 / 11, N: 10.0 / 11}, s.cfg)
		a, b, found := s.Bracket(ctx, r)
		Expect(found).To(BeTrue())
		Expect(a).To(BeNumerically("~", 7.0/19, 1e-12))
		Expect(b).To(BeNumerically("~", 8.0/19, 1e-12))
		Expect(r.Eval(a) * r.Eval(b)).To(BeNumerically("<", 0))
	})

	It("accepts a root lying exactly on a grid point", func() {
		obs := &countingObserver{}
		s, err := NewTieLineSolver(linearDiagram(), config.Defaults())
		Expect(err).NotTo(HaveOccurred())
		s = s.WithObserver(obs)

		// On the raffinate branch the chord anchored at the mixture
		// solute fraction passes through it exactly.
		node := s.grid[7]
		mixture := core.MixturePoint{Mass: 110, X: node, N: 0}

		r := NewResidual(s.diagram, mixture, s.cfg)
		Expect(r.Eval(node)).To(BeNumerically("==", 0))
		a, b, found := s.Bracket(ctx, r)
		Expect(found).To(BeTrue())
		Expect(a).To(Equal(node))
		Expect(b).To(Equal(node))

		tl, err := s.Solve(ctx, mixture)
		Expect(err).NotTo(HaveOccurred())
		Expect(tl.Raffinate.X).To(Equal(node))
		Expect(tl.Raffinate.X).To(BeNumerically("~", 7.0/19, 1e-12))
		Expect(tl.Extract.X).To(BeNumerically("~", 14.0/19, 1e-12))
		Expect(obs.bisections).To(BeZero())
		Expect(obs.misses).To(BeZero())
	})

	It("reports the last bracket when no sign change exists", func() {
		obs := &countingObserver{}
		s, err := NewTieLineSolver(linearDiagram(), config.Defaults())
		Expect(err).NotTo(HaveOccurred())
		s = s.WithObserver(obs)

		_, err = s.Solve(ctx, core.MixturePoint{Mass: 1, X: 0.5, N: -100})
		Expect(err).To(MatchError(core.ErrRootNotFound))

		var rnf *core.RootNotFoundError
		Expect(errors.As(err, &rnf)).To(BeTrue())
		Expect(rnf.A).To(BeNumerically("~", 18.0/19, 1e-12))
		Expect(rnf.B).To(BeNumerically("~", 1, 1e-12))
		Expect(obs.misses).To(Equal(1))
		Expect(obs.bisections).To(BeZero())
	})

	It("treats zero-length chords as undefined when configured", func() {
		cfg := config.Defaults()
		cfg.DegenerateChordPolicy = config.ChordUndefined
		s, err := NewTieLineSolver(identityDiagram(), cfg)
		Expect(err).NotTo(HaveOccurred())

		r := NewResidual(s.diagram, core.MixturePoint{Mass: 130, X: 0.4077, N: 11.3}, cfg)
		Expect(math.IsNaN(r.Eval(0.3))).To(BeTrue())

		_, err = s.Solve(ctx, core.MixturePoint{Mass: 130, X: 0.4077, N: 11.3})
		Expect(err).To(MatchError(core.ErrRootNotFound))
	})

	It("skips an undefined first grid point on a linear diagram", func() {
		cfg := config.Defaults()
		cfg.DegenerateChordPolicy = config.ChordUndefined
		s, err := NewTieLineSolver(linearDiagram(), cfg)
		Expect(err).NotTo(HaveOccurred())

		tl, err := s.Solve(ctx, core.MixturePoint{Mass: 110, X: 5.0 / 11, N: 10.0 / 11})
		Expect(err).NotTo(HaveOccurred())
		Expect(tl.Raffinate.X).To(BeNumerically("~", 5.0/12, 1e-9))
	})

	It("rejects an invalid configuration", func() {
		cfg := config.Defaults()
		cfg.BracketSamples = 1
		_, err := NewTieLineSolver(linearDiagram(), cfg)
		Expect(err).To(MatchError(core.ErrConfiguration))

		_, err = NewTieLineSolver(nil, config.Defaults())
		Expect(err).To(MatchError(core.ErrConfiguration))
	})
})

var _ = Describe("Cascade", func() {
	var (
		ctx     context.Context
		feed    core.Stream
		solvent core.EffectiveSolvent
	)

	BeforeEach(func() {
		ctx = context.Background()
		feed = core.Stream{Mass: 100, X: 0.5, N: 0}
		solvent = core.EffectiveSolvent{Mass: 110, Ys: 0, Ns: 10}
	})

	newCascade := func(d *curve.Diagram, cfg config.SolverConfig) *Cascade {
		c, err := NewCascade(d, solvent, cfg)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("solves a single stage on the linear diagram", func() {
		res, err := newCascade(linearDiagram(), config.Defaults()).Run(ctx, feed, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stages).To(HaveLen(1))

		st := res.Stages[0]
		Expect(st.Stage).To(Equal(1))
		Expect(st.Mixture.Mass).To(BeNumerically("~", 110, 1e-9))
		Expect(st.Mixture.X).To(BeNumerically("~", 5.0/11, 1e-12))
		Expect(st.Mixture.N).To(BeNumerically("~", 10.0/11, 1e-12))
		Expect(st.Balance.RaffinatePrimeMass).To(BeNumerically("~", 100, 1e-7))
		Expect(st.Balance.ExtractPrimeMass).To(BeNumerically("~", 10, 1e-7))
		Expect(st.Balance.ExtractMass).To(BeNumerically("~", 110, 1e-7))
		Expect(st.ExtractComposition).To(BeNumerically("~", 5.0/66, 1e-9))

		Expect(res.Composite.TotalExtractMass).To(BeNumerically("~", 110, 1e-7))
		Expect(res.Composite.ExtractComposition).To(BeNumerically("~", 5.0/66, 1e-9))
	})

	It("feeds each stage the previous raffinate", func() {
		res, err := newCascade(linearDiagram(), config.Defaults()).Run(ctx, feed, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stages).To(HaveLen(3))

		x := 0.5
		var weighted float64
		for i, st := range res.Stages {
			Expect(st.Stage).To(Equal(i + 1))
			if i > 0 {
				Expect(st.Feed).To(Equal(res.Stages[i-1].Balance.Raffinate))
			}
			x *= 5.0 / 6
			Expect(st.TieLine.Raffinate.X).To(BeNumerically("~", x, 1e-9))
			Expect(st.Balance.ExtractMass).To(BeNumerically("~", 110, 1e-6))

			// Mass conservation across the split.
			Expect(st.Balance.RaffinatePrimeMass + st.Balance.ExtractPrimeMass).
				To(BeNumerically("~", st.Mixture.Mass, 1e-9))
			Expect(st.Balance.RaffinatePrimeMass).To(BeNumerically(">=", 0))
			Expect(st.Balance.ExtractPrimeMass).To(BeNumerically(">=", 0))
			weighted += 2 * x / 11
		}
		Expect(res.Composite.TotalExtractMass).To(BeNumerically("~", 330, 1e-6))
		Expect(res.Composite.ExtractComposition).To(BeNumerically("~", weighted/3, 1e-9))
	})

	It("is deterministic for identical inputs", func() {
		c := newCascade(linearDiagram(), config.Defaults())
		first, err := c.Run(ctx, feed, 4)
		Expect(err).NotTo(HaveOccurred())
		second, err := c.Run(ctx, feed, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("returns an empty result for zero stages by default", func() {
		obs := &countingObserver{}
		res, err := newCascade(linearDiagram(), config.Defaults()).WithObserver(obs).Run(ctx, feed, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stages).To(BeEmpty())
		Expect(res.Composite.TotalExtractMass).To(BeZero())
		Expect(res.Composite.ExtractComposition).To(BeZero())
		Expect(obs.outcomes).To(Equal([]string{OutcomeSucceeded}))
	})

	It("rejects zero stages under the Reject policy", func() {
		cfg := config.Defaults()
		cfg.ZeroStagePolicy = config.ZeroStageReject
		_, err := newCascade(linearDiagram(), cfg).Run(ctx, feed, 0)
		Expect(err).To(MatchError(core.ErrConfiguration))
	})

	It("rejects a negative stage count and an invalid feed", func() {
		c := newCascade(linearDiagram(), config.Defaults())
		_, err := c.Run(ctx, feed, -1)
		Expect(err).To(MatchError(core.ErrConfiguration))

		_, err = c.Run(ctx, core.Stream{Mass: 0, X: 0.5}, 1)
		Expect(err).To(MatchError(core.ErrConfiguration))
	})

	It("stops when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newCascade(linearDiagram(), config.Defaults()).Run(cctx, feed, 2)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("reports stage and run events to the observer", func() {
		obs := &countingObserver{}
		_, err := newCascade(linearDiagram(), config.Defaults()).WithObserver(obs).Run(ctx, feed, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.stages).To(Equal(2))
		Expect(obs.scans).To(Equal(2))
		Expect(obs.bisections).To(Equal(2))
		Expect(obs.outcomes).To(Equal([]string{OutcomeSucceeded}))
	})

	Context("with the identity distribution", func() {
		BeforeEach(func() {
			solvent = core.EffectiveSolvent{Mass: 1500, Ys: 0.1, Ns: 49}
		})

		It("computes the mixture point and a tie-line that cannot be split", func() {
			c := newCascade(identityDiagram(), config.Defaults())

			mixture, err := core.ComputeMixture(feed, c.Solvent())
			Expect(err).NotTo(HaveOccurred())
			Expect(mixture.Mass).To(BeNumerically("~", 130, 1e-9))
			Expect(mixture.X).To(BeNumerically("~", 53.0/130, 1e-12))
			Expect(mixture.N).To(BeNumerically("~", 1470.0/130, 1e-12))

			s, err := NewTieLineSolver(identityDiagram(), config.Defaults())
			Expect(err).NotTo(HaveOccurred())
			tl, err := s.Solve(ctx, mixture)
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.Raffinate.X).To(BeNumerically(">=", 0))
			Expect(tl.Raffinate.X).To(BeNumerically("<=", 1))
			Expect(tl.Width()).To(BeZero())

			obs := &countingObserver{}
			_, err = c.WithObserver(obs).Run(ctx, feed, 1)
			Expect(err).To(MatchError(core.ErrDegenerateBalance))
			var deg *core.DegenerateBalanceError
			Expect(errors.As(err, &deg)).To(BeTrue())
			Expect(deg.Stage).To(Equal(1))
			Expect(obs.outcomes).To(Equal([]string{OutcomeFailed}))
		})
	})
})

var _ = Describe("Aggregate", func() {
	It("returns a zero result for no records", func() {
		res, err := Aggregate(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(core.CompositeResult{}))
	})

	It("weights compositions by extract mass", func() {
		res, err := Aggregate([]core.StageRecord{
			{Balance: core.Balance{ExtractMass: 1}, ExtractComposition: 0.1},
			{Balance: core.Balance{ExtractMass: 3}, ExtractComposition: 0.5},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TotalExtractMass).To(BeNumerically("==", 4))
		Expect(res.ExtractComposition).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("fails when the stages carry no extract", func() {
		_, err := Aggregate([]core.StageRecord{{Stage: 1}})
		Expect(err).To(MatchError(core.ErrAggregation))
	})
})
