package solver

import (
	"math"

	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

// Residual measures how far the trial tie-line anchored at a raffinate
// fraction misses a mixture point. It owns references to the diagram and
// the target mixture; it holds no other state.
type Residual struct {
	diagram *curve.Diagram
	mixture core.MixturePoint
	cfg     config.SolverConfig
}

// NewResidual returns the residual of mixture against diagram.
func NewResidual(diagram *curve.Diagram, mixture core.MixturePoint, cfg config.SolverConfig) Residual {
	return Residual{diagram: diagram, mixture: mixture, cfg: cfg}
}

// Eval returns the carrier ratio predicted at the mixture solute fraction by
// the chord through the two equilibrium points anchored at x, minus the
// mixture carrier ratio.
func (r Residual) Eval(x float64) float64 {
	x1 := x
	x2 := r.diagram.Distribution.Evaluate(x)
	if r.isClose(x1, x2) {
		if r.cfg.DegenerateChordPolicy == config.ChordUndefined {
			return math.NaN()
		}
		x2 += r.cfg.ChordPerturbation
	}
	n1 := r.diagram.Raffinate.Evaluate(x)
	n2 := r.diagram.ExtractCarrierAt(x)

	predicted := n1 + (r.mixture.X-x1)*(n2-n1)/(x2-x1)
	return predicted - r.mixture.N
}

// Func returns Eval as a plain function value.
func (r Residual) Func() func(float64) float64 {
	return r.Eval
}

func (r Residual) isClose(a, b float64) bool {
	return math.Abs(a-b) <= r.cfg.ChordAbsTolerance+r.cfg.ChordRelTolerance*math.Abs(b)
}
