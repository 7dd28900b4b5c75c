package solver

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/logging"
	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

// TieLineSolver finds the operating tie-line through a mixture point.
type TieLineSolver struct {
	diagram  *curve.Diagram
	cfg      config.SolverConfig
	grid     []float64
	observer Observer
}

// NewTieLineSolver validates cfg and returns a solver over diagram.
func NewTieLineSolver(diagram *curve.Diagram, cfg config.SolverConfig) (*TieLineSolver, error) {
	if diagram == nil {
		return nil, core.NewConfigurationError("diagram", "cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.NewConfigurationError("solver", "%v", err)
	}
	return &TieLineSolver{
		diagram:  diagram,
		cfg:      cfg,
		grid:     floats.Span(make([]float64, cfg.BracketSamples), 0, 1),
		observer: noopObserver{},
	}, nil
}

// WithObserver returns a copy of s reporting to o.
func (s *TieLineSolver) WithObserver(o Observer) *TieLineSolver {
	cp := *s
	if o == nil {
		o = noopObserver{}
	}
	cp.observer = o
	return &cp
}

// Bracket scans the grid for the first pair of consecutive points where the
// residual changes sign. A grid point whose residual is exactly zero is
// returned as a zero-width bracket. found is false when the grid is
// exhausted; a and b then hold the last pair tried.
func (s *TieLineSolver) Bracket(ctx context.Context, r Residual) (a, b float64, found bool) {
	logger := ctrllog.FromContext(ctx)

	a = s.grid[0]
	fa := r.Eval(a)
	if fa == 0 {
		s.observer.ObserveBracketScan(1, true)
		return a, a, true
	}
	for i := 1; i < len(s.grid); i++ {
		b = s.grid[i]
		fb := r.Eval(b)
		logger.V(logging.TRACE).Info("Bracket scan", "a", a, "b", b, "fa", fa, "fb", fb)
		if fb == 0 {
			s.observer.ObserveBracketScan(i+1, true)
			return b, b, true
		}
		if fa*fb < 0 {
			s.observer.ObserveBracketScan(i+1, true)
			return a, b, true
		}
		if i < len(s.grid)-1 {
			a, fa = b, fb
		}
	}
	s.observer.ObserveBracketScan(len(s.grid), false)
	return a, b, false
}

// Solve returns the tie-line whose chord passes through mixture.
// It fails with a *core.RootNotFoundError when no bracket exists on the grid
// or bisection cannot isolate a root inside it.
func (s *TieLineSolver) Solve(ctx context.Context, mixture core.MixturePoint) (core.TieLine, error) {
	r := NewResidual(s.diagram, mixture, s.cfg)

	a, b, found := s.Bracket(ctx, r)
	if !found {
		return core.TieLine{}, &core.RootNotFoundError{
			A: a, B: b,
			Cause: fmt.Errorf("no sign change over %d samples in [0, 1]", len(s.grid)),
		}
	}

	root := a
	if a != b {
		x, iterations, err := Bisect(r.Func(), a, b, BisectOptions{
			XTolerance:    s.cfg.XTolerance,
			RTolerance:    s.cfg.RTolerance,
			MaxIterations: s.cfg.MaxIterations,
		})
		s.observer.ObserveBisection(iterations)
		if err != nil {
			return core.TieLine{}, &core.RootNotFoundError{A: a, B: b, Cause: err}
		}
		root = x
	}
	return s.diagram.TieLineAt(root), nil
}
