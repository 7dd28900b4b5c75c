package sweep

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/logging"
	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
	"github.com/llm-d/liquid-extraction/pkg/solver"
)

// Case is one cascade configuration.
type Case struct {
	Name    string                `json:"name" yaml:"name"`
	Feed    core.Stream           `json:"feed" yaml:"feed"`
	Solvent core.EffectiveSolvent `json:"solvent" yaml:"solvent"`
	Stages  int                   `json:"stages" yaml:"stages"`
}

// CaseResult is the outcome of one case. Exactly one of Result and Err is set.
type CaseResult struct {
	Case   Case           `json:"case" yaml:"case"`
	Result *solver.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Err    error          `json:"-" yaml:"-"`
}

// Runner executes cases against a shared diagram.
type Runner struct {
	diagram     *curve.Diagram
	cfg         config.SolverConfig
	concurrency int
	observer    solver.Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of cases solved at once.
// Values below one select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

// WithObserver reports solver events of every case to o. The observer must
// be safe for concurrent use.
func WithObserver(o solver.Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// NewRunner validates cfg and returns a Runner over diagram.
func NewRunner(diagram *curve.Diagram, cfg config.SolverConfig, opts ...Option) (*Runner, error) {
	if diagram == nil {
		return nil, core.NewConfigurationError("diagram", "cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.NewConfigurationError("solver", "%v", err)
	}
	r := &Runner{diagram: diagram, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	return r, nil
}

// Run solves every case and returns the results in case order. The returned
// error is non-nil only when ctx is cancelled before all cases finish.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]CaseResult, error) {
	logger := ctrllog.FromContext(ctx)

	results := make([]CaseResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, c := range cases {
		results[i].Case = c
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.solve(gctx, c)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.V(logging.DEBUG).Info("Sweep case failed", "case", c.Name, "error", err.Error())
				results[i].Err = err
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info("Sweep completed", "cases", len(cases), "failed", failed)
	return results, nil
}

func (r *Runner) solve(ctx context.Context, c Case) (*solver.Result, error) {
	cascade, err := solver.NewCascade(r.diagram, c.Solvent, r.cfg)
	if err != nil {
		return nil, err
	}
	if r.observer != nil {
		cascade = cascade.WithObserver(r.observer)
	}
	return cascade.Run(ctx, c.Feed, c.Stages)
}

// Grid returns the cross product of stage counts and solvent masses applied
// to base. Solvent composition is kept. Empty axes keep the base value.
func Grid(base Case, stages []int, solventMasses []float64) []Case {
	if len(stages) == 0 {
		stages = []int{base.Stages}
	}
	if len(solventMasses) == 0 {
		solventMasses = []float64{base.Solvent.Mass}
	}
	cases := make([]Case, 0, len(stages)*len(solventMasses))
	for _, mass := range solventMasses {
		for _, n := range stages {
			c := base
			c.Stages = n
			c.Solvent.Mass = mass
			c.Name = fmt.Sprintf("stages=%d,solvent=%g", n, mass)
			cases = append(cases, c)
		}
	}
	return cases
}
