package solver

import (
	"context"
	"fmt"

	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/logging"
	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

// Result is the output of a cascade run.
type Result struct {
	// Stages holds one record per stage, in stage order.
	Stages    []core.StageRecord   `json:"stages" yaml:"stages"`
	Composite core.CompositeResult `json:"composite" yaml:"composite"`
}

// Cascade drives sequential equilibrium stages with a constant solvent.
// A Cascade holds no per-run state and may be reused.
type Cascade struct {
	solver   *TieLineSolver
	solvent  core.EffectiveSolvent
	cfg      config.SolverConfig
	observer Observer
}

// NewCascade returns a cascade over diagram using solvent in every stage.
func NewCascade(diagram *curve.Diagram, solvent core.EffectiveSolvent, cfg config.SolverConfig) (*Cascade, error) {
	tls, err := NewTieLineSolver(diagram, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := core.NewEffectiveSolvent(solvent.Mass, solvent.Ys, solvent.Ns); err != nil {
		return nil, err
	}
	return &Cascade{solver: tls, solvent: solvent, cfg: cfg, observer: noopObserver{}}, nil
}

// WithObserver returns a copy of c reporting to o.
func (c *Cascade) WithObserver(o Observer) *Cascade {
	cp := *c
	if o == nil {
		o = noopObserver{}
	}
	cp.observer = o
	cp.solver = c.solver.WithObserver(o)
	return &cp
}

// Solvent returns the solvent fed to every stage.
func (c *Cascade) Solvent() core.EffectiveSolvent {
	return c.solvent
}

// Run computes stages 1..n. Stage i+1 is fed the raffinate of stage i.
// Any stage failure aborts the run and no partial result is returned.
func (c *Cascade) Run(ctx context.Context, feed core.Stream, n int) (*Result, error) {
	logger := ctrllog.FromContext(ctx)

	if n < 0 {
		return nil, core.NewConfigurationError("stages", "must be >= 0, got %d", n)
	}
	if n == 0 && c.cfg.ZeroStagePolicy == config.ZeroStageReject {
		return nil, core.NewConfigurationError("stages", "zero stages rejected by zeroStagePolicy %s", config.ZeroStageReject)
	}
	if _, err := core.NewStream(feed.Mass, feed.X, feed.N); err != nil {
		return nil, err
	}

	records := make([]core.StageRecord, 0, n)
	current := feed
	for stage := 1; stage <= n; stage++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stage %d: %w", stage, err)
		}
		record, err := c.Step(ctx, stage, current)
		if err != nil {
			c.observer.ObserveRun(OutcomeFailed, stage-1, core.CompositeResult{})
			return nil, err
		}
		records = append(records, record)
		current = record.Balance.Raffinate
	}

	composite, err := Aggregate(records)
	if err != nil {
		c.observer.ObserveRun(OutcomeFailed, n, core.CompositeResult{})
		return nil, err
	}
	c.observer.ObserveRun(OutcomeSucceeded, n, composite)

	logger.Info("Cascade completed",
		"stages", n,
		"totalExtractMass", composite.TotalExtractMass,
		"extractComposition", composite.ExtractComposition)

	return &Result{Stages: records, Composite: composite}, nil
}

// Step computes a single stage fed by feed.
func (c *Cascade) Step(ctx context.Context, stage int, feed core.Stream) (core.StageRecord, error) {
	logger := ctrllog.FromContext(ctx)

	mixture, err := core.ComputeMixture(feed, c.solvent)
	if err != nil {
		return core.StageRecord{}, err
	}
	tieLine, err := c.solver.Solve(ctx, mixture)
	if err != nil {
		return core.StageRecord{}, core.WithStage(err, stage)
	}
	balance, err := core.Split(mixture, tieLine)
	if err != nil {
		return core.StageRecord{}, core.WithStage(err, stage)
	}
	record := core.NewStageRecord(stage, feed, mixture, tieLine, balance)
	c.observer.ObserveStage(record)

	logger.V(logging.DEBUG).Info("Stage solved",
		"stage", stage,
		"mixtureX", mixture.X,
		"mixtureN", mixture.N,
		"raffinateX", tieLine.Raffinate.X,
		"extractY", tieLine.Extract.X,
		"raffinatePrimeMass", balance.RaffinatePrimeMass,
		"extractMass", balance.ExtractMass)

	return record, nil
}
