package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/logging"
	"github.com/llm-d/liquid-extraction/internal/store"
	"github.com/llm-d/liquid-extraction/pkg/solver"
)

// History persists finished runs.
type History interface {
	Save(ctx context.Context, r *store.RunRecord) error
}

// Outcome describes one executed plan.
type Outcome struct {
	ID          uuid.UUID
	Fingerprint string
	StartedAt   time.Time
	Duration    time.Duration
	// Cached is true when the result came from the result cache.
	Cached bool
	Plan   *Plan
	Result *solver.Result
}

// Engine executes plans, optionally caching and persisting their results.
type Engine struct {
	history  History
	observer solver.Observer
	cache    *ResultCache
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory persists every run, failed runs included.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithObserver reports solver events to o.
func WithObserver(o solver.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithCache reuses results of plans with equal fingerprints.
func WithCache(c *ResultCache) Option {
	return func(e *Engine) { e.cache = c }
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs plan. On failure no result is returned.
func (e *Engine) Execute(ctx context.Context, plan *Plan) (*Outcome, error) {
	logger := ctrllog.FromContext(ctx).WithValues("run", plan.Name)

	fingerprint := plan.Fingerprint()
	if e.cache != nil {
		if cached, ok := e.cache.Get(fingerprint); ok {
			logger.V(logging.DEBUG).Info("Using cached result", "fingerprint", fingerprint)
			return &Outcome{
				ID:          uuid.New(),
				Fingerprint: fingerprint,
				StartedAt:   e.now().UTC(),
				Cached:      true,
				Plan:        plan,
				Result:      cached,
			}, nil
		}
	}

	cascade, err := solver.NewCascade(plan.Diagram, plan.Solvent.Effective(), plan.Solver)
	if err != nil {
		return nil, err
	}
	if e.observer != nil {
		cascade = cascade.WithObserver(e.observer)
	}

	id := uuid.New()
	started := e.now().UTC()
	result, runErr := cascade.Run(ctx, plan.Feed, plan.Stages)
	duration := e.now().Sub(started)

	if e.history != nil {
		record := &store.RunRecord{
			ID:            id,
			Name:          plan.Name,
			StartedAt:     started,
			Duration:      duration,
			Outcome:       store.OutcomeSucceeded,
			Fingerprint:   fingerprint,
			Feed:          plan.Feed,
			Solvent:       cascade.Solvent(),
			StagesPlanned: plan.Stages,
		}
		if runErr != nil {
			record.Outcome = store.OutcomeFailed
			record.Error = runErr.Error()
		} else {
			record.Stages = result.Stages
			record.Composite = result.Composite
		}
		// Cancelled runs are still recorded.
		if err := e.history.Save(context.WithoutCancel(ctx), record); err != nil {
			logger.Error(err, "Failed to persist run", "id", id)
		}
	}

	if runErr != nil {
		logger.V(logging.DEBUG).Info("Run failed", "id", id, "error", runErr.Error())
		return nil, runErr
	}
	if e.cache != nil {
		e.cache.Set(fingerprint, result)
	}

	logger.V(logging.DEBUG).Info("Run finished", "id", id, "duration", duration)
	return &Outcome{
		ID:          id,
		Fingerprint: fingerprint,
		StartedAt:   started,
		Duration:    duration,
		Plan:        plan,
		Result:      result,
	}, nil
}
