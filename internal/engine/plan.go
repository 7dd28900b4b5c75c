package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/dataset"
	solverconfig "github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

// fingerprintNamespace scopes fingerprint UUIDs to this tool.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://llm-d.ai/liquid-extraction/plan"))

// Plan is a validated, fully resolved run.
type Plan struct {
	Name    string
	Diagram *curve.Diagram
	Feed    core.Stream
	Solvent core.SolventSpec
	Stages  int
	Solver  solverconfig.SolverConfig
}

// NewPlan loads the phase tables named by cfg and validates every input.
// All configuration errors surface here, before any stage runs.
func NewPlan(cfg config.RunConfig) (*Plan, error) {
	raffinate, err := dataset.LoadPhase(cfg.RaffinatePath())
	if err != nil {
		return nil, core.NewConfigurationError("datasets.raffinatePhase", "%v", err)
	}
	extract, err := dataset.LoadPhase(cfg.ExtractPath())
	if err != nil {
		return nil, core.NewConfigurationError("datasets.extractPhase", "%v", err)
	}
	diagram, err := curve.NewDiagram(raffinate, extract)
	if err != nil {
		return nil, err
	}
	return NewPlanFromDiagram(diagram, cfg)
}

// NewPlanFromDiagram validates cfg against an already built diagram.
func NewPlanFromDiagram(diagram *curve.Diagram, cfg config.RunConfig) (*Plan, error) {
	feed, err := core.NewStream(cfg.Feed.Mass, cfg.Feed.X, cfg.Feed.N)
	if err != nil {
		return nil, err
	}
	solvent, err := core.NewSolventSpec(cfg.Solvent.MassFlow, core.Composition{
		A: cfg.Solvent.A,
		B: cfg.Solvent.B,
		C: cfg.Solvent.C,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Stages < 0 {
		return nil, core.NewConfigurationError("stages", "must be >= 0, got %d", cfg.Stages)
	}
	solverCfg, err := cfg.SolverConfig()
	if err != nil {
		return nil, core.NewConfigurationError("solver", "%v", err)
	}
	if err := solverCfg.Validate(); err != nil {
		return nil, core.NewConfigurationError("solver", "%v", err)
	}
	return &Plan{
		Diagram: diagram,
		Feed:    feed,
		Solvent: solvent,
		Stages:  cfg.Stages,
		Solver:  solverCfg,
	}, nil
}

// Fingerprint identifies the plan inputs. Plans with equal fingerprints
// produce identical results.
func (p *Plan) Fingerprint() string {
	var b strings.Builder
	for _, c := range []*curve.Curve{p.Diagram.Raffinate, p.Diagram.Extract, p.Diagram.Distribution} {
		fmt.Fprintf(&b, "%s:", c.Name())
		for _, s := range c.Samples() {
			fmt.Fprintf(&b, "%x,%x;", s.U, s.V)
		}
	}
	fmt.Fprintf(&b, "feed=%x,%x,%x;", p.Feed.Mass, p.Feed.X, p.Feed.N)
	fmt.Fprintf(&b, "solvent=%x,%x,%x,%x;", p.Solvent.MassFlow, p.Solvent.Composition.A, p.Solvent.Composition.B, p.Solvent.Composition.C)
	fmt.Fprintf(&b, "stages=%d;solver=%+v", p.Stages, p.Solver)
	return uuid.NewSHA1(fingerprintNamespace, []byte(b.String())).String()
}

// WithStages returns a copy of p computing n stages.
func (p *Plan) WithStages(n int) *Plan {
	cp := *p
	cp.Stages = n
	return &cp
}
