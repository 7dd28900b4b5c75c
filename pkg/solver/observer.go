package solver

import (
	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Run outcomes reported to an Observer.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Observer receives solver events, typically to export metrics.
type Observer interface {
	// ObserveBisection reports the iterations used to refine one tie-line.
	ObserveBisection(iterations int)
	// ObserveBracketScan reports how many grid points were evaluated.
	ObserveBracketScan(points int, found bool)
	// ObserveStage reports a completed stage.
	ObserveStage(record core.StageRecord)
	// ObserveRun reports the end of a cascade run.
	ObserveRun(outcome string, stages int, result core.CompositeResult)
}

type noopObserver struct{}

func (noopObserver) ObserveBisection(int) {}
func (noopObserver) ObserveBracketScan(int, bool) {}
func (noopObserver) ObserveStage(core.StageRecord) {}
func (noopObserver) ObserveRun(string, int, core.CompositeResult) {}
