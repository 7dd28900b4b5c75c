package solver

import (
	"fmt"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Aggregate combines stage extracts into one mass-weighted composite.
// An empty record list yields a zero result; a non-empty list whose total
// extract mass is zero fails with a *core.AggregationError.
func Aggregate(records []core.StageRecord) (core.CompositeResult, error) {
	if len(records) == 0 {
		return core.CompositeResult{}, nil
	}
	var total, solute float64
	for _, r := range records {
		total += r.ExtractMass()
		solute += r.ExtractMass() * r.ExtractComposition
	}
	if total == 0 {
		return core.CompositeResult{}, &core.AggregationError{
			Reason: fmt.Sprintf("total extract mass over %d stages is zero", len(records)),
		}
	}
	return core.CompositeResult{
		TotalExtractMass:   total,
		ExtractComposition: solute / total,
	}, nil
}
