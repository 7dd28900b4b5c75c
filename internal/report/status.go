/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"errors"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/llm-d/liquid-extraction/api/v1alpha1"
	"github.com/llm-d/liquid-extraction/internal/engine"
	"github.com/llm-d/liquid-extraction/pkg/core"
)

// ApplyStatus records the outcome of a manifest run in its status. A nil
// runErr requires a non-nil out.
func ApplyStatus(run *v1alpha1.ExtractionRun, out *engine.Outcome, runErr error, now time.Time) {
	completed := metav1.NewTime(now.UTC())
	run.Status.CompletedAt = &completed

	if runErr != nil {
		run.Status.RunID = ""
		run.Status.Stages = nil
		run.Status.Composite = nil
		run.SetSolvedCondition(metav1.ConditionFalse, FailureReason(runErr), runErr.Error())
		return
	}

	run.Status.RunID = out.ID.String()
	run.Status.Stages = make([]v1alpha1.StageStatus, len(out.Result.Stages))
	for i, st := range out.Result.Stages {
		run.Status.Stages[i] = v1alpha1.StageStatus{
			Stage:              int32(st.Stage),
			X:                  st.TieLine.Raffinate.X,
			Y:                  st.TieLine.Extract.X,
			RaffinateMass:      st.Balance.RaffinatePrimeMass,
			ExtractMass:        st.ExtractMass(),
			ExtractComposition: st.ExtractComposition,
		}
	}
	run.Status.Composite = &v1alpha1.CompositeStatus{
		TotalExtractMass:   out.Result.Composite.TotalExtractMass,
		ExtractComposition: out.Result.Composite.ExtractComposition,
	}
	run.SetSolvedCondition(metav1.ConditionTrue, v1alpha1.ReasonSolved,
		fmt.Sprintf("%d stages solved", len(out.Result.Stages)))
}

// FailureReason maps a run error to a Solved condition reason.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, core.ErrConfiguration):
		return v1alpha1.ReasonInvalidConfiguration
	case errors.Is(err, core.ErrRootNotFound):
		return v1alpha1.ReasonRootNotFound
	case errors.Is(err, core.ErrDegenerateBalance):
		return v1alpha1.ReasonDegenerateBalance
	case errors.Is(err, core.ErrAggregation):
		return v1alpha1.ReasonAggregationFailed
	default:
		return v1alpha1.ReasonRunFailed
	}
}
