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
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/sweep"
)

// SweepRow is one case of a sweep report.
type SweepRow struct {
	Name        string                `json:"name" yaml:"name"`
	Stages      int                   `json:"stages" yaml:"stages"`
	SolventMass float64               `json:"solventMass" yaml:"solventMass"`
	Composite   *core.CompositeResult `json:"composite,omitempty" yaml:"composite,omitempty"`
	Error       string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSweepRows flattens sweep results into report rows.
func NewSweepRows(results []sweep.CaseResult) []SweepRow {
	rows := make([]SweepRow, len(results))
	for i, res := range results {
		rows[i] = SweepRow{
			Name:        res.Case.Name,
			Stages:      res.Case.Stages,
			SolventMass: res.Case.Solvent.Mass,
		}
		if res.Err != nil {
			rows[i].Error = res.Err.Error()
			continue
		}
		composite := res.Result.Composite
		rows[i].Composite = &composite
	}
	return rows
}

// WriteSweep writes sweep results in format.
func WriteSweep(w io.Writer, format string, results []sweep.CaseResult) error {
	rows := NewSweepRows(results)
	if format != config.FormatText {
		return Encode(w, format, rows)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGES\tSOLVENT\tEXTRACT\ty\tERROR")
	for _, r := range rows {
		if r.Composite == nil {
			fmt.Fprintf(tw, "%d\t%.3f\t-\t-\t%s\n", r.Stages, r.SolventMass, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.4f\t\n", r.Stages, r.SolventMass, r.Composite.TotalExtractMass, r.Composite.ExtractComposition)
	}
	return tw.Flush()
}
