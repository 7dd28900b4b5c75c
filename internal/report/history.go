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
	"time"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/store"
)

// WriteHistory writes run summaries in format.
func WriteHistory(w io.Writer, format string, records []*store.RunRecord) error {
	if format != config.FormatText {
		if records == nil {
			records = []*store.RunRecord{}
		}
		return Encode(w, format, records)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tOUTCOME\tSTAGES\tEXTRACT\ty\tERROR")
	for _, r := range records {
		extract, y := "-", "-"
		if r.Outcome == store.OutcomeSucceeded {
			extract = fmt.Sprintf("%.3f", r.Composite.TotalExtractMass)
			y = fmt.Sprintf("%.4f", r.Composite.ExtractComposition)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Outcome, r.StagesPlanned, extract, y, r.Error)
	}
	return tw.Flush()
}
