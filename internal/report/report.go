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

// Package report renders run results as text, YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/engine"
	solverconfig "github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Inputs echoes the validated inputs of a run.
type Inputs struct {
	Feed      core.Stream               `json:"feed" yaml:"feed"`
	Solvent   core.SolventSpec          `json:"solvent" yaml:"solvent"`
	Effective core.EffectiveSolvent     `json:"effectiveSolvent" yaml:"effectiveSolvent"`
	Stages    int                       `json:"stages" yaml:"stages"`
	Solver    solverconfig.SolverConfig `json:"solver" yaml:"solver"`
}

// RunReport is the document written for one run.
type RunReport struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name,omitempty" yaml:"name,omitempty"`
	Fingerprint string               `json:"fingerprint" yaml:"fingerprint"`
	StartedAt   time.Time            `json:"startedAt" yaml:"startedAt"`
	Cached      bool                 `json:"cached,omitempty" yaml:"cached,omitempty"`
	Inputs      Inputs               `json:"inputs" yaml:"inputs"`
	Stages      []core.StageRecord   `json:"stages" yaml:"stages"`
	Composite   core.CompositeResult `json:"composite" yaml:"composite"`
}

// NewRunReport builds the report of a successful outcome.
func NewRunReport(out *engine.Outcome) RunReport {
	return RunReport{
		ID:          out.ID.String(),
		Name:        out.Plan.Name,
		Fingerprint: out.Fingerprint,
		StartedAt:   out.StartedAt,
		Cached:      out.Cached,
		Inputs: Inputs{
			Feed:      out.Plan.Feed,
			Solvent:   out.Plan.Solvent,
			Effective: out.Plan.Solvent.Effective(),
			Stages:    out.Plan.Stages,
			Solver:    out.Plan.Solver,
		},
		Stages:    out.Result.Stages,
		Composite: out.Result.Composite,
	}
}

// Encode writes v as YAML or JSON.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteRun writes r in format. The text format is a stage table followed by
// the composite extract.
func WriteRun(w io.Writer, format string, r RunReport) error {
	if format != config.FormatText {
		return Encode(w, format, r)
	}
	if err := WriteStageTable(w, r.Stages); err != nil {
		return err
	}
	return WriteComposite(w, r.Composite)
}

// WriteStageTable writes one row per stage.
func WriteStageTable(w io.Writer, stages []core.StageRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tX\tNr\tY\tNe\tRAFFINATE\tEXTRACT\ty")
	for _, st := range stages {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.3f\t%.4f\n",
			st.Stage,
			st.TieLine.Raffinate.X, st.TieLine.Raffinate.N,
			st.TieLine.Extract.X, st.TieLine.Extract.N,
			st.Balance.RaffinatePrimeMass, st.ExtractMass(),
			st.ExtractComposition)
	}
	return tw.Flush()
}

// WriteComposite writes the composite extract mass to 3 decimals and its
// solute fraction to 4.
func WriteComposite(w io.Writer, c core.CompositeResult) error {
	_, err := fmt.Fprintf(w, "Composite extract: E = %.3f kg, y = %.4f\n", c.TotalExtractMass, c.ExtractComposition)
	return err
}
