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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/engine"
	"github.com/llm-d/liquid-extraction/internal/report"
	"github.com/llm-d/liquid-extraction/pkg/sweep"
)

func newSweepCommand(root *rootOptions) *cobra.Command {
	var (
		stages      []int
		masses      []float64
		concurrency int
	)
	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Solve a grid of stage counts and solvent masses",
		Example: `  extraction sweep --stages-list 1,2,3,4 --solvent-masses 500,1000,1500`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ctx, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			plan, err := engine.NewPlan(cfg)
			if err != nil {
				return err
			}
			for _, n := range stages {
				if n < 0 {
					return &ConfigError{Err: fmt.Errorf("--stages-list: stage counts must be >= 0, got %d", n)}
				}
			}

			s, err := newSession(cfg, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := sweep.NewRunner(plan.Diagram, plan.Solver,
				sweep.WithConcurrency(concurrency),
				sweep.WithObserver(s.recorder))
			if err != nil {
				return err
			}
			base := sweep.Case{Feed: plan.Feed, Solvent: plan.Solvent.Effective(), Stages: plan.Stages}
			results, err := runner.Run(ctx, sweep.Grid(base, stages, masses))
			if err != nil {
				return err
			}
			if err := s.writeMetrics(cfg.Output.MetricsFile); err != nil {
				return err
			}
			return report.WriteSweep(cmd.OutOrStdout(), cfg.Output.Format, results)
		},
	}
	config.AddFlags(cmd.Flags())
	cmd.Flags().IntSliceVar(&stages, "stages-list", nil, "stage counts to solve (default: --stages)")
	cmd.Flags().Float64SliceVar(&masses, "solvent-masses", nil, "solvent masses per stage to solve (default: --solvent-mass)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "cases solved in parallel (default: GOMAXPROCS)")
	return cmd
}
