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
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/report"
	"github.com/llm-d/liquid-extraction/internal/store"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted runs",
	}
	cmd.PersistentFlags().String("history-file", config.DefaultHistoryFile, "history database path")
	cmd.PersistentFlags().StringP("output", "o", config.FormatText, "output format: text, yaml or json")
	cmd.PersistentFlags().String("log-level", "info", "log level: error, info, debug or trace")

	open := func(c *cobra.Command) (*store.Store, config.RunConfig, error) {
		cfg, _, err := loadConfig(c, root)
		if err != nil {
			return nil, cfg, err
		}
		s, err := store.Open(cfg.History.Path)
		return s, cfg, err
	}

	var (
		outcome string
		since   time.Duration
		limit   int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, cfg, err := open(c)
			if err != nil {
				return err
			}
			defer s.Close()
			filter := store.Filter{Outcome: outcome, Limit: limit}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}
			records, err := s.List(c.Context(), filter)
			if err != nil {
				return err
			}
			return report.WriteHistory(c.OutOrStdout(), cfg.Output.Format, records)
		},
	}
	list.Flags().StringVar(&outcome, "outcome", "", "only runs with this outcome: succeeded or failed")
	list.Flags().DurationVar(&since, "since", 0, "only runs started within this duration")
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of runs")

	var fingerprint string
	show := &cobra.Command{
		Use:   "show [ID]",
		Short: "Show one run with its stage records",
		Long: `Show one run with its stage records. The run is selected by ID, or with
--fingerprint as the latest successful run of identical inputs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if (len(args) == 1) == (fingerprint != "") {
				return &ConfigError{Err: fmt.Errorf("exactly one of ID or --fingerprint is required")}
			}
			var id uuid.UUID
			if len(args) == 1 {
				var err error
				if id, err = uuid.Parse(args[0]); err != nil {
					return &ConfigError{Err: fmt.Errorf("invalid run ID %q: %w", args[0], err)}
				}
			}
			s, cfg, err := open(c)
			if err != nil {
				return err
			}
			defer s.Close()

			var r *store.RunRecord
			if fingerprint != "" {
				r, err = s.FindByFingerprint(c.Context(), fingerprint)
			} else {
				r, err = s.Get(c.Context(), id)
			}
			if err != nil {
				return err
			}
			w := c.OutOrStdout()
			if cfg.Output.Format != config.FormatText {
				return report.Encode(w, cfg.Output.Format, r)
			}
			if err := report.WriteHistory(w, cfg.Output.Format, []*store.RunRecord{r}); err != nil {
				return err
			}
			if r.Outcome != store.OutcomeSucceeded {
				return nil
			}
			fmt.Fprintln(w)
			if err := report.WriteStageTable(w, r.Stages); err != nil {
				return err
			}
			return report.WriteComposite(w, r.Composite)
		},
	}
	show.Flags().StringVar(&fingerprint, "fingerprint", "", "select the latest successful run with this input fingerprint")

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return &ConfigError{Err: fmt.Errorf("--older-than must be > 0")}
			}
			s, _, err := open(c)
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.Prune(c.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Deleted %d runs\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 0, "delete runs started before now minus this duration")

	cmd.AddCommand(list, show, prune)
	return cmd
}
