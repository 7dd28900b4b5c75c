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
	"github.com/spf13/cobra"

	"github.com/llm-d/liquid-extraction/internal/config"
)

func newRunCommand(root *rootOptions) *cobra.Command {
	var (
		manifestPath string
		writeStatus  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve one extraction cascade",
		Example: `  extraction run --data-dir ./data -n 4
  extraction run --manifest run.yaml --write-status -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ctx, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			var mf *manifestSource
			if manifestPath != "" {
				if mf, err = loadManifestSource(manifestPath, writeStatus); err != nil {
					return err
				}
				cfg = config.FromManifest(mf.run, cfg)
			}

			s, err := newSession(cfg, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.execute(ctx, cmd.OutOrStdout(), cfg, mf)
		},
	}
	config.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "ExtractionRun manifest providing the run inputs")
	cmd.Flags().BoolVar(&writeStatus, "write-status", false, "write the run status back into the manifest")
	return cmd
}
