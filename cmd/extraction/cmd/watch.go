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
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/dataset"
	"github.com/llm-d/liquid-extraction/internal/engine"
	"github.com/llm-d/liquid-extraction/internal/watch"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	var (
		manifestPath string
		writeStatus  bool
		debounce     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rerun whenever the input files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prepare := func() (config.RunConfig, context.Context, *manifestSource, error) {
				cfg, ctx, err := loadConfig(cmd, root)
				if err != nil {
					return cfg, nil, nil, err
				}
				if manifestPath == "" {
					return cfg, ctx, nil, nil
				}
				mf, err := loadManifestSource(manifestPath, writeStatus)
				if err != nil {
					return cfg, nil, nil, err
				}
				return config.FromManifest(mf.run, cfg), ctx, mf, nil
			}

			cfg, ctx, _, err := prepare()
			if err != nil {
				return err
			}
			logger := ctrllog.FromContext(ctx)

			s, err := newSession(cfg, engine.NewResultCache())
			if err != nil {
				return err
			}
			defer s.Close()

			rerun := func(context.Context) error {
				cfg, runCtx, mf, err := prepare()
				if err != nil {
					return err
				}
				return s.execute(runCtx, cmd.OutOrStdout(), cfg, mf)
			}
			if err := rerun(ctx); err != nil {
				logger.Error(err, "Initial run failed")
			}

			w, err := watch.New(watchedFiles(cfg, root.configFile, manifestPath), debounce, rerun)
			if err != nil {
				return err
			}
			logger.Info("Watching inputs", "files", w.Files())
			return w.Run(ctx)
		},
	}
	config.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "ExtractionRun manifest providing the run inputs")
	cmd.Flags().BoolVar(&writeStatus, "write-status", false, "write the run status back into the manifest")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before rerunning")
	return cmd
}

// watchedFiles lists the inputs of cfg that exist or are required.
func watchedFiles(cfg config.RunConfig, configFile, manifestPath string) []string {
	files := []string{cfg.RaffinatePath(), cfg.ExtractPath()}
	params := cfg.ParametersFile
	if params == "" && manifestPath == "" {
		params = filepath.Join(cfg.DataDir, dataset.DefaultParametersFile)
	}
	for _, optional := range []string{params, configFile, manifestPath, cfg.ProfilesFile} {
		if optional == "" {
			continue
		}
		if _, err := os.Stat(optional); err != nil && errors.Is(err, os.ErrNotExist) {
			continue
		}
		files = append(files, optional)
	}
	return files
}
