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

// Package cmd implements the extraction command line.
package cmd

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/logging"
)

type rootOptions struct {
	configFile string
}

// NewRootCommand returns the extraction command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "extraction",
		Short: "Cross-current liquid-liquid extraction solver",
		Long: `extraction solves multi-stage cross-current liquid-liquid extraction
cascades from tabulated ternary equilibrium data.

Every stage mixes the raffinate of the previous stage with fresh solvent,
locates the operating tie-line and splits the mixture by the lever rule.
All stage extracts are combined into a composite extract.

Configuration is layered: built-in defaults, the legacy parameters file,
--config, LLX_* environment variables and flags, the later winning.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file (yaml, json or toml)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ConfigError{Err: err}
	})

	root.AddCommand(
		newRunCommand(opts),
		newSweepCommand(opts),
		newWatchCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig layers the configuration for cmd and installs the process
// logger. The returned context carries the logger.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.RunConfig, context.Context, error) {
	cfg, err := config.Load(viper.New(), cmd.Flags(), opts.configFile)
	if err != nil {
		return config.RunConfig{}, nil, &ConfigError{Err: err}
	}
	logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return config.RunConfig{}, nil, &ConfigError{Err: err}
	}
	return cfg, withLogger(cmd.Context(), logger), nil
}

func withLogger(ctx context.Context, logger logr.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctrllog.IntoContext(ctx, logger)
}
