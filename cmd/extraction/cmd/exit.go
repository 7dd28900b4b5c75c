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
	"errors"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Process exit codes.
const (
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitNumerical     = 3
)

// ConfigError marks command line and configuration file errors.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &cfgErr), errors.Is(err, core.ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, core.ErrRootNotFound),
		errors.Is(err, core.ErrDegenerateBalance),
		errors.Is(err, core.ErrAggregation):
		return ExitNumerical
	default:
		return ExitFailure
	}
}
