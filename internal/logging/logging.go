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

// Package logging wires structured logging for the extraction tools.
// Loggers are logr.Logger values backed by zap; the process-wide logger is
// installed into controller-runtime's log package so that library code can
// use ctrllog.FromContext and ctrllog.Log.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
)

// Verbosity levels for logger.V(...).
const (
	DEBUG = 1
	TRACE = 2
)

// Options configures NewLogger.
type Options struct {
	// Level is one of "error", "info", "debug", "trace".
	Level string
	// Development selects human-readable console output.
	Development bool
}

// NewLogger builds a zap-backed logr.Logger.
func NewLogger(opts Options) (logr.Logger, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), err
	}

	var zc zap.Config
	if opts.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// Setup builds a logger from opts and installs it process-wide.
func Setup(opts Options) (logr.Logger, error) {
	logger, err := NewLogger(opts)
	if err != nil {
		return logger, err
	}
	ctrllog.SetLogger(logger)
	return logger, nil
}

// NewTestLogger installs a development logger at TRACE verbosity for test
// suites and returns it.
func NewTestLogger() logr.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-TRACE))
	zl, err := zc.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	logger := zapr.NewLogger(zl)
	ctrllog.SetLogger(logger)
	return logger
}

// zap levels are negated logr verbosities.
func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "debug":
		return zapcore.Level(-DEBUG), nil
	case "trace":
		return zapcore.Level(-TRACE), nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	}
}
