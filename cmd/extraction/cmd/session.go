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
	"fmt"
	"io"
	"os"
	"time"

	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/llm-d/liquid-extraction/api/v1alpha1"
	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/internal/engine"
	"github.com/llm-d/liquid-extraction/internal/metrics"
	"github.com/llm-d/liquid-extraction/internal/report"
	"github.com/llm-d/liquid-extraction/internal/store"
)

// session holds the resources shared by the runs of one command.
type session struct {
	recorder *metrics.Recorder
	history  *store.Store
	engine   *engine.Engine
}

func newSession(cfg config.RunConfig, cache *engine.ResultCache) (*session, error) {
	s := &session{recorder: metrics.NewRecorder()}
	opts := []engine.Option{engine.WithObserver(s.recorder)}
	if cache != nil {
		opts = append(opts, engine.WithCache(cache))
	}
	if cfg.History.Enabled {
		h, err := store.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		s.history = h
		opts = append(opts, engine.WithHistory(h))
	}
	s.engine = engine.New(opts...)
	return s, nil
}

func (s *session) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

func (s *session) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	return s.recorder.WriteFile(path)
}

// manifestSource is an ExtractionRun manifest driving a run.
type manifestSource struct {
	path        string
	run         *v1alpha1.ExtractionRun
	writeStatus bool
}

func loadManifestSource(path string, writeStatus bool) (*manifestSource, error) {
	run, err := config.LoadManifest(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return &manifestSource{path: path, run: run, writeStatus: writeStatus}, nil
}

// recordStatus writes the run outcome into the manifest file. Run inputs are
// rewritten as read, not with resolved dataset paths.
func (m *manifestSource) recordStatus(out *engine.Outcome, runErr error) error {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	run, err := config.ParseManifest(b)
	if err != nil {
		return err
	}
	report.ApplyStatus(run, out, runErr, time.Now())
	return config.WriteManifest(m.path, run)
}

// execute solves one run described by cfg and writes its report to w.
func (s *session) execute(ctx context.Context, w io.Writer, cfg config.RunConfig, mf *manifestSource) error {
	logger := ctrllog.FromContext(ctx)

	plan, err := engine.NewPlan(cfg)
	if err != nil {
		if mf != nil && mf.writeStatus {
			err = errors.Join(err, mf.recordStatus(nil, err))
		}
		return err
	}
	if mf != nil {
		plan.Name = mf.run.Name
	}
	if cfg.Output.DiagramFile != "" {
		if err := report.WriteDiagramFile(cfg.Output.DiagramFile, plan.Diagram); err != nil {
			return err
		}
	}

	outcome, runErr := s.engine.Execute(ctx, plan)
	errs := []error{runErr}
	if err := s.writeMetrics(cfg.Output.MetricsFile); err != nil {
		errs = append(errs, err)
	}
	if mf != nil && mf.writeStatus {
		if err := mf.recordStatus(outcome, runErr); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info("Run completed", "id", outcome.ID, "stages", len(outcome.Result.Stages),
		"extractMass", outcome.Result.Composite.TotalExtractMass, "cached", outcome.Cached)
	return report.WriteRun(w, cfg.Output.Format, report.NewRunReport(outcome))
}
