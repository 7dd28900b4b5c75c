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

// Package metrics exports solver activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/solver"
)

const namespace = "extraction"

// Recorder implements solver.Observer on a dedicated registry.
type Recorder struct {
	registry *prometheus.Registry

	stages        prometheus.Counter
	runs          *prometheus.CounterVec
	bisection     prometheus.Histogram
	bracketPoints prometheus.Histogram
	bracketMisses prometheus.Counter
	extractMass   prometheus.Gauge
	composition   prometheus.Gauge
}

var _ solver.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stages_total",
			Help:      "Number of equilibrium stages solved.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of cascade runs by outcome.",
		}, []string{"outcome"}),
		bisection: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bisection_iterations",
			Help:      "Bisection iterations used per tie-line.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		bracketPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bracket_scan_points",
			Help:      "Grid points evaluated per bracket scan.",
			Buckets:   prometheus.LinearBuckets(1, 4, 10),
		}),
		bracketMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_scan_misses_total",
			Help:      "Bracket scans that exhausted the grid without a sign change.",
		}),
		extractMass: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_extract_mass",
			Help:      "Total extract mass of the last successful run.",
		}),
		composition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_extract_composition",
			Help:      "Composite extract solute fraction of the last successful run.",
		}),
	}
	r.registry.MustRegister(r.stages, r.runs, r.bisection, r.bracketPoints, r.bracketMisses, r.extractMass, r.composition)
	return r
}

// Registry returns the registry the metrics are registered in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveBisection(iterations int) {
	r.bisection.Observe(float64(iterations))
}

func (r *Recorder) ObserveBracketScan(points int, found bool) {
	r.bracketPoints.Observe(float64(points))
	if !found {
		r.bracketMisses.Inc()
	}
}

func (r *Recorder) ObserveStage(core.StageRecord) {
	r.stages.Inc()
}

func (r *Recorder) ObserveRun(outcome string, _ int, result core.CompositeResult) {
	r.runs.WithLabelValues(outcome).Inc()
	if outcome == solver.OutcomeSucceeded {
		r.extractMass.Set(result.TotalExtractMass)
		r.composition.Set(result.ExtractComposition)
	}
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the text exposition to path, replacing it atomically.
func (r *Recorder) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := r.WriteText(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
