package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/llm-d/liquid-extraction/api/v1alpha1"
)

// ManifestKind is the kind accepted by LoadManifest.
const ManifestKind = "ExtractionRun"

// LoadManifest reads an ExtractionRun manifest. Unknown fields are rejected
// and dataset paths are resolved against the manifest directory.
func LoadManifest(path string) (*v1alpha1.ExtractionRun, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	run, err := ParseManifest(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	run.Spec.Datasets.RaffinatePhase = resolve(dir, run.Spec.Datasets.RaffinatePhase)
	run.Spec.Datasets.ExtractPhase = resolve(dir, run.Spec.Datasets.ExtractPhase)
	return run, nil
}

// ParseManifest decodes and defaults an ExtractionRun manifest.
func ParseManifest(b []byte) (*v1alpha1.ExtractionRun, error) {
	var run v1alpha1.ExtractionRun
	if err := yaml.UnmarshalStrict(b, &run); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if run.APIVersion != "" && run.APIVersion != v1alpha1.GroupVersion.String() {
		return nil, fmt.Errorf("unsupported apiVersion %q, want %q", run.APIVersion, v1alpha1.GroupVersion.String())
	}
	if run.Kind != "" && run.Kind != ManifestKind {
		return nil, fmt.Errorf("unsupported kind %q, want %q", run.Kind, ManifestKind)
	}
	if run.Spec.Datasets.RaffinatePhase == "" || run.Spec.Datasets.ExtractPhase == "" {
		return nil, fmt.Errorf("spec.datasets.raffinatePhase and spec.datasets.extractPhase are required")
	}
	run.Default()
	return &run, nil
}

// WriteManifest writes run, status included, to path as YAML.
func WriteManifest(path string, run *v1alpha1.ExtractionRun) error {
	b, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// FromManifest converts the manifest inputs into a RunConfig. Output,
// history and logging settings are taken from base.
func FromManifest(run *v1alpha1.ExtractionRun, base RunConfig) RunConfig {
	cfg := base
	cfg.DataDir = ""
	cfg.RaffinateFile = run.Spec.Datasets.RaffinatePhase
	cfg.ExtractFile = run.Spec.Datasets.ExtractPhase
	cfg.ParametersFile = ""
	cfg.Feed = FeedConfig{Mass: run.Spec.Feed.Mass, X: run.Spec.Feed.X, N: run.Spec.Feed.N}
	cfg.Solvent = SolventConfig{
		MassFlow: run.Spec.Solvent.MassFlow,
		A:        run.Spec.Solvent.Composition.A,
		B:        run.Spec.Solvent.Composition.B,
		C:        run.Spec.Solvent.Composition.C,
	}
	cfg.Stages = run.StageCount()
	cfg.Solver = base.Solver.Merge(run.Spec.Solver)
	return cfg
}
