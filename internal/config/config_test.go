package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d/liquid-extraction/internal/dataset"
	solverconfig "github.com/llm-d/liquid-extraction/pkg/config"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(viper.New(), newFlags(t, "--data-dir", dir), "")
	require.NoError(t, err)

	assert.Equal(t, FeedConfig{Mass: 100, X: 0.5, N: 0}, cfg.Feed)
	assert.Equal(t, SolventConfig{MassFlow: 1500, A: 0.018, B: 0.98, C: 0.002}, cfg.Solvent)
	assert.Equal(t, 4, cfg.Stages)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, filepath.Join(dir, dataset.DefaultRaffinateFile), cfg.RaffinatePath())
	assert.Equal(t, filepath.Join(dir, dataset.DefaultExtractFile), cfg.ExtractPath())

	solver, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, solverconfig.Defaults(), solver)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, dataset.DefaultParametersFile,
		"clave,valor\nF_masa,200\nF_xf,0.4\nF_nf,0.1\nS_masa,900\nA_aceite,0.01\nB_propano,0.985\nC_oleico,0.005\n")
	configFile := writeFile(t, dir, "run.yaml", "feed:\n  x: 0.3\nsolver:\n  bracketSamples: 40\n")
	t.Setenv("LLX_SOLVENT_MASSFLOW", "1200")
	t.Setenv("LLX_SOLVER_MAXITERATIONS", "80")

	cfg, err := Load(viper.New(), newFlags(t, "--data-dir", dir, "--stages", "2"), configFile)
	require.NoError(t, err)

	// Parameters file over built-in defaults.
	assert.Equal(t, 200.0, cfg.Feed.Mass)
	assert.Equal(t, 0.1, cfg.Feed.N)
	assert.Equal(t, 0.985, cfg.Solvent.B)
	// Config file over parameters file.
	assert.Equal(t, 0.3, cfg.Feed.X)
	// Environment over parameters file.
	assert.Equal(t, 1200.0, cfg.Solvent.MassFlow)
	// Flags over defaults.
	assert.Equal(t, 2, cfg.Stages)

	solver, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, 40, solver.BracketSamples)
	assert.Equal(t, 80, solver.MaxIterations)
	assert.Equal(t, solverconfig.ChordPerturb, solver.DegenerateChordPolicy)
}

func TestLoadZeroStagesFlag(t *testing.T) {
	cfg, err := Load(viper.New(), newFlags(t, "--data-dir", t.TempDir(), "-n", "0"), "")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Stages)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file string
	}{
		{name: "Test case 1: bad output format", args: []string{"-o", "xml"}},
		{name: "Test case 2: negative stages", args: []string{"--stages", "-1"}},
		{name: "Test case 3: missing explicit parameters file", args: []string{"--parameters-file", "does-not-exist.txt"}},
		{name: "Test case 4: missing config file", file: "does-not-exist.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--data-dir", t.TempDir()}, tt.args...)
			_, err := Load(viper.New(), newFlags(t, args...), tt.file)
			assert.Error(t, err)
		})
	}
}

func TestSolverProfiles(t *testing.T) {
	data := []byte(`
default:
  bracketSamples: 30
strict:
  degenerateChordPolicy: Undefined
  maxIterations: 200
broken:
  bracketSamples: 1
`)
	profiles, err := ParseSolverProfiles(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "strict"}, profiles.Names())

	def := profiles.GetProfile("")
	assert.Equal(t, 30, def.BracketSamples)
	assert.Equal(t, solverconfig.ChordPerturb, def.DegenerateChordPolicy)

	strict := profiles.GetProfile("strict")
	assert.Equal(t, 30, strict.BracketSamples)
	assert.Equal(t, 200, strict.MaxIterations)
	assert.Equal(t, solverconfig.ChordUndefined, strict.DegenerateChordPolicy)

	// Unknown profiles fall back to the default profile.
	assert.Equal(t, def, profiles.GetProfile("missing"))
}

func TestRunConfigSolverProfile(t *testing.T) {
	dir := t.TempDir()
	profilesFile := writeFile(t, dir, "profiles.yaml", "fine:\n  bracketSamples: 100\n")

	cfg := RunConfig{ProfilesFile: profilesFile, SolverProfile: "fine", Solver: solverconfig.SolverConfig{MaxIterations: 50}}
	solver, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, solver.BracketSamples)
	assert.Equal(t, 50, solver.MaxIterations)

	cfg.SolverProfile = "coarse"
	_, err = cfg.SolverConfig()
	assert.Error(t, err)

	_, err = RunConfig{SolverProfile: "fine"}.SolverConfig()
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.yaml", `apiVersion: extraction.llm-d.ai/v1alpha1
kind: ExtractionRun
metadata:
  name: sample
spec:
  datasets:
    raffinatePhase: fase_oleica.txt
    extractPhase: /data/fase_propano.txt
  feed: {mass: 100, x: 0.5}
  solvent:
    massFlow: 1500
    composition: {a: 0.018, b: 0.98, c: 0.002}
  stages: 2
  solver:
    zeroStagePolicy: Reject
`)
	run, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fase_oleica.txt"), run.Spec.Datasets.RaffinatePhase)
	assert.Equal(t, "/data/fase_propano.txt", run.Spec.Datasets.ExtractPhase)

	cfg := FromManifest(run, RunConfig{Output: OutputConfig{Format: FormatYAML}, DataDir: "ignored"})
	assert.Equal(t, 2, cfg.Stages)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, run.Spec.Datasets.RaffinatePhase, cfg.RaffinatePath())
	assert.Equal(t, SolventConfig{MassFlow: 1500, A: 0.018, B: 0.98, C: 0.002}, cfg.Solvent)
	assert.Equal(t, solverconfig.ZeroStageReject, cfg.Solver.ZeroStagePolicy)

	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, WriteManifest(out, run))
	back, err := LoadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, run.Spec.Feed, back.Spec.Feed)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{name: "Test case 1: wrong kind", manifest: "kind: Pod\nspec:\n  datasets: {raffinatePhase: a, extractPhase: b}\n"},
		{name: "Test case 2: wrong apiVersion", manifest: "apiVersion: v1\nspec:\n  datasets: {raffinatePhase: a, extractPhase: b}\n"},
		{name: "Test case 3: unknown field", manifest: "spec:\n  datasets: {raffinatePhase: a, extractPhase: b}\n  temperature: 40\n"},
		{name: "Test case 4: missing datasets", manifest: "spec:\n  stages: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.manifest))
			assert.Error(t, err)
		})
	}
}
