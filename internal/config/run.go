package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llm-d/liquid-extraction/internal/dataset"
	solverconfig "github.com/llm-d/liquid-extraction/pkg/config"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LLX"

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Reference operating point used when nothing else is configured.
const (
	DefaultFeedMass        = 100.0
	DefaultFeedX           = 0.5
	DefaultFeedN           = 0.0
	DefaultSolventMassFlow = 1500.0
	DefaultSolventA        = 0.018
	DefaultSolventB        = 0.98
	DefaultSolventC        = 0.002
	DefaultHistoryFile     = "extraction-history.db"
)

// FeedConfig is the feed stream on a carrier-free basis.
type FeedConfig struct {
	Mass float64 `mapstructure:"mass" yaml:"mass" json:"mass"`
	X    float64 `mapstructure:"x" yaml:"x" json:"x"`
	N    float64 `mapstructure:"n" yaml:"n" json:"n"`
}

// SolventConfig is the solvent mass flow and raw composition.
type SolventConfig struct {
	MassFlow float64 `mapstructure:"massFlow" yaml:"massFlow" json:"massFlow"`
	A        float64 `mapstructure:"a" yaml:"a" json:"a"`
	B        float64 `mapstructure:"b" yaml:"b" json:"b"`
	C        float64 `mapstructure:"c" yaml:"c" json:"c"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	// Format is one of text, yaml or json.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// DiagramFile, when set, receives the sampled equilibrium curves.
	DiagramFile string `mapstructure:"diagramFile" yaml:"diagramFile,omitempty" json:"diagramFile,omitempty"`
	// MetricsFile, when set, receives Prometheus text metrics after the run.
	MetricsFile string `mapstructure:"metricsFile" yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"`
}

// HistoryConfig controls persistence of run records.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level" json:"level"`
	Development bool   `mapstructure:"development" yaml:"development" json:"development"`
}

// RunConfig is the fully layered configuration of a run.
type RunConfig struct {
	// DataDir is where the phase tables and the legacy parameters file live.
	DataDir        string `mapstructure:"dataDir" yaml:"dataDir" json:"dataDir"`
	RaffinateFile  string `mapstructure:"raffinateFile" yaml:"raffinateFile" json:"raffinateFile"`
	ExtractFile    string `mapstructure:"extractFile" yaml:"extractFile" json:"extractFile"`
	ParametersFile string `mapstructure:"parametersFile" yaml:"parametersFile" json:"parametersFile"`

	Feed    FeedConfig    `mapstructure:"feed" yaml:"feed" json:"feed"`
	Solvent SolventConfig `mapstructure:"solvent" yaml:"solvent" json:"solvent"`
	Stages  int           `mapstructure:"stages" yaml:"stages" json:"stages"`

	// Solver holds overrides; unset fields keep solver defaults.
	Solver        solverconfig.SolverConfig `mapstructure:"solver" yaml:"solver" json:"solver"`
	SolverProfile string                    `mapstructure:"solverProfile" yaml:"solverProfile,omitempty" json:"solverProfile,omitempty"`
	ProfilesFile  string                    `mapstructure:"profilesFile" yaml:"profilesFile,omitempty" json:"profilesFile,omitempty"`

	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	History HistoryConfig `mapstructure:"history" yaml:"history" json:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"data-dir":          "dataDir",
	"raffinate-file":    "raffinateFile",
	"extract-file":      "extractFile",
	"parameters-file":   "parametersFile",
	"feed-mass":         "feed.mass",
	"feed-x":            "feed.x",
	"feed-n":            "feed.n",
	"solvent-mass":      "solvent.massFlow",
	"solvent-a":         "solvent.a",
	"solvent-b":         "solvent.b",
	"solvent-c":         "solvent.c",
	"stages":            "stages",
	"bracket-samples":   "solver.bracketSamples",
	"max-iterations":    "solver.maxIterations",
	"chord-policy":      "solver.degenerateChordPolicy",
	"zero-stage-policy": "solver.zeroStagePolicy",
	"solver-profile":    "solverProfile",
	"profiles-file":     "profilesFile",
	"output":            "output.format",
	"diagram-file":      "output.diagramFile",
	"metrics-file":      "output.metricsFile",
	"history":           "history.enabled",
	"history-file":      "history.path",
	"log-level":         "log.level",
	"log-development":   "log.development",
}

var solverKeys = []string{
	"solver.bracketSamples",
	"solver.xTolerance",
	"solver.rTolerance",
	"solver.maxIterations",
	"solver.chordAbsTolerance",
	"solver.chordRelTolerance",
	"solver.chordPerturbation",
	"solver.degenerateChordPolicy",
	"solver.zeroStagePolicy",
	"solverProfile",
	"profilesFile",
}

// AddFlags registers the run flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("data-dir", ".", "directory holding the phase tables")
	fs.String("raffinate-file", dataset.DefaultRaffinateFile, "raffinate (oil-rich) phase table")
	fs.String("extract-file", dataset.DefaultExtractFile, "extract (propane-rich) phase table")
	fs.String("parameters-file", "", "legacy clave,valor parameters file (default: "+dataset.DefaultParametersFile+" in the data dir, if present)")
	fs.Float64("feed-mass", DefaultFeedMass, "carrier-free feed mass")
	fs.Float64("feed-x", DefaultFeedX, "feed solute fraction C/(A+C)")
	fs.Float64("feed-n", DefaultFeedN, "feed carrier ratio B/(A+C)")
	fs.Float64("solvent-mass", DefaultSolventMassFlow, "solvent mass per stage")
	fs.Float64("solvent-a", DefaultSolventA, "solvent oil fraction")
	fs.Float64("solvent-b", DefaultSolventB, "solvent propane fraction")
	fs.Float64("solvent-c", DefaultSolventC, "solvent oleic acid fraction")
	fs.IntP("stages", "n", solverconfig.DefaultStages, "number of equilibrium stages")
	// Solver flags default to zero so that unset flags do not mask profiles.
	fs.Int("bracket-samples", 0, fmt.Sprintf("grid points scanned for a tie-line bracket (solver default %d)", solverconfig.DefaultBracketSamples))
	fs.Int("max-iterations", 0, fmt.Sprintf("bisection iteration limit (solver default %d)", solverconfig.DefaultMaxIterations))
	fs.String("chord-policy", "", "zero-length chord policy: Perturb or Undefined (solver default Perturb)")
	fs.String("zero-stage-policy", "", "zero stage policy: Empty or Reject (solver default Empty)")
	fs.String("solver-profile", "", "named solver profile to apply")
	fs.String("profiles-file", "", "YAML file of named solver profiles")
	fs.StringP("output", "o", FormatText, "output format: text, yaml or json")
	fs.String("diagram-file", "", "write the sampled equilibrium diagram to this file")
	fs.String("metrics-file", "", "write Prometheus text metrics to this file")
	fs.Bool("history", false, "persist the run to the history database")
	fs.String("history-file", DefaultHistoryFile, "history database path")
	fs.String("log-level", "info", "log level: error, info, debug or trace")
	fs.Bool("log-development", false, "use human-friendly development logging")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataDir", ".")
	v.SetDefault("raffinateFile", dataset.DefaultRaffinateFile)
	v.SetDefault("extractFile", dataset.DefaultExtractFile)
	v.SetDefault("parametersFile", "")
	v.SetDefault("feed.mass", DefaultFeedMass)
	v.SetDefault("feed.x", DefaultFeedX)
	v.SetDefault("feed.n", DefaultFeedN)
	v.SetDefault("solvent.massFlow", DefaultSolventMassFlow)
	v.SetDefault("solvent.a", DefaultSolventA)
	v.SetDefault("solvent.b", DefaultSolventB)
	v.SetDefault("solvent.c", DefaultSolventC)
	v.SetDefault("stages", solverconfig.DefaultStages)
	v.SetDefault("output.format", FormatText)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", DefaultHistoryFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load layers defaults, the legacy parameters file, configFile (optional),
// environment and flags into a RunConfig. fs may be nil.
func Load(v *viper.Viper, fs *pflag.FlagSet, configFile string) (RunConfig, error) {
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return RunConfig{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without a default are invisible to Unmarshal unless bound.
	for _, key := range solverKeys {
		if err := v.BindEnv(key); err != nil {
			return RunConfig{}, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return RunConfig{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := applyParametersFile(v); err != nil {
		return RunConfig{}, err
	}

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// applyParametersFile installs the legacy parameter values as defaults, so
// that any configuration file, environment variable or flag still wins.
func applyParametersFile(v *viper.Viper) error {
	path := v.GetString("parametersFile")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(v.GetString("dataDir"), dataset.DefaultParametersFile)
	}
	p, err := dataset.LoadParameters(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	v.SetDefault("feed.mass", p.Feed.Mass)
	v.SetDefault("feed.x", p.Feed.X)
	v.SetDefault("feed.n", p.Feed.N)
	v.SetDefault("solvent.massFlow", p.SolventMass)
	v.SetDefault("solvent.a", p.SolventFraction.A)
	v.SetDefault("solvent.b", p.SolventFraction.B)
	v.SetDefault("solvent.c", p.SolventFraction.C)
	return nil
}

// Validate checks for invalid configuration values. Physical inputs are
// validated when the run is built.
func (c RunConfig) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	if c.Stages < 0 {
		return fmt.Errorf("stages must be >= 0, got %d", c.Stages)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// RaffinatePath returns the raffinate table path resolved against DataDir.
func (c RunConfig) RaffinatePath() string {
	return resolve(c.DataDir, c.RaffinateFile)
}

// ExtractPath returns the extract table path resolved against DataDir.
func (c RunConfig) ExtractPath() string {
	return resolve(c.DataDir, c.ExtractFile)
}

// SolverConfig returns the solver defaults merged with the configured
// profile and the explicit overrides.
func (c RunConfig) SolverConfig() (solverconfig.SolverConfig, error) {
	base := solverconfig.Defaults()
	if c.ProfilesFile != "" {
		profiles, err := LoadSolverProfiles(c.ProfilesFile)
		if err != nil {
			return solverconfig.SolverConfig{}, err
		}
		if c.SolverProfile != "" && !profiles.Has(c.SolverProfile) {
			return solverconfig.SolverConfig{}, fmt.Errorf("solver profile %q not found in %s", c.SolverProfile, c.ProfilesFile)
		}
		base = profiles.GetProfile(c.SolverProfile)
	} else if c.SolverProfile != "" {
		return solverconfig.SolverConfig{}, fmt.Errorf("solver profile %q requires a profiles file", c.SolverProfile)
	}
	return base.Merge(c.Solver), nil
}

func resolve(dir, file string) string {
	if file == "" || filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}
