// Package config assembles the configuration of an extraction run.
//
// Settings are layered with viper, lowest precedence first:
//
//   - built-in defaults (4 stages, the reference feed and solvent)
//   - the legacy "clave,valor" parameters file, when present
//   - a YAML configuration file
//   - LLX_* environment variables (e.g. LLX_FEED_MASS, LLX_SOLVER_BRACKETSAMPLES)
//   - command-line flags
//
// A run can also be described by an ExtractionRun manifest (see api/v1alpha1),
// which LoadManifest turns into the same RunConfig.
//
// Named solver profiles can be kept in a separate YAML file. The "default"
// profile applies to every run and named profiles override it field by field.
//
// Example usage:
//
//	v := viper.New()
//	cfg, err := config.Load(v, cmd.Flags(), configFile)
//	if err != nil {
//	    return err
//	}
//	solverCfg := cfg.SolverConfig()
package config
