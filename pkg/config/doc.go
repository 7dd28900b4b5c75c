// Package config provides the tunables of the staged equilibrium solver.
//
// SolverConfig controls the tie-line bracket search, the bisection stopping
// rule, the degenerate-chord heuristic and the zero-stage policy. Zero values
// mean "inherit the default", so partial configurations decoded from YAML or
// JSON can be merged onto Defaults():
//
//	cfg := config.Defaults().Merge(fromFile)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Validation covers:
//   - Numeric ranges (e.g. bracketSamples >= 2, tolerances > 0)
//   - Enumerations (degenerateChordPolicy, zeroStagePolicy)
package config
