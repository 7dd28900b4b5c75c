// Package core provides the value types and mass-balance rules of a staged
// cross-current liquid-liquid extraction.
//
// The ternary system is described by three components:
//
//   - A: the carrier-free raffinate component (oil)
//   - B: the carrier solvent (propane)
//   - C: the solute (oleic acid)
//
// Compositions are carried on a carrier-free ("prime") basis: the solute
// fraction X = C/(A+C) and the carrier ratio N = B/(A+C).
//
// This package contains the domain models shared by the curve and solver
// packages:
//
//   - Composition: a raw (A, B, C) mass-fraction triple
//   - Stream: a feed or raffinate stream entering a stage
//   - SolventSpec / EffectiveSolvent: the solvent as specified and as used
//   - MixturePoint: feed and solvent combined inside one stage
//   - TieLine: the two equilibrium points that bracket the mixture
//   - Balance: the lever-rule split of a mixture along its tie-line
//   - StageRecord / CompositeResult: per-stage and overall outputs
//
// Example usage:
//
//	feed, err := core.NewStream(100, 0.5, 0)
//	if err != nil {
//	    return err
//	}
//	spec, err := core.NewSolventSpec(1500, core.Composition{A: 0.018, B: 0.98, C: 0.002})
//	if err != nil {
//	    return err
//	}
//	mixture, err := core.ComputeMixture(feed, spec.Effective())
//	if err != nil {
//	    return err
//	}
//
//	// tieLine comes from solver.TieLineSolver
//	balance, err := core.Split(mixture, tieLine)
//
// The core package is designed to be:
//   - Immutable (value types, validated at construction)
//   - Independent of curve storage and of the root-finding strategy
//   - Explicit about failures (typed errors matching package sentinels)
package core
