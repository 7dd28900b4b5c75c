// Package solver implements the staged equilibrium-solving algorithm of a
// cross-current liquid-liquid extraction.
//
// Key Components:
//
//   - Residual: the chord residual whose root is the operating tie-line
//   - TieLineSolver: bracket scan over [0, 1] followed by bisection
//   - Cascade: drives N sequential stages, feeding each raffinate forward
//   - Aggregate: mass-weighted composite of all stage extracts
//
// Solving Strategy:
//
// For each stage the solver:
//  1. Combines the incoming raffinate with the solvent into a mixture point
//  2. Scans evenly spaced raffinate fractions for a residual sign change
//  3. Refines the first bracket found by bisection
//  4. Splits the mixture along the tie-line with the inverse lever rule
//
// Example usage:
//
//	cascade, err := solver.NewCascade(diagram, solvent, config.Defaults())
//	if err != nil {
//	    return err
//	}
//	result, err := cascade.Run(ctx, feed, 4)
//	if err != nil {
//	    log.Error(err, "cascade failed")
//	    return err
//	}
//	for _, stage := range result.Stages {
//	    log.Info("stage",
//	        "stage", stage.Stage,
//	        "extractMass", stage.ExtractMass(),
//	        "raffinateX", stage.TieLine.Raffinate.X)
//	}
//
// The solver is designed to be:
//   - Sequential within a run: stage i+1 consumes the raffinate of stage i
//   - Deterministic: same inputs produce bit-identical outputs
//   - Fail-fast: any stage failure aborts the run with a typed error
//
// Independent runs may be executed concurrently; see package sweep.
package solver
