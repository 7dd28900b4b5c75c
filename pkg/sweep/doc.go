// Package sweep solves many cascade configurations over one equilibrium
// diagram concurrently.
//
// Each Case is an independent cascade run: a feed, a solvent and a stage
// count. Cases never share mutable state, so the Runner executes them on a
// bounded pool of goroutines and returns results in case order. A failing
// case is reported in its CaseResult and does not stop the other cases;
// only cancellation of the context ends a sweep early.
//
// Example usage:
//
//	runner, err := sweep.NewRunner(diagram, cfg, sweep.WithConcurrency(4))
//	if err != nil {
//	    return err
//	}
//	cases := sweep.Grid(base, []int{1, 2, 4, 8}, []float64{500, 1000, 1500})
//	results, err := runner.Run(ctx, cases)
package sweep
