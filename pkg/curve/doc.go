// Package curve builds the empirical equilibrium curves of a ternary
// extraction diagram.
//
// A Curve is an immutable piecewise-linear model over sample pairs (u, v).
// Inside the sampled domain it interpolates between the bracketing samples;
// outside it extrapolates along the nearest edge segment. Evaluation never
// fails and never clamps.
//
// A Diagram derives the three curves a cascade needs from paired raffinate
// and extract phase measurements:
//
//   - Raffinate: X -> N on the raffinate (oil) branch
//   - Extract:   Y -> N on the extract (solvent) branch
//   - Distribution: X -> Y, pairing measurement i of both phases
//
// Example usage:
//
//	diagram, err := curve.NewDiagram(oilPhase, solventPhase)
//	if err != nil {
//	    return err
//	}
//	n := diagram.Raffinate.Evaluate(0.25)
//	y := diagram.Distribution.Evaluate(0.25)
package curve
