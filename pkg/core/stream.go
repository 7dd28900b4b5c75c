package core

import (
	"math"
)

// Stream is a feed or raffinate stream entering a stage.
// Mass is carrier-free; X is the solute fraction and N the carrier ratio.
type Stream struct {
	Mass float64 `json:"mass" yaml:"mass"`
	X    float64 `json:"x" yaml:"x"`
	N    float64 `json:"n" yaml:"n"`
}

// NewStream validates and returns a Stream.
func NewStream(mass, x, n float64) (Stream, error) {
	if !finite(mass) || mass <= 0 {
		return Stream{}, NewConfigurationError("stream.mass", "must be > 0, got %g", mass)
	}
	if !finite(x) || x < 0 || x > 1 {
		return Stream{}, NewConfigurationError("stream.x", "must be within [0, 1], got %g", x)
	}
	if !finite(n) || n < 0 {
		return Stream{}, NewConfigurationError("stream.n", "must be >= 0, got %g", n)
	}
	return Stream{Mass: mass, X: x, N: n}, nil
}

// SolventSpec is the solvent as specified: a mass flow and a raw composition.
type SolventSpec struct {
	MassFlow    float64     `json:"massFlow" yaml:"massFlow"`
	Composition Composition `json:"composition" yaml:"composition"`
}

// NewSolventSpec validates a solvent mass flow and composition. The
// composition must sum to one within CompositionSumTolerance.
func NewSolventSpec(massFlow float64, comp Composition) (SolventSpec, error) {
	if !finite(massFlow) || massFlow <= 0 {
		return SolventSpec{}, NewConfigurationError("solvent.massFlow", "must be > 0, got %g", massFlow)
	}
	if err := comp.Validate(); err != nil {
		return SolventSpec{}, NewConfigurationError("solvent.composition", "%v", err)
	}
	if sum := comp.Sum(); math.Abs(sum-1) >= CompositionSumTolerance {
		return SolventSpec{}, NewConfigurationError("solvent.composition",
			"fractions must sum to 1 within %g, got %g", CompositionSumTolerance, sum)
	}
	return SolventSpec{MassFlow: massFlow, Composition: comp}, nil
}

// Effective converts the solvent into the carrier-free representation
// used by every stage.
func (s SolventSpec) Effective() EffectiveSolvent {
	return EffectiveSolvent{
		Mass: s.MassFlow,
		Ys:   s.Composition.SoluteFraction(),
		Ns:   s.Composition.CarrierRatio(),
	}
}

// EffectiveSolvent is the solvent on a carrier-free basis. It is constant
// across all stages of a cascade.
type EffectiveSolvent struct {
	// Mass is the total solvent mass, carrier included.
	Mass float64 `json:"mass" yaml:"mass"`
	// Ys is the solute fraction on a carrier-free basis.
	Ys float64 `json:"ys" yaml:"ys"`
	// Ns is the carrier ratio.
	Ns float64 `json:"ns" yaml:"ns"`
}

// NewEffectiveSolvent builds an EffectiveSolvent from precomputed ratios.
func NewEffectiveSolvent(mass, ys, ns float64) (EffectiveSolvent, error) {
	if !finite(mass) || mass <= 0 {
		return EffectiveSolvent{}, NewConfigurationError("solvent.mass", "must be > 0, got %g", mass)
	}
	if !finite(ys) || ys < 0 || ys > 1 {
		return EffectiveSolvent{}, NewConfigurationError("solvent.ys", "must be within [0, 1], got %g", ys)
	}
	if !finite(ns) || ns < 0 {
		return EffectiveSolvent{}, NewConfigurationError("solvent.ns", "must be >= 0, got %g", ns)
	}
	return EffectiveSolvent{Mass: mass, Ys: ys, Ns: ns}, nil
}

// CarrierFreeMass returns s' = Mass/(1+Ns).
func (s EffectiveSolvent) CarrierFreeMass() float64 {
	return s.Mass / (1 + s.Ns)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
