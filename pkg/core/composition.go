package core

import (
	"fmt"
	"math"
)

// CompositionSumTolerance bounds |A+B+C-1| for a composition to be accepted.
const CompositionSumTolerance = 1e-3

// Composition is a three-component mass-fraction triple as measured.
type Composition struct {
	// A is the carrier-free raffinate component (oil).
	A float64 `json:"a" yaml:"a"`
	// B is the carrier solvent (propane).
	B float64 `json:"b" yaml:"b"`
	// C is the solute (oleic acid).
	C float64 `json:"c" yaml:"c"`
}

// Sum returns A+B+C.
func (c Composition) Sum() float64 {
	return c.A + c.B + c.C
}

// SoluteFraction returns C/(A+C), the solute fraction on a carrier-free basis.
func (c Composition) SoluteFraction() float64 {
	return c.C / (c.A + c.C)
}

// CarrierRatio returns B/(A+C), the carrier mass per unit carrier-free mass.
func (c Composition) CarrierRatio() float64 {
	return c.B / (c.A + c.C)
}

// Validate checks that the fractions are finite, non-negative and leave a
// non-zero carrier-free part.
func (c Composition) Validate() error {
	for _, v := range []float64{c.A, c.B, c.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("fractions must be finite, got %+v", c)
		}
		if v < 0 {
			return fmt.Errorf("fractions must be >= 0, got %+v", c)
		}
	}
	if c.A+c.C <= 0 {
		return fmt.Errorf("carrier-free fraction A+C must be > 0, got %+v", c)
	}
	return nil
}
