package core

import (
	"fmt"
	"math"
)

// DegenerateWidthTolerance is the smallest |Y-X| accepted as a tie-line width
// in the lever rule.
const DegenerateWidthTolerance = 1e-12

// Point is an equilibrium point on the carrier-free diagram: a solute
// fraction (X on the raffinate branch, Y on the extract branch) and its
// carrier ratio.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	N float64 `json:"n" yaml:"n"`
}

// TieLine joins the raffinate and extract equilibrium points of one stage.
type TieLine struct {
	Raffinate Point `json:"raffinate" yaml:"raffinate"`
	Extract   Point `json:"extract" yaml:"extract"`
}

// Width returns Y-X along the solute axis.
func (t TieLine) Width() float64 {
	return t.Extract.X - t.Raffinate.X
}

// Balance is the lever-rule split of a mixture along its tie-line.
type Balance struct {
	// RaffinatePrimeMass and ExtractPrimeMass are carrier-free masses.
	RaffinatePrimeMass float64 `json:"raffinatePrimeMass" yaml:"raffinatePrimeMass"`
	ExtractPrimeMass   float64 `json:"extractPrimeMass" yaml:"extractPrimeMass"`
	// ExtractMass includes the carrier: ExtractPrimeMass*(1+Ne).
	ExtractMass float64 `json:"extractMass" yaml:"extractMass"`
	// Raffinate is the stream fed to the next stage.
	Raffinate Stream `json:"raffinate" yaml:"raffinate"`
}

// Split applies the inverse lever rule to a mixture and its tie-line.
// The mixture solute fraction must lie between the tie-line endpoints.
func Split(m MixturePoint, tl TieLine) (Balance, error) {
	x, y := tl.Raffinate.X, tl.Extract.X
	width := y - x
	if !finite(width) || math.Abs(width) < DegenerateWidthTolerance {
		return Balance{}, &DegenerateBalanceError{
			Reason: fmt.Sprintf("tie-line endpoints coincide (X=%g, Y=%g)", x, y),
		}
	}
	rPrime := m.Mass * (y - m.X) / width
	ePrime := m.Mass * (m.X - x) / width
	eMass := ePrime * (1 + tl.Extract.N)

	for _, v := range []struct {
		name  string
		value float64
	}{
		{"raffinate carrier-free mass", rPrime},
		{"extract carrier-free mass", ePrime},
		{"extract mass", eMass},
	} {
		if !finite(v.value) || v.value < 0 {
			return Balance{}, &DegenerateBalanceError{
				Reason: fmt.Sprintf("%s is %g; mixture X=%g lies outside tie-line [%g, %g]", v.name, v.value, m.X, x, y),
			}
		}
	}

	raffinate, err := NewStream(rPrime, x, tl.Raffinate.N)
	if err != nil {
		return Balance{}, &DegenerateBalanceError{
			Reason: fmt.Sprintf("raffinate stream is not physical: %v", err),
		}
	}
	return Balance{
		RaffinatePrimeMass: rPrime,
		ExtractPrimeMass:   ePrime,
		ExtractMass:        eMass,
		Raffinate:          raffinate,
	}, nil
}
