package curve

import (
	"fmt"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Curve names used in errors and exported diagram data.
const (
	RaffinateCurveName    = "raffinate"
	ExtractCurveName      = "extract"
	DistributionCurveName = "distribution"
)

// Diagram holds the equilibrium curves of one run. It is read-only after
// construction and may be shared between cascades.
type Diagram struct {
	// Raffinate maps the raffinate solute fraction X to its carrier ratio N.
	Raffinate *Curve
	// Extract maps the extract solute fraction Y to its carrier ratio N.
	Extract *Curve
	// Distribution maps X to the Y in equilibrium with it.
	Distribution *Curve
}

// NewDiagram derives the raffinate, extract and distribution curves from
// paired phase measurements. Measurement i of raffinatePhase is in
// equilibrium with measurement i of extractPhase.
func NewDiagram(raffinatePhase, extractPhase []core.Composition) (*Diagram, error) {
	if len(raffinatePhase) != len(extractPhase) {
		return nil, core.NewConfigurationError("diagram",
			"phase datasets must be paired: %d raffinate rows, %d extract rows", len(raffinatePhase), len(extractPhase))
	}
	xs, nr, err := carrierFree(RaffinateCurveName, raffinatePhase)
	if err != nil {
		return nil, err
	}
	ys, ne, err := carrierFree(ExtractCurveName, extractPhase)
	if err != nil {
		return nil, err
	}

	raffinate, err := New(RaffinateCurveName, xs, nr)
	if err != nil {
		return nil, err
	}
	extract, err := New(ExtractCurveName, ys, ne)
	if err != nil {
		return nil, err
	}
	distribution, err := New(DistributionCurveName, xs, ys)
	if err != nil {
		return nil, err
	}
	return &Diagram{Raffinate: raffinate, Extract: extract, Distribution: distribution}, nil
}

// NewDiagramFromCurves assembles a diagram from prebuilt curves.
func NewDiagramFromCurves(raffinate, extract, distribution *Curve) (*Diagram, error) {
	if raffinate == nil || extract == nil || distribution == nil {
		return nil, core.NewConfigurationError("diagram", "all three curves are required")
	}
	return &Diagram{Raffinate: raffinate, Extract: extract, Distribution: distribution}, nil
}

// ExtractCarrierAt returns the extract-branch carrier ratio in equilibrium
// with raffinate solute fraction x.
func (d *Diagram) ExtractCarrierAt(x float64) float64 {
	return d.Extract.Evaluate(d.Distribution.Evaluate(x))
}

// TieLineAt returns the equilibrium tie-line anchored at raffinate solute
// fraction x.
func (d *Diagram) TieLineAt(x float64) core.TieLine {
	y := d.Distribution.Evaluate(x)
	return core.TieLine{
		Raffinate: core.Point{X: x, N: d.Raffinate.Evaluate(x)},
		Extract:   core.Point{X: y, N: d.Extract.Evaluate(y)},
	}
}

func carrierFree(name string, phase []core.Composition) (fractions, carriers []float64, err error) {
	fractions = make([]float64, len(phase))
	carriers = make([]float64, len(phase))
	for i, c := range phase {
		if err := c.Validate(); err != nil {
			return nil, nil, core.NewConfigurationError(name, "%v", fmt.Errorf("row %d: %w", i+1, err))
		}
		fractions[i] = c.SoluteFraction()
		carriers[i] = c.CarrierRatio()
	}
	return fractions, carriers, nil
}
