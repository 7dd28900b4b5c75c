package curve

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Sample is one (u, v) pair of a curve.
type Sample struct {
	U float64 `json:"u" yaml:"u"`
	V float64 `json:"v" yaml:"v"`
}

// Curve is a piecewise-linear interpolant with linear extrapolation.
// It is safe for concurrent use.
type Curve struct {
	name string
	us   []float64
	vs   []float64
	pl   interp.PiecewiseLinear
}

// New builds a curve from parallel sample slices. Samples need not be
// sorted, but u values must be unique and at least two samples are required.
func New(name string, us, vs []float64) (*Curve, error) {
	if len(us) != len(vs) {
		return nil, core.NewConfigurationError(name, "sample length mismatch: %d u values, %d v values", len(us), len(vs))
	}
	if len(us) < 2 {
		return nil, core.NewConfigurationError(name, "at least 2 samples are required, got %d", len(us))
	}
	for i := range us {
		if math.IsNaN(us[i]) || math.IsInf(us[i], 0) || math.IsNaN(vs[i]) || math.IsInf(vs[i], 0) {
			return nil, core.NewConfigurationError(name, "sample %d is not finite: (%g, %g)", i, us[i], vs[i])
		}
	}

	sortedU := make([]float64, len(us))
	copy(sortedU, us)
	inds := make([]int, len(us))
	floats.Argsort(sortedU, inds)

	sortedV := make([]float64, len(vs))
	for i, j := range inds {
		sortedV[i] = vs[j]
	}
	for i := 1; i < len(sortedU); i++ {
		if sortedU[i] == sortedU[i-1] {
			return nil, core.NewConfigurationError(name, "duplicate sample at u=%g", sortedU[i])
		}
	}

	c := &Curve{name: name, us: sortedU, vs: sortedV}
	if err := c.pl.Fit(sortedU, sortedV); err != nil {
		return nil, core.NewConfigurationError(name, "fit failed: %v", err)
	}
	return c, nil
}

// FromSamples builds a curve from sample pairs.
func FromSamples(name string, samples []Sample) (*Curve, error) {
	us := make([]float64, len(samples))
	vs := make([]float64, len(samples))
	for i, s := range samples {
		us[i], vs[i] = s.U, s.V
	}
	return New(name, us, vs)
}

// Name returns the label the curve was built with.
func (c *Curve) Name() string {
	return c.name
}

// Evaluate returns the curve value at u.
func (c *Curve) Evaluate(u float64) float64 {
	n := len(c.us)
	switch {
	case u < c.us[0]:
		return c.vs[0] + (u-c.us[0])*c.slope(0)
	case u > c.us[n-1]:
		return c.vs[n-1] + (u-c.us[n-1])*c.slope(n-2)
	default:
		return c.pl.Predict(u)
	}
}

// Domain returns the smallest and largest sampled u.
func (c *Curve) Domain() (lo, hi float64) {
	return c.us[0], c.us[len(c.us)-1]
}

// Samples returns a copy of the samples ordered by u.
func (c *Curve) Samples() []Sample {
	out := make([]Sample, len(c.us))
	for i := range c.us {
		out[i] = Sample{U: c.us[i], V: c.vs[i]}
	}
	return out
}

func (c *Curve) slope(i int) float64 {
	return (c.vs[i+1] - c.vs[i]) / (c.us[i+1] - c.us[i])
}
