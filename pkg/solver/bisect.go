package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotBracketed is returned when f(a) and f(b) share a sign.
	ErrNotBracketed = errors.New("f(a) and f(b) must have different signs")
	// ErrNotConverged is returned when the iteration limit is reached.
	ErrNotConverged = errors.New("bisection did not converge")
)

// BisectOptions is the stopping rule of Bisect.
type BisectOptions struct {
	XTolerance    float64
	RTolerance    float64
	MaxIterations int
}

// Bisect finds a root of f in [a, b]. It stops once the half-width dm
// satisfies |dm| < XTolerance + RTolerance*|xm| or f(xm) is exactly zero.
// It returns the root and the number of iterations used.
func Bisect(f func(float64) float64, a, b float64, opts BisectOptions) (float64, int, error) {
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return math.NaN(), 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, a, fa, b, fb)
	}
	if fa*fb > 0 {
		return math.NaN(), 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, a, fa, b, fb)
	}
	if fa == 0 {
		return a, 0, nil
	}
	if fb == 0 {
		return b, 0, nil
	}

	dm := b - a
	for i := 1; i <= opts.MaxIterations; i++ {
		dm *= 0.5
		xm := a + dm
		fm := f(xm)
		if fm*fa >= 0 {
			a = xm
		}
		if fm == 0 || math.Abs(dm) < opts.XTolerance+opts.RTolerance*math.Abs(xm) {
			return xm, i, nil
		}
	}
	return math.NaN(), opts.MaxIterations, fmt.Errorf("%w after %d iterations", ErrNotConverged, opts.MaxIterations)
}
