package config

import (
	"fmt"
	"math"
)

// Solver defaults.
const (
	// DefaultBracketSamples is the number of evenly spaced points scanned over
	// [0, 1] when searching for a tie-line bracket.
	DefaultBracketSamples = 20
	// DefaultXTolerance and DefaultRTolerance form the bisection stopping rule
	// |dm| < xtol + rtol*|xm|.
	DefaultXTolerance = 2e-12
	DefaultRTolerance = 4 * 2.220446049250313e-16
	// DefaultMaxIterations bounds the bisection loop.
	DefaultMaxIterations = 100
	// DefaultChordAbsTolerance and DefaultChordRelTolerance decide when the
	// two abscissae of a trial chord are numerically equal.
	DefaultChordAbsTolerance = 1e-8
	DefaultChordRelTolerance = 1e-5
	// DefaultChordPerturbation is added to the extract abscissa of a
	// zero-length chord under the Perturb policy.
	DefaultChordPerturbation = 1e-6
	// DefaultStages is the stage count used when none is given.
	DefaultStages = 4
)

// ChordPolicy selects how the residual treats a zero-length trial chord.
type ChordPolicy string

const (
	// ChordPerturb shifts the extract abscissa by ChordPerturbation. This is
	// a numerical heuristic, not a physical model.
	ChordPerturb ChordPolicy = "Perturb"
	// ChordUndefined makes the residual NaN at that point.
	ChordUndefined ChordPolicy = "Undefined"
)

// ZeroStagePolicy selects how a cascade with zero stages is treated.
type ZeroStagePolicy string

const (
	// ZeroStageEmpty returns no stage records and a zero composite result.
	ZeroStageEmpty ZeroStagePolicy = "Empty"
	// ZeroStageReject rejects a zero stage count as a configuration error.
	ZeroStageReject ZeroStagePolicy = "Reject"
)

// SolverConfig holds solver tunables. Zero values inherit defaults on Merge.
type SolverConfig struct {
	BracketSamples int     `yaml:"bracketSamples,omitempty" json:"bracketSamples,omitempty" mapstructure:"bracketSamples"`
	XTolerance     float64 `yaml:"xTolerance,omitempty" json:"xTolerance,omitempty" mapstructure:"xTolerance"`
	RTolerance     float64 `yaml:"rTolerance,omitempty" json:"rTolerance,omitempty" mapstructure:"rTolerance"`
	MaxIterations  int     `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty" mapstructure:"maxIterations"`

	ChordAbsTolerance float64 `yaml:"chordAbsTolerance,omitempty" json:"chordAbsTolerance,omitempty" mapstructure:"chordAbsTolerance"`
	ChordRelTolerance float64 `yaml:"chordRelTolerance,omitempty" json:"chordRelTolerance,omitempty" mapstructure:"chordRelTolerance"`
	ChordPerturbation float64 `yaml:"chordPerturbation,omitempty" json:"chordPerturbation,omitempty" mapstructure:"chordPerturbation"`

	DegenerateChordPolicy ChordPolicy     `yaml:"degenerateChordPolicy,omitempty" json:"degenerateChordPolicy,omitempty" mapstructure:"degenerateChordPolicy"`
	ZeroStagePolicy       ZeroStagePolicy `yaml:"zeroStagePolicy,omitempty" json:"zeroStagePolicy,omitempty" mapstructure:"zeroStagePolicy"`
}

// Defaults returns the default solver configuration.
func Defaults() SolverConfig {
	return SolverConfig{
		BracketSamples:        DefaultBracketSamples,
		XTolerance:            DefaultXTolerance,
		RTolerance:            DefaultRTolerance,
		MaxIterations:         DefaultMaxIterations,
		ChordAbsTolerance:     DefaultChordAbsTolerance,
		ChordRelTolerance:     DefaultChordRelTolerance,
		ChordPerturbation:     DefaultChordPerturbation,
		DegenerateChordPolicy: ChordPerturb,
		ZeroStagePolicy:       ZeroStageEmpty,
	}
}

// Merge returns c with every non-zero field of override applied.
func (c SolverConfig) Merge(override SolverConfig) SolverConfig {
	result := c
	if override.BracketSamples != 0 {
		result.BracketSamples = override.BracketSamples
	}
	if override.XTolerance != 0 {
		result.XTolerance = override.XTolerance
	}
	if override.RTolerance != 0 {
		result.RTolerance = override.RTolerance
	}
	if override.MaxIterations != 0 {
		result.MaxIterations = override.MaxIterations
	}
	if override.ChordAbsTolerance != 0 {
		result.ChordAbsTolerance = override.ChordAbsTolerance
	}
	if override.ChordRelTolerance != 0 {
		result.ChordRelTolerance = override.ChordRelTolerance
	}
	if override.ChordPerturbation != 0 {
		result.ChordPerturbation = override.ChordPerturbation
	}
	if override.DegenerateChordPolicy != "" {
		result.DegenerateChordPolicy = override.DegenerateChordPolicy
	}
	if override.ZeroStagePolicy != "" {
		result.ZeroStagePolicy = override.ZeroStagePolicy
	}
	return result
}

// Validate checks for invalid configuration values.
func (c SolverConfig) Validate() error {
	if c.BracketSamples < 2 {
		return fmt.Errorf("bracketSamples must be >= 2, got %d", c.BracketSamples)
	}
	if !positive(c.XTolerance) {
		return fmt.Errorf("xTolerance must be > 0, got %g", c.XTolerance)
	}
	if c.RTolerance < DefaultRTolerance || math.IsNaN(c.RTolerance) {
		return fmt.Errorf("rTolerance must be >= %g, got %g", DefaultRTolerance, c.RTolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.ChordAbsTolerance < 0 || c.ChordRelTolerance < 0 {
		return fmt.Errorf("chord tolerances must be >= 0, got abs=%g rel=%g", c.ChordAbsTolerance, c.ChordRelTolerance)
	}
	switch c.DegenerateChordPolicy {
	case ChordPerturb:
		if !positive(c.ChordPerturbation) {
			return fmt.Errorf("chordPerturbation must be > 0 with policy %s, got %g", ChordPerturb, c.ChordPerturbation)
		}
	case ChordUndefined:
	default:
		return fmt.Errorf("unsupported degenerateChordPolicy %q", c.DegenerateChordPolicy)
	}
	switch c.ZeroStagePolicy {
	case ZeroStageEmpty, ZeroStageReject:
	default:
		return fmt.Errorf("unsupported zeroStagePolicy %q", c.ZeroStagePolicy)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
