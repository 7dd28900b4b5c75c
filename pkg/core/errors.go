package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrRootNotFound is matched by every *RootNotFoundError.
	ErrRootNotFound = errors.New("tie-line root not found")
	// ErrDegenerateBalance is matched by every *DegenerateBalanceError.
	ErrDegenerateBalance = errors.New("degenerate stage balance")
	// ErrAggregation is matched by every *AggregationError.
	ErrAggregation = errors.New("composite aggregation failed")
)

// ConfigurationError reports input that is rejected before any stage runs.
type ConfigurationError struct {
	// Field names the offending input, e.g. "solvent.composition".
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError formats a ConfigurationError for field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RootNotFoundError reports that no operating tie-line could be located.
// A and B hold the last bracket tried.
type RootNotFoundError struct {
	// Stage is the 1-based stage index; zero when raised outside a cascade.
	Stage int
	A, B  float64
	Cause error
}

func (e *RootNotFoundError) Error() string {
	msg := fmt.Sprintf("%s in [%g, %g]", ErrRootNotFound, e.A, e.B)
	if e.Stage > 0 {
		msg = fmt.Sprintf("stage %d: %s", e.Stage, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RootNotFoundError) Is(target error) bool { return target == ErrRootNotFound }

func (e *RootNotFoundError) Unwrap() error { return e.Cause }

// DegenerateBalanceError reports a tie-line or lever-rule split that cannot
// produce physical streams.
type DegenerateBalanceError struct {
	Stage  int
	Reason string
}

func (e *DegenerateBalanceError) Error() string {
	if e.Stage > 0 {
		return fmt.Sprintf("stage %d: %s: %s", e.Stage, ErrDegenerateBalance, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrDegenerateBalance, e.Reason)
}

func (e *DegenerateBalanceError) Is(target error) bool { return target == ErrDegenerateBalance }

// AggregationError reports that stage extracts cannot be combined.
type AggregationError struct {
	Reason string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAggregation, e.Reason)
}

func (e *AggregationError) Is(target error) bool { return target == ErrAggregation }

// WithStage returns err annotated with a 1-based stage index when err is a
// stage-scoped error that does not carry one yet. Other errors are returned
// unchanged.
func WithStage(err error, stage int) error {
	var rnf *RootNotFoundError
	if errors.As(err, &rnf) && rnf.Stage == 0 {
		cp := *rnf
		cp.Stage = stage
		return &cp
	}
	var deg *DegenerateBalanceError
	if errors.As(err, &deg) && deg.Stage == 0 {
		cp := *deg
		cp.Stage = stage
		return &cp
	}
	return err
}
