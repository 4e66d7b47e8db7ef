package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResolution indicates a step below 1 or larger than the axis span.
	ErrInvalidResolution = errors.New("grid: value of resolution or dimension is invalid")

	// ErrGridTooLarge indicates an axis or state count that does not fit in an int.
	ErrGridTooLarge = errors.New("grid: state count overflows")
)

// AxisError ties a construction failure to the axis that caused it.
type AxisError struct {
	Axis    string
	Step    float64
	Min     float64
	Max     float64
	Wrapped error
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("axis %s (step=%g, range=[%g,%g]): %v", e.Axis, e.Step, e.Min, e.Max, e.Wrapped)
}

func (e *AxisError) Unwrap() error {
	return e.Wrapped
}
