package grid

import "math"

// Axis is one discretized dimension of the state space.
type Axis struct {
	Name   string
	Step   float64
	Min    float64
	Max    float64
	Coords []float64
}

// CellCount returns floor((max-min)/step) + 1. It returns
// ErrInvalidResolution when step < 1, step exceeds the span or either is not
// finite, and ErrGridTooLarge when the count does not fit in an int.
func CellCount(step, min, max float64) (int, error) {
	span := max - min
	if math.IsNaN(step) || math.IsNaN(span) || math.IsInf(step, 0) || math.IsInf(span, 0) || step < 1 || step > span {
		return 0, ErrInvalidResolution
	}
	cells := math.Floor(span / step)
	if cells >= float64(math.MaxInt-1) {
		return 0, ErrGridTooLarge
	}
	return int(cells) + 1, nil
}

// BuildAxis returns the n coordinates min, min+step, ..., min+(n-1)*step.
func BuildAxis(n int, step, min float64) []float64 {
	coords := make([]float64, n)
	for t := range coords {
		coords[t] = min + float64(t)*step
	}
	return coords
}

// NewAxis validates the resolution and builds the coordinate vector.
func NewAxis(name string, step, min, max float64) (Axis, error) {
	n, err := CellCount(step, min, max)
	if err != nil {
		return Axis{}, &AxisError{Axis: name, Step: step, Min: min, Max: max, Wrapped: err}
	}
	return Axis{
		Name:   name,
		Step:   step,
		Min:    min,
		Max:    max,
		Coords: BuildAxis(n, step, min),
	}, nil
}

// Len is the number of cells along the axis.
func (a Axis) Len() int { return len(a.Coords) }
