package solver

import "errors"

var (
	// ErrInvalidParams indicates a noise or discount factor outside [0, 1].
	ErrInvalidParams = errors.New("solver: parameter out of valid bounds")

	// ErrInvalidConfig indicates a non-positive sweep count or negative tolerance.
	ErrInvalidConfig = errors.New("solver: invalid run configuration")

	// ErrSizeMismatch indicates labels that were built for a different grid.
	ErrSizeMismatch = errors.New("solver: labels do not match grid size")
)
