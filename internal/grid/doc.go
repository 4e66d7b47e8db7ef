// Package grid discretizes the spherical state space into radial, azimuthal
// and polar axes.
//
// A [Grid] owns the flat layout of the state vector:
//
//	index = nr*ntheta*k + ntheta*i + j
//
// where i, j and k index the r, theta and phi axes. Callers go through
// [Grid.Index] and the neighbor methods and never compute offsets by hand.
//
// # Boundaries
//
// The azimuth and elevation axes are periodic: stepping past either end
// wraps to the opposite end. The radial axis is not periodic. Stepping down
// from the innermost shell stays in place, and stepping up from the outermost
// shell is clamped to the current cell.
package grid
