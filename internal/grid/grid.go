package grid

import (
	"fmt"
	"math"
)

// NumNeighbors is the number of directional neighbors of a cell.
const NumNeighbors = 6

// Grid is the immutable product of the r, theta and phi axes.
type Grid struct {
	R     Axis
	Theta Axis
	Phi   Axis

	nr, ntheta, nphi int
}

// New combines three axes into a grid. Axes built with NewAxis are always
// valid; a zero Axis is rejected.
func New(r, theta, phi Axis) (*Grid, error) {
	for _, a := range []Axis{r, theta, phi} {
		if a.Len() == 0 {
			return nil, &AxisError{Axis: a.Name, Step: a.Step, Min: a.Min, Max: a.Max, Wrapped: ErrInvalidResolution}
		}
	}

	nr, ntheta, nphi := r.Len(), theta.Len(), phi.Len()
	if ntheta > math.MaxInt/nr || nphi > math.MaxInt/(nr*ntheta) {
		return nil, fmt.Errorf("%w: %d x %d x %d", ErrGridTooLarge, nr, ntheta, nphi)
	}

	return &Grid{R: r, Theta: theta, Phi: phi, nr: nr, ntheta: ntheta, nphi: nphi}, nil
}

// Build is a convenience wrapper around NewAxis and New.
func Build(r, theta, phi Spec) (*Grid, error) {
	ra, err := NewAxis("r", r.Step, r.Min, r.Max)
	if err != nil {
		return nil, err
	}
	ta, err := NewAxis("theta", theta.Step, theta.Min, theta.Max)
	if err != nil {
		return nil, err
	}
	pa, err := NewAxis("phi", phi.Step, phi.Min, phi.Max)
	if err != nil {
		return nil, err
	}
	return New(ra, ta, pa)
}

// Spec is the resolution and range of an axis before discretization.
type Spec struct {
	Step float64
	Min  float64
	Max  float64
}

// Dims returns the cell counts (nr, ntheta, nphi).
func (g *Grid) Dims() (int, int, int) { return g.nr, g.ntheta, g.nphi }

// Size is the total number of states.
func (g *Grid) Size() int { return g.nr * g.ntheta * g.nphi }

// Index flattens (i, j, k) over (r, theta, phi).
func (g *Grid) Index(i, j, k int) int {
	return g.nr*g.ntheta*k + g.ntheta*i + j
}

// Coords is the inverse of Index.
func (g *Grid) Coords(idx int) (i, j, k int) {
	slab := g.nr * g.ntheta
	k = idx / slab
	rem := idx % slab
	return rem / g.ntheta, rem % g.ntheta, k
}

// Point returns the (r, theta, phi) coordinate values of a cell.
func (g *Grid) Point(i, j, k int) (r, theta, phi float64) {
	return g.R.Coords[i], g.Theta.Coords[j], g.Phi.Coords[k]
}

// RadialUp is the cell one shell further out. The outermost shell is clamped.
func (g *Grid) RadialUp(i, j, k int) int {
	if i == g.nr-1 {
		return g.Index(i, j, k)
	}
	return g.Index(i+1, j, k)
}

// RadialDown is the cell one shell further in. The innermost shell maps to
// itself.
func (g *Grid) RadialDown(i, j, k int) int {
	if i == 0 {
		return g.Index(i, j, k)
	}
	return g.Index(i-1, j, k)
}

func (g *Grid) AzimuthUp(i, j, k int) int {
	return g.Index(i, wrap(j+1, g.ntheta), k)
}

func (g *Grid) AzimuthDown(i, j, k int) int {
	return g.Index(i, wrap(j-1, g.ntheta), k)
}

func (g *Grid) ElevationUp(i, j, k int) int {
	return g.Index(i, j, wrap(k+1, g.nphi))
}

func (g *Grid) ElevationDown(i, j, k int) int {
	return g.Index(i, j, wrap(k-1, g.nphi))
}

// Neighbors returns the flat indices of the six neighbors in the order
// r+, r-, theta+, theta-, phi+, phi-.
func (g *Grid) Neighbors(i, j, k int) [NumNeighbors]int {
	return [NumNeighbors]int{
		g.RadialUp(i, j, k),
		g.RadialDown(i, j, k),
		g.AzimuthUp(i, j, k),
		g.AzimuthDown(i, j, k),
		g.ElevationUp(i, j, k),
		g.ElevationDown(i, j, k),
	}
}

func wrap(x, n int) int {
	switch {
	case x < 0:
		return n - 1
	case x >= n:
		return 0
	default:
		return x
	}
}
