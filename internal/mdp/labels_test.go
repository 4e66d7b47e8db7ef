package mdp

import (
	"testing"

	"github.com/san-kum/spherevi/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrid(t *testing.T, r, theta, phi grid.Spec) *grid.Grid {
	t.Helper()
	g, err := grid.Build(r, theta, phi)
	require.NoError(t, err)
	return g
}

func TestMarkObstacles(t *testing.T) {
	g := buildGrid(t, grid.Spec{Step: 1, Max: 4}, grid.Spec{Step: 30, Max: 330}, grid.Spec{Step: 45, Max: 315})
	l := Label(g)

	nr, ntheta, nphi := g.Dims()
	assert.Equal(t, ntheta*nphi, l.CountObstacles())

	for idx := 0; idx < g.Size(); idx++ {
		i, _, _ := g.Coords(idx)
		assert.Equal(t, i == nr-1, l.IsObstacle(idx), "index %d", idx)
	}
}

func TestMarkGoalsDiagonal(t *testing.T) {
	axis := grid.Spec{Step: 10, Max: 360}
	g := buildGrid(t, grid.Spec{Step: 1, Max: 10}, axis, axis)
	l := Label(g)

	_, ntheta, nphi := g.Dims()
	assert.Equal(t, min(ntheta, nphi), l.CountGoals())

	for idx := 0; idx < g.Size(); idx++ {
		i, j, k := g.Coords(idx)
		_, theta, phi := g.Point(i, j, k)
		assert.Equal(t, i == 0 && theta == phi, l.IsGoal(idx), "index %d", idx)
	}
}

func TestMarkGoalsComparesCoordinateValues(t *testing.T) {
	// theta = {0, 90, 180, 270}, phi = {90, 180, 270, 360}: equal values sit at
	// different indices.
	g := buildGrid(t, grid.Spec{Step: 1, Max: 2}, grid.Spec{Step: 90, Max: 270}, grid.Spec{Step: 90, Min: 90, Max: 360})
	l := Label(g)

	assert.Equal(t, 3, l.CountGoals())
	assert.True(t, l.IsGoal(g.Index(0, 1, 0)))
	assert.True(t, l.IsGoal(g.Index(0, 2, 1)))
	assert.True(t, l.IsGoal(g.Index(0, 3, 2)))
	assert.False(t, l.IsGoal(g.Index(0, 0, 0)))
}

func TestLabelsTerminal(t *testing.T) {
	g := buildGrid(t, grid.Spec{Step: 1, Max: 2}, grid.Spec{Step: 90, Max: 270}, grid.Spec{Step: 90, Max: 270})
	l := Label(g)

	assert.True(t, l.IsTerminal(g.Index(2, 1, 3)))
	assert.True(t, l.IsTerminal(g.Index(0, 1, 1)))
	assert.False(t, l.IsTerminal(g.Index(1, 1, 1)))
	assert.False(t, l.IsTerminal(g.Index(0, 1, 2)))
}
