package mdp

import "github.com/san-kum/spherevi/internal/grid"

// Labels holds the obstacle and goal masks of a grid. Both are read-only once
// Label returns.
type Labels struct {
	obstacle []bool
	goal     []bool
}

// NewLabels returns empty masks sized for g.
func NewLabels(g *grid.Grid) *Labels {
	return &Labels{
		obstacle: make([]bool, g.Size()),
		goal:     make([]bool, g.Size()),
	}
}

// Label builds both masks for g.
func Label(g *grid.Grid) *Labels {
	l := NewLabels(g)
	l.MarkObstacles(g)
	l.MarkGoals(g)
	return l
}

// MarkObstacles tags the outermost radial shell for every (theta, phi).
func (l *Labels) MarkObstacles(g *grid.Grid) {
	nr, ntheta, nphi := g.Dims()
	for j := 0; j < ntheta; j++ {
		for k := 0; k < nphi; k++ {
			l.obstacle[g.Index(nr-1, j, k)] = true
		}
	}
}

// MarkGoals tags the innermost shell wherever the theta and phi coordinate
// values are equal.
func (l *Labels) MarkGoals(g *grid.Grid) {
	theta, phi := g.Theta.Coords, g.Phi.Coords
	for j := range theta {
		for k := range phi {
			if theta[j] == phi[k] {
				l.goal[g.Index(0, j, k)] = true
			}
		}
	}
}

func (l *Labels) IsObstacle(idx int) bool { return l.obstacle[idx] }

func (l *Labels) IsGoal(idx int) bool { return l.goal[idx] }

func (l *Labels) IsTerminal(idx int) bool { return l.obstacle[idx] || l.goal[idx] }

func (l *Labels) SetObstacle(idx int) { l.obstacle[idx] = true }

func (l *Labels) SetGoal(idx int) { l.goal[idx] = true }

func (l *Labels) Len() int { return len(l.obstacle) }

func (l *Labels) CountObstacles() int { return count(l.obstacle) }

func (l *Labels) CountGoals() int { return count(l.goal) }

func count(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}
