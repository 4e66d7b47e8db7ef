package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

// RenderSummary formats a finished run.
func RenderSummary(g *grid.Grid, labels *mdp.Labels, result *solver.Result) string {
	nr, ntheta, nphi := g.Dims()

	var s strings.Builder
	s.WriteString(headerStyle().Render("VALUE ITERATION") + "\n\n")
	s.WriteString(row("Grid", fmt.Sprintf("%d x %d x %d", nr, ntheta, nphi)))
	s.WriteString(row("States", fmt.Sprintf("%d", g.Size())))
	s.WriteString(row("Goals", fmt.Sprintf("%d", labels.CountGoals())))
	s.WriteString(row("Obstacles", fmt.Sprintf("%d", labels.CountObstacles())))
	s.WriteString(row("Sweeps", fmt.Sprintf("%d", result.Sweeps)))
	s.WriteString(row("Converged", fmt.Sprintf("%t", result.Converged)))
	s.WriteString(row("Elapsed", fmt.Sprintf("%.3f ms", float64(result.Elapsed.Microseconds())/1000)))
	if n := len(result.Residuals); n > 0 {
		s.WriteString(row("Residual", fmt.Sprintf("%.6g", result.Residuals[n-1])))
		s.WriteString(row("", SparklineChart(result.Residuals, 40)))
	}

	if len(result.Metrics) > 0 {
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		s.WriteString("\n" + headerStyle().Render("METRICS") + "\n")
		for _, name := range names {
			s.WriteString(row(name, fmt.Sprintf("%.6g", result.Metrics[name])))
		}
	}
	return panelStyle.Render(strings.TrimRight(s.String(), "\n"))
}

// RenderShell draws the policy of radial shell ring as glyphs, theta across
// and phi down. Axes longer than maxSize are sampled at an even stride.
func RenderShell(g *grid.Grid, labels *mdp.Labels, policy []mdp.Action, ring, maxSize int) string {
	_, ntheta, nphi := g.Dims()
	thetaStride := stride(ntheta, maxSize)
	phiStride := stride(nphi, maxSize)

	goal := lipgloss.NewStyle().Foreground(CurrentTheme.Goal).Bold(true)
	obstacle := lipgloss.NewStyle().Foreground(CurrentTheme.Obstacle)
	move := lipgloss.NewStyle().Foreground(CurrentTheme.Accent)

	var s strings.Builder
	for k := 0; k < nphi; k += phiStride {
		for j := 0; j < ntheta; j += thetaStride {
			idx := g.Index(ring, j, k)
			switch {
			case labels.IsGoal(idx):
				s.WriteString(goal.Render("G"))
			case labels.IsObstacle(idx):
				s.WriteString(obstacle.Render("#"))
			default:
				s.WriteString(move.Render(string(policy[idx].Glyph())))
			}
		}
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func stride(n, max int) int {
	if max <= 0 || n <= max {
		return 1
	}
	return (n + max - 1) / max
}
