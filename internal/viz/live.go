package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherevi/internal/solver"
)

const (
	historyCapacity = 600
	shellSize       = 48
	tickInterval    = time.Second / 30
)

type TickMsg time.Time

// Model drives a solver one sweep per tick and shows its progress.
type Model struct {
	solver    *solver.Solver
	cfg       solver.Config
	running   bool
	done      bool
	converged bool
	ring      int
	residuals []float64
	changes   int
	elapsed   time.Duration
}

func NewModel(s *solver.Solver, cfg solver.Config) Model {
	return Model{
		solver:    s,
		cfg:       cfg,
		running:   true,
		residuals: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.running = !m.running
			}
		case "s":
			if !m.running && !m.done {
				m.step()
			}
		case "r":
			m.reset()
		case "[":
			if m.ring > 0 {
				m.ring--
			}
		case "]":
			if nr, _, _ := m.solver.Grid().Dims(); m.ring < nr-1 {
				m.ring++
			}
		case "t":
			nextTheme()
		}
	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step performs one sweep and applies the run's stopping rules.
func (m *Model) step() {
	start := time.Now()
	sw := m.solver.Step()
	m.elapsed += time.Since(start)

	m.changes = sw.PolicyChanges
	m.residuals = append(m.residuals, sw.Residual)
	if len(m.residuals) > historyCapacity {
		m.residuals = m.residuals[1:]
	}

	if m.cfg.Tolerance > 0 && sw.Residual <= m.cfg.Tolerance {
		m.converged = true
		m.done = true
	}
	if m.solver.Sweeps() >= m.cfg.Sweeps {
		m.done = true
	}
	if m.done {
		m.running = false
	}
}

func (m *Model) reset() {
	m.solver.Reset()
	m.residuals = m.residuals[:0]
	m.changes = 0
	m.elapsed = 0
	m.done = false
	m.converged = false
	m.running = true
}

func (m Model) Sweeps() int { return m.solver.Sweeps() }

func (m Model) Done() bool { return m.done }

func (m Model) View() string {
	g := m.solver.Grid()
	nr, ntheta, nphi := g.Dims()

	status := "RUNNING"
	switch {
	case m.converged:
		status = "CONVERGED"
	case m.done:
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render("SPHERICAL VALUE ITERATION") + "\n")
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")
	s.WriteString(ProgressBar(float64(m.solver.Sweeps())/float64(m.cfg.Sweeps), 30) + "\n\n")
	s.WriteString(row("Grid", fmt.Sprintf("%dx%dx%d", nr, ntheta, nphi)))
	s.WriteString(row("Sweep", fmt.Sprintf("%d / %d", m.solver.Sweeps(), m.cfg.Sweeps)))
	residual := 0.0
	if n := len(m.residuals); n > 0 {
		residual = m.residuals[n-1]
	}
	s.WriteString(row("Residual", fmt.Sprintf("%.6g", residual)))
	s.WriteString(row("Policy churn", fmt.Sprintf("%d", m.changes)))
	s.WriteString(row("Elapsed", fmt.Sprintf("%.1f ms", float64(m.elapsed.Microseconds())/1000)))
	if len(m.residuals) > 1 {
		chart := asciigraph.Plot(m.residuals, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("Residual"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle().Render("SP:Pause S:Step R:Reset\n[ ]:Shell T:Theme Q:Quit"))
	statsView := statsStyle.Render(s.String())

	shellHeader := headerStyle().Render(fmt.Sprintf("r = %g", g.R.Coords[m.ring]))
	shell := RenderShell(g, m.solver.Labels(), m.solver.Policy(), m.ring, shellSize)
	shellView := panelStyle.Render(shellHeader + "\n" + shell)

	return lipgloss.JoinHorizontal(lipgloss.Top, shellView, statsView)
}
