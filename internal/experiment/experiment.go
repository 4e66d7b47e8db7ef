package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

// ErrNotSetup is returned by Run before a successful Setup.
var ErrNotSetup = errors.New("experiment: not setup")

// Experiment wires a configuration into a grid, its labels and a solver.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	grid     *grid.Grid
	labels   *mdp.Labels
	solver   *solver.Solver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg.Clone(),
		registry: NewRegistry(),
	}
}

// Setup builds the grid, labels the terminal states and initializes the
// solver. Metric names refer to the registry; none selects the defaults.
func (e *Experiment) Setup(metricNames ...string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	r, theta, phi := e.cfg.GridSpecs()
	g, err := grid.Build(r, theta, phi)
	if err != nil {
		return fmt.Errorf("build grid: %w", err)
	}
	labels := mdp.Label(g)

	s, err := solver.New(g, labels, e.cfg.GetParams())
	if err != nil {
		return err
	}

	var metrics []solver.Metric
	if len(metricNames) == 0 {
		metrics = e.registry.DefaultMetrics(labels)
	} else {
		for _, name := range metricNames {
			m, err := e.registry.GetMetric(name, labels)
			if err != nil {
				return err
			}
			metrics = append(metrics, m)
		}
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}

	e.grid, e.labels, e.solver = g, labels, s

	nr, ntheta, nphi := g.Dims()
	diagf("grid %dx%dx%d, %d obstacles, %d goals", nr, ntheta, nphi, labels.CountObstacles(), labels.CountGoals())
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*solver.Result, error) {
	if e.solver == nil {
		return nil, ErrNotSetup
	}
	return e.solver.Run(ctx, e.cfg.GetRunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Grid() *grid.Grid { return e.grid }

func (e *Experiment) Labels() *mdp.Labels { return e.labels }

// GetSolver returns the underlying solver for adding observers
func (e *Experiment) GetSolver() *solver.Solver {
	return e.solver
}
