package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
)

// Solver owns the value and policy buffers of one value-iteration run. It is
// not safe for concurrent use.
type Solver struct {
	grid   *grid.Grid
	labels *mdp.Labels
	params Params

	values     []float64
	policy     []mdp.Action
	prev       []float64
	prevPolicy []mdp.Action
	sweeps     int

	metrics   []Metric
	observers []Observer
}

// New allocates the buffers and applies the initial value and policy.
func New(g *grid.Grid, labels *mdp.Labels, p Params) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if labels.Len() != g.Size() {
		return nil, fmt.Errorf("%w: %d labels, %d states", ErrSizeMismatch, labels.Len(), g.Size())
	}

	s := &Solver{
		grid:       g,
		labels:     labels,
		params:     p,
		prev:       make([]float64, g.Size()),
		prevPolicy: make([]mdp.Action, g.Size()),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
	s.Reset()
	return s, nil
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Reset restores the initial value and policy and the sweep counter.
func (s *Solver) Reset() {
	s.values, s.policy = mdp.InitialState(s.labels, s.params.Rewards, s.params.Seed)
	s.sweeps = 0
}

func (s *Solver) Grid() *grid.Grid     { return s.grid }
func (s *Solver) Labels() *mdp.Labels  { return s.labels }
func (s *Solver) Params() Params       { return s.params }
func (s *Solver) Sweeps() int          { return s.sweeps }
func (s *Solver) Values() []float64    { return s.values }
func (s *Solver) Policy() []mdp.Action { return s.policy }

// Step performs one synchronous sweep over the whole grid.
func (s *Solver) Step() *Sweep {
	copy(s.prev, s.values)
	copy(s.prevPolicy, s.policy)

	sw := &Sweep{
		Number:     s.sweeps + 1,
		Prev:       s.prev,
		Values:     s.values,
		PrevPolicy: s.prevPolicy,
		Policy:     s.policy,
	}

	nr, ntheta, nphi := s.grid.Dims()
	var c Costs
	for k := 0; k < nphi; k++ {
		for i := 0; i < nr; i++ {
			for j := 0; j < ntheta; j++ {
				idx := s.grid.Index(i, j, k)
				if s.labels.IsTerminal(idx) {
					continue
				}

				c[0] = s.prev[idx]
				for n, nb := range s.grid.Neighbors(i, j, k) {
					c[n+1] = s.prev[nb]
				}

				v, a := Backup(&c, s.params)
				s.values[idx] = v
				s.policy[idx] = a

				if d := math.Abs(v - s.prev[idx]); d > sw.Residual {
					sw.Residual = d
				}
				if a != s.prevPolicy[idx] {
					sw.PolicyChanges++
				}
			}
		}
	}
	s.sweeps++

	if tracing() {
		for idx := range s.values {
			tracef("sweep %d %2d J=%3.1f U=%2d", sw.Number, idx, s.values[idx], int(s.policy[idx]))
		}
	}
	for _, m := range s.metrics {
		m.Observe(sw)
	}
	for _, obs := range s.observers {
		obs.OnSweep(sw)
	}
	return sw
}

// Run performs up to cfg.Sweeps sweeps, checking ctx between sweeps. A
// canceled run returns no result.
func (s *Solver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Residuals: make([]float64, 0, cfg.Sweeps),
		Metrics:   make(map[string]float64),
	}

	start := time.Now()
	for t := 0; t < cfg.Sweeps; t++ {
		select {
		case <-ctx.Done():
			opsf("run canceled after %d sweeps: %v", t, ctx.Err())
			return nil, ctx.Err()
		default:
		}

		sw := s.Step()
		result.Residuals = append(result.Residuals, sw.Residual)
		result.Sweeps++

		if cfg.Tolerance > 0 && sw.Residual <= cfg.Tolerance {
			result.Converged = true
			diagf("converged after %d sweeps (residual %g <= %g)", result.Sweeps, sw.Residual, cfg.Tolerance)
			break
		}
	}
	result.Elapsed = time.Since(start)

	result.Values = append([]float64(nil), s.values...)
	result.Policy = append([]mdp.Action(nil), s.policy...)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	diagf("%d sweeps over %d states in %v", result.Sweeps, s.grid.Size(), result.Elapsed)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Sweeps < 1 {
		return fmt.Errorf("%w: sweeps must be positive, got %d", ErrInvalidConfig, cfg.Sweeps)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return fmt.Errorf("%w: tolerance must be non-negative, got %g", ErrInvalidConfig, cfg.Tolerance)
	}
	return nil
}
