package solver

import (
	"fmt"
	"time"

	"github.com/san-kum/spherevi/internal/mdp"
)

// Params is the reward and transition model of the MDP.
type Params struct {
	Rewards mdp.Rewards
	// Noise is the probability that the chosen action is replaced by one of
	// the six other outcomes, uniformly.
	Noise float64
	Gamma float64
	// Seed drives the random initial policy of non-terminal states.
	Seed int64
}

func DefaultParams() Params {
	return Params{
		Rewards: mdp.DefaultRewards(),
		Noise:   0,
		Gamma:   1,
	}
}

func (p Params) Validate() error {
	if p.Noise < 0 || p.Noise > 1 {
		return fmt.Errorf("%w: noise %g not in [0,1]", ErrInvalidParams, p.Noise)
	}
	if p.Gamma < 0 || p.Gamma > 1 {
		return fmt.Errorf("%w: gamma %g not in [0,1]", ErrInvalidParams, p.Gamma)
	}
	return nil
}

// Config controls termination of Run.
type Config struct {
	Sweeps int
	// Tolerance stops the run early once a sweep changes no value by more
	// than this amount. Zero always runs all Sweeps.
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{Sweeps: 100}
}

// Sweep describes one completed sweep. The slices alias solver buffers and
// are only valid until the next sweep starts.
type Sweep struct {
	Number        int
	Residual      float64
	PolicyChanges int
	Prev          []float64
	Values        []float64
	PrevPolicy    []mdp.Action
	Policy        []mdp.Action
}

type Metric interface {
	Name() string
	Observe(sw *Sweep)
	Value() float64
	Reset()
}

type Observer interface {
	OnSweep(sw *Sweep)
}

// Result is the final value function and policy of a run.
type Result struct {
	Values    []float64
	Policy    []mdp.Action
	Sweeps    int
	Converged bool
	Residuals []float64
	Metrics   map[string]float64
	Elapsed   time.Duration
}
