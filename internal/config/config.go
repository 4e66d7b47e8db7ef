package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRadialStep  = 1.0
	DefaultRadialMax   = 10.0
	DefaultAngularStep = 1.0
	DefaultAngularMax  = 360.0
	DefaultGoal        = 100.0
	DefaultObstacle    = -100.0
	DefaultMove        = -1.0
	DefaultGamma       = 1.0
	DefaultSweeps      = 100
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Grid      GridConfig   `yaml:"grid"`
	Rewards   RewardConfig `yaml:"rewards"`
	Noise     float64      `yaml:"noise"`
	Gamma     float64      `yaml:"gamma"`
	Sweeps    int          `yaml:"sweeps"`
	Tolerance float64      `yaml:"tolerance"`
	Seed      int64        `yaml:"seed"`
}

type GridConfig struct {
	R     AxisConfig `yaml:"r"`
	Theta AxisConfig `yaml:"theta"`
	Phi   AxisConfig `yaml:"phi"`
}

type AxisConfig struct {
	Step float64 `yaml:"step"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

type RewardConfig struct {
	Goal     float64 `yaml:"goal"`
	Obstacle float64 `yaml:"obstacle"`
	Move     float64 `yaml:"move"`
	Initial  float64 `yaml:"initial"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			R:     AxisConfig{Step: DefaultRadialStep, Min: 0, Max: DefaultRadialMax},
			Theta: AxisConfig{Step: DefaultAngularStep, Min: 0, Max: DefaultAngularMax},
			Phi:   AxisConfig{Step: DefaultAngularStep, Min: 0, Max: DefaultAngularMax},
		},
		Rewards: RewardConfig{
			Goal:     DefaultGoal,
			Obstacle: DefaultObstacle,
			Move:     DefaultMove,
		},
		Gamma:  DefaultGamma,
		Sweeps: DefaultSweeps,
	}
}

func Load(path string) (*Config, error) {
	return LoadWithBase(path, DefaultConfig())
}

// LoadWithBase reads path over a copy of base, so fields missing from the
// file keep the base values.
func LoadWithBase(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks the solver settings. Axis resolutions are checked by the
// grid builder, which knows which axis failed.
func (c *Config) Validate() error {
	if math.IsNaN(c.Noise) || c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("%w: noise %g not in [0,1]", ErrInvalidConfig, c.Noise)
	}
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("%w: gamma %g not in [0,1]", ErrInvalidConfig, c.Gamma)
	}
	if c.Sweeps < 1 {
		return fmt.Errorf("%w: sweeps must be at least 1, got %d", ErrInvalidConfig, c.Sweeps)
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %g is negative", ErrInvalidConfig, c.Tolerance)
	}
	return nil
}

func (c *Config) GridSpecs() (r, theta, phi grid.Spec) {
	return c.Grid.R.spec(), c.Grid.Theta.spec(), c.Grid.Phi.spec()
}

func (a AxisConfig) spec() grid.Spec {
	return grid.Spec{Step: a.Step, Min: a.Min, Max: a.Max}
}

func (c *Config) GetParams() solver.Params {
	return solver.Params{
		Rewards: mdp.Rewards{
			Goal:     c.Rewards.Goal,
			Obstacle: c.Rewards.Obstacle,
			Move:     c.Rewards.Move,
			Initial:  c.Rewards.Initial,
		},
		Noise: c.Noise,
		Gamma: c.Gamma,
		Seed:  c.Seed,
	}
}

func (c *Config) GetRunConfig() solver.Config {
	return solver.Config{Sweeps: c.Sweeps, Tolerance: c.Tolerance}
}
