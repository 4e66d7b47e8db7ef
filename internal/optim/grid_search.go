package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/experiment"
)

// setters maps a searchable parameter name to the config field it sets.
var setters = map[string]func(*config.Config, float64){
	"noise":     func(c *config.Config, v float64) { c.Noise = v },
	"gamma":     func(c *config.Config, v float64) { c.Gamma = v },
	"move":      func(c *config.Config, v float64) { c.Rewards.Move = v },
	"goal":      func(c *config.Config, v float64) { c.Rewards.Goal = v },
	"obstacle":  func(c *config.Config, v float64) { c.Rewards.Obstacle = v },
	"initial":   func(c *config.Config, v float64) { c.Rewards.Initial = v },
	"tolerance": func(c *config.Config, v float64) { c.Tolerance = v },
}

func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trial is one evaluated point of the search.
type Trial struct {
	Params    map[string]float64
	Value     float64
	Sweeps    int
	Converged bool
}

// GridSearch evaluates every combination of parameter values on a base
// configuration and ranks the trials by one result metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64, maximize bool) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters and %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s (available: %v)", name, Params())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, maximize: maximize}, nil
}

// Search runs all trials and returns them best first. The metric "sweeps"
// ranks by sweeps executed; any other name is read from the result metrics.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) ([]Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &trials); err != nil {
		return nil, err
	}

	sort.SliceStable(trials, func(a, b int) bool {
		if g.maximize {
			return trials[a].Value > trials[b].Value
		}
		return trials[a].Value < trials[b].Value
	})
	return trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	trials *[]Trial,
) error {
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for name, v := range current {
			setters[name](cfg, v)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return fmt.Errorf("trial %v: %w", current, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val := float64(result.Sweeps)
		if metricName != "sweeps" {
			v, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("unknown metric: %s", metricName)
			}
			val = v
		}
		if math.IsNaN(val) {
			val = math.Inf(1)
			if g.maximize {
				val = math.Inf(-1)
			}
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*trials = append(*trials, Trial{Params: params, Value: val, Sweeps: result.Sweeps, Converged: result.Converged})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}
