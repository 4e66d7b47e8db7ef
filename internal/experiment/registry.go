package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/metrics"
	"github.com/san-kum/spherevi/internal/solver"
)

type Registry struct {
	metrics map[string]func(*mdp.Labels) solver.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(*mdp.Labels) solver.Metric),
	}

	r.metrics["residual"] = func(*mdp.Labels) solver.Metric { return metrics.NewResidual() }
	r.metrics["policy_churn"] = func(*mdp.Labels) solver.Metric { return metrics.NewPolicyChurn() }
	r.metrics["mean_value"] = func(l *mdp.Labels) solver.Metric { return metrics.NewMeanValue(l) }

	return r
}

func (r *Registry) GetMetric(name string, labels *mdp.Labels) (solver.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(labels), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(labels *mdp.Labels) []solver.Metric {
	return metrics.Defaults(labels)
}
