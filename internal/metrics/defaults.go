package metrics

import (
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

// Defaults returns the metrics attached to a run when none are requested.
func Defaults(labels *mdp.Labels) []solver.Metric {
	return []solver.Metric{
		NewResidual(),
		NewPolicyChurn(),
		NewMeanValue(labels),
	}
}
