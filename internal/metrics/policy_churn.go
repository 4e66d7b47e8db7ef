package metrics

import "github.com/san-kum/spherevi/internal/solver"

// PolicyChurn is the fraction of states whose greedy action changed in the
// latest sweep.
type PolicyChurn struct {
	name string
	last float64
}

func NewPolicyChurn() *PolicyChurn {
	return &PolicyChurn{name: "policy_churn"}
}

func (p *PolicyChurn) Name() string {
	return p.name
}

func (p *PolicyChurn) Observe(sw *solver.Sweep) {
	if len(sw.Policy) == 0 {
		p.last = 0
		return
	}
	p.last = float64(sw.PolicyChanges) / float64(len(sw.Policy))
}

func (p *PolicyChurn) Value() float64 {
	return p.last
}

func (p *PolicyChurn) Reset() {
	p.last = 0
}
