package solver

import (
	"github.com/san-kum/spherevi/internal/mdp"
	"gonum.org/v1/gonum/floats"
)

// Costs holds the previous-sweep values seen by each action: the state's own
// value followed by its six neighbors in action order.
type Costs [mdp.NumActions]float64

// ExpectedCosts evaluates every action under the noisy-actuator model. With
// probability 1-noise the action succeeds; otherwise one of the other six
// outcomes happens with equal probability.
func ExpectedCosts(c *Costs, p Params) Costs {
	total := floats.Sum(c[:])
	slip := p.Noise / float64(mdp.NumActions-1)

	var q Costs
	for n := range c {
		q[n] = p.Rewards.Move + p.Gamma*((1-p.Noise)*c[n]+slip*(total-c[n]))
	}
	return q
}

// Backup returns the max over actions and the first action attaining it.
func Backup(c *Costs, p Params) (float64, mdp.Action) {
	q := ExpectedCosts(c, p)
	best := floats.MaxIdx(q[:])
	return q[best], mdp.Action(best)
}
