package mdp

import "math/rand"

// Rewards are the terminal values, per-step reward and initial guess.
type Rewards struct {
	Goal     float64
	Obstacle float64
	Move     float64
	Initial  float64
}

func DefaultRewards() Rewards {
	return Rewards{Goal: 100, Obstacle: -100, Move: -1, Initial: 0}
}

// InitialValue checks the obstacle flag before the goal flag.
func InitialValue(l *Labels, idx int, r Rewards) float64 {
	switch {
	case l.IsObstacle(idx):
		return r.Obstacle
	case l.IsGoal(idx):
		return r.Goal
	default:
		return r.Initial
	}
}

// InitialPolicy is Terminal for labeled cells and a uniform random action
// otherwise.
func InitialPolicy(l *Labels, idx int, rng *rand.Rand) Action {
	if l.IsTerminal(idx) {
		return Terminal
	}
	return Action(rng.Intn(NumActions))
}

// InitialState fills a fresh value and policy vector for every state.
func InitialState(l *Labels, r Rewards, seed int64) ([]float64, []Action) {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, l.Len())
	policy := make([]Action, l.Len())
	for idx := range values {
		values[idx] = InitialValue(l, idx, r)
		policy[idx] = InitialPolicy(l, idx, rng)
	}
	return values, policy
}
