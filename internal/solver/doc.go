// Package solver runs synchronous value iteration over a labeled grid.
//
// Every sweep reads a frozen copy of the previous sweep's values and writes a
// fresh value and greedy action for each non-terminal state:
//
//	Q[n] = move + gamma*((1-noise)*cost[n] + noise/6*(total-cost[n]))
//	J    = max Q[n],  U = first n attaining the max
//
// where cost[0] is the state's own value and cost[1..6] are its r+, r-,
// theta+, theta-, phi+ and phi- neighbors. Obstacle and goal states are never
// updated.
//
// # Example
//
//	g, _ := grid.Build(rSpec, thetaSpec, phiSpec)
//	s, _ := solver.New(g, mdp.Label(g), solver.DefaultParams())
//	result, err := s.Run(ctx, solver.Config{Sweeps: 100})
//
// Because all reads go to the snapshot, the visiting order inside a sweep
// does not affect the result.
package solver
