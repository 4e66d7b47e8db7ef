package solver_test

import (
	"bytes"
	"context"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

func quarterGrid() *grid.Grid {
	quarter := grid.Spec{Step: 90, Min: 0, Max: 270}
	g, err := grid.Build(grid.Spec{Step: 1, Min: 0, Max: 2}, quarter, quarter)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func mediumGrid() *grid.Grid {
	angles := grid.Spec{Step: 30, Min: 0, Max: 330}
	g, err := grid.Build(grid.Spec{Step: 1, Min: 0, Max: 5}, angles, angles)
	Expect(err).NotTo(HaveOccurred())
	return g
}

type terminalGuard struct {
	labels  *mdp.Labels
	rewards mdp.Rewards
	sweeps  int
}

func (g *terminalGuard) OnSweep(sw *solver.Sweep) {
	g.sweeps++
	for idx := range sw.Values {
		switch {
		case g.labels.IsObstacle(idx):
			Expect(sw.Values[idx]).To(Equal(g.rewards.Obstacle))
			Expect(sw.Policy[idx]).To(Equal(mdp.Terminal))
		case g.labels.IsGoal(idx):
			Expect(sw.Values[idx]).To(Equal(g.rewards.Goal))
			Expect(sw.Policy[idx]).To(Equal(mdp.Terminal))
		}
	}
}

type countingMetric struct {
	observed int
}

func (m *countingMetric) Name() string             { return "count" }
func (m *countingMetric) Observe(sw *solver.Sweep) { m.observed++ }
func (m *countingMetric) Value() float64           { return float64(m.observed) }
func (m *countingMetric) Reset()                   { m.observed = 0 }

var _ = Describe("Solver", func() {
	var (
		ctx context.Context
		p   solver.Params
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = solver.DefaultParams()
		p.Seed = 1
	})

	Describe("New", func() {
		It("rejects out-of-range noise and discount", func() {
			g := quarterGrid()
			p.Noise = 1.5
			_, err := solver.New(g, mdp.Label(g), p)
			Expect(err).To(MatchError(solver.ErrInvalidParams))

			p.Noise = 0
			p.Gamma = -0.1
			_, err = solver.New(g, mdp.Label(g), p)
			Expect(err).To(MatchError(solver.ErrInvalidParams))
		})

		It("rejects labels built for another grid", func() {
			_, err := solver.New(quarterGrid(), mdp.Label(mediumGrid()), p)
			Expect(err).To(MatchError(solver.ErrSizeMismatch))
		})

		It("initializes terminal and live states", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Values()[g.Index(2, 1, 1)]).To(Equal(-100.0))
			Expect(s.Values()[g.Index(0, 1, 1)]).To(Equal(100.0))
			Expect(s.Values()[g.Index(1, 1, 1)]).To(Equal(0.0))
			Expect(s.Policy()[g.Index(0, 1, 1)]).To(Equal(mdp.Terminal))
			Expect(s.Policy()[g.Index(1, 1, 1)].Valid()).To(BeTrue())
		})
	})

	Describe("Run", func() {
		It("validates the run configuration", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(ctx, solver.Config{Sweeps: 0})
			Expect(err).To(MatchError(solver.ErrInvalidConfig))
			_, err = s.Run(ctx, solver.Config{Sweeps: 1, Tolerance: -1})
			Expect(err).To(MatchError(solver.ErrInvalidConfig))
		})

		It("ranks shell states next to a goal above the rest after one sweep", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, solver.Config{Sweeps: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Sweeps).To(Equal(1))

			for j := 0; j < 4; j++ {
				for k := 0; k < 4; k++ {
					idx := g.Index(1, j, k)
					if j == k {
						Expect(result.Values[idx]).To(Equal(99.0))
						Expect(result.Policy[idx]).To(Equal(mdp.RadialDown))
					} else {
						Expect(result.Values[idx]).To(Equal(-1.0))
						Expect(result.Policy[idx]).To(Equal(mdp.Stay))
					}
				}
			}
		})

		It("never touches obstacle or goal states", func() {
			g := mediumGrid()
			labels := mdp.Label(g)
			p.Noise = 0.2
			s, err := solver.New(g, labels, p)
			Expect(err).NotTo(HaveOccurred())

			guard := &terminalGuard{labels: labels, rewards: p.Rewards}
			s.AddObserver(guard)

			_, err = s.Run(ctx, solver.Config{Sweeps: 15})
			Expect(err).NotTo(HaveOccurred())
			Expect(guard.sweeps).To(Equal(15))
		})

		It("matches the Bellman backup computed from the previous sweep", func() {
			g := mediumGrid()
			labels := mdp.Label(g)
			p.Noise = 0.3
			p.Gamma = 0.9
			s, err := solver.New(g, labels, p)
			Expect(err).NotTo(HaveOccurred())

			for t := 0; t < 4; t++ {
				s.Step()
			}
			prev := append([]float64(nil), s.Values()...)
			s.Step()

			i, j, k := 2, 5, 7
			idx := g.Index(i, j, k)
			c := []float64{
				prev[idx],
				prev[g.Index(i+1, j, k)],
				prev[g.Index(i-1, j, k)],
				prev[g.Index(i, j+1, k)],
				prev[g.Index(i, j-1, k)],
				prev[g.Index(i, j, k+1)],
				prev[g.Index(i, j, k-1)],
			}
			total := 0.0
			for _, v := range c {
				total += v
			}
			best := math.Inf(-1)
			for n := range c {
				q := p.Rewards.Move + p.Gamma*((1-p.Noise)*c[n]+(p.Noise/6)*(total-c[n]))
				best = math.Max(best, q)
			}
			Expect(s.Values()[idx]).To(BeNumerically("~", best, 1e-9))
		})

		It("wraps the azimuth and elevation neighbors", func() {
			g := quarterGrid()
			labels := mdp.NewLabels(g)
			labels.MarkObstacles(g)
			labels.SetGoal(g.Index(1, 3, 1))
			labels.SetGoal(g.Index(0, 2, 3))

			s, err := solver.New(g, labels, p)
			Expect(err).NotTo(HaveOccurred())
			s.Step()

			Expect(s.Policy()[g.Index(1, 0, 1)]).To(Equal(mdp.AzimuthDown))
			Expect(s.Values()[g.Index(1, 0, 1)]).To(Equal(99.0))
			Expect(s.Policy()[g.Index(1, 2, 1)]).To(Equal(mdp.AzimuthUp))

			Expect(s.Policy()[g.Index(0, 2, 0)]).To(Equal(mdp.ElevationDown))
			Expect(s.Policy()[g.Index(0, 2, 2)]).To(Equal(mdp.ElevationUp))
		})

		It("treats radial-down at the inner shell as staying in place", func() {
			g := quarterGrid()
			labels := mdp.NewLabels(g)
			labels.MarkObstacles(g)
			labels.SetGoal(g.Index(1, 0, 0))

			s, err := solver.New(g, labels, p)
			Expect(err).NotTo(HaveOccurred())
			s.Step()

			// r+ reaches the goal; r- is the cell itself, so it ties with Stay.
			idx := g.Index(0, 0, 0)
			Expect(s.Values()[idx]).To(Equal(99.0))
			Expect(s.Policy()[idx]).To(Equal(mdp.RadialUp))
		})

		It("is deterministic for a fixed seed", func() {
			g := mediumGrid()
			p.Noise = 0.25
			p.Gamma = 0.95
			p.Seed = 99

			run := func() *solver.Result {
				s, err := solver.New(g, mdp.Label(g), p)
				Expect(err).NotTo(HaveOccurred())
				r, err := s.Run(ctx, solver.Config{Sweeps: 20})
				Expect(err).NotTo(HaveOccurred())
				return r
			}

			a, b := run(), run()
			Expect(a.Values).To(Equal(b.Values))
			Expect(a.Policy).To(Equal(b.Policy))
		})

		It("stops early once the residual falls within tolerance", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, solver.Config{Sweeps: 100, Tolerance: 1e-9})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Converged).To(BeTrue())
			Expect(result.Sweeps).To(BeNumerically("<", 100))
			Expect(result.Residuals).To(HaveLen(result.Sweeps))
			Expect(result.Residuals[len(result.Residuals)-1]).To(BeNumerically("<=", 1e-9))
		})

		It("runs every sweep when tolerance is zero", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, solver.Config{Sweeps: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Converged).To(BeFalse())
			Expect(result.Sweeps).To(Equal(100))
		})

		It("returns the context error when canceled", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			canceled, cancel := context.WithCancel(ctx)
			cancel()
			result, err := s.Run(canceled, solver.Config{Sweeps: 10})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result).To(BeNil())
		})

		It("reports metrics and resets them per run", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			m := &countingMetric{}
			s.AddMetric(m)

			result, err := s.Run(ctx, solver.Config{Sweeps: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 7.0))

			result, err = s.Run(ctx, solver.Config{Sweeps: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 3.0))
			Expect(s.Sweeps()).To(Equal(10))
		})

		It("returns copies that later sweeps do not modify", func() {
			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, solver.Config{Sweeps: 1})
			Expect(err).NotTo(HaveOccurred())
			snapshot := append([]float64(nil), result.Values...)
			s.Step()
			Expect(result.Values).To(Equal(snapshot))

			s.Reset()
			Expect(s.Sweeps()).To(BeZero())
			Expect(s.Values()[g.Index(1, 1, 2)]).To(BeZero())
		})
	})

	Describe("logging", func() {
		AfterEach(func() {
			solver.SetLogWriters(nil, nil, nil)
		})

		It("dumps every state to the trace stream and summarizes on diag", func() {
			var diag, trace bytes.Buffer
			solver.SetLogWriters(nil, &diag, &trace)

			g := quarterGrid()
			s, err := solver.New(g, mdp.Label(g), p)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Run(ctx, solver.Config{Sweeps: 1})
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
			Expect(lines).To(HaveLen(g.Size()))
			Expect(lines[0]).To(ContainSubstring("[solver]"))
			Expect(lines[0]).To(ContainSubstring("sweep 1"))
			Expect(diag.String()).To(ContainSubstring("1 sweeps over 48 states"))
		})
	})
})
