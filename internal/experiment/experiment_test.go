package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/experiment"
	"github.com/san-kum/spherevi/internal/grid"
	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

type sweepCounter struct{ n int }

func (c *sweepCounter) OnSweep(*solver.Sweep) { c.n++ }

var _ = Describe("Experiment", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.GetPreset("tiny")
		cfg.Seed = 3
	})

	It("refuses to run before setup", func() {
		_, err := experiment.New(cfg).Run(context.Background())
		Expect(err).To(MatchError(experiment.ErrNotSetup))
	})

	It("fails fast on an invalid axis and names it", func() {
		cfg.Grid.Phi.Step = 0.5
		err := experiment.New(cfg).Setup()
		Expect(err).To(MatchError(grid.ErrInvalidResolution))
		Expect(err.Error()).To(ContainSubstring("phi"))
	})

	It("rejects invalid solver settings", func() {
		cfg.Noise = 2
		err := experiment.New(cfg).Setup()
		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})

	It("does not share the caller's config", func() {
		exp := experiment.New(cfg)
		cfg.Sweeps = 50
		Expect(exp.Config().Sweeps).To(Equal(1))
	})

	It("builds the grid and labels from the configuration", func() {
		cfg = config.GetPreset("coarse")
		exp := experiment.New(cfg)
		Expect(exp.Setup()).To(Succeed())

		nr, ntheta, nphi := exp.Grid().Dims()
		Expect([]int{nr, ntheta, nphi}).To(Equal([]int{11, 37, 37}))
		Expect(exp.Labels().CountObstacles()).To(Equal(37 * 37))
		Expect(exp.Labels().CountGoals()).To(Equal(37))
	})

	It("runs the tiny scenario end to end", func() {
		exp := experiment.New(cfg)
		Expect(exp.Setup()).To(Succeed())

		counter := &sweepCounter{}
		exp.GetSolver().AddObserver(counter)

		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(counter.n).To(Equal(1))
		Expect(result.Sweeps).To(Equal(1))
		Expect(result.Metrics).To(HaveKey("residual"))
		Expect(result.Metrics).To(HaveKey("policy_churn"))
		Expect(result.Metrics).To(HaveKey("mean_value"))

		g := exp.Grid()
		adjacent := result.Values[g.Index(1, 2, 2)]
		remote := result.Values[g.Index(1, 2, 0)]
		Expect(adjacent).To(BeNumerically(">", remote))
		Expect(result.Policy[g.Index(2, 0, 0)]).To(Equal(mdp.Terminal))
	})

	It("attaches only the requested metrics", func() {
		exp := experiment.New(cfg)
		Expect(exp.Setup("residual")).To(Succeed())

		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveLen(1))
		Expect(result.Metrics).To(HaveKey("residual"))
	})

	It("reports unknown metrics", func() {
		err := experiment.New(cfg).Setup("entropy")
		Expect(err).To(MatchError(ContainSubstring("unknown metric: entropy")))
	})
})

var _ = Describe("Registry", func() {
	It("lists metrics in sorted order", func() {
		r := experiment.NewRegistry()
		Expect(r.ListMetrics()).To(Equal([]string{"mean_value", "policy_churn", "residual"}))
	})
})
