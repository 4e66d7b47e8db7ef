package solver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherevi/internal/mdp"
	"github.com/san-kum/spherevi/internal/solver"
)

var _ = Describe("Backup", func() {
	var p solver.Params

	BeforeEach(func() {
		p = solver.DefaultParams()
	})

	It("adds the move reward to the chosen outcome when noise is zero", func() {
		c := solver.Costs{0, -100, 100, 0, 0, 0, 0}
		v, a := solver.Backup(&c, p)
		Expect(v).To(Equal(99.0))
		Expect(a).To(Equal(mdp.RadialDown))
	})

	It("selects Stay when it is the strict maximum", func() {
		c := solver.Costs{5, 1, 2, 3, 4, 1, 2}
		v, a := solver.Backup(&c, p)
		Expect(v).To(Equal(4.0))
		Expect(a).To(Equal(mdp.Stay))
	})

	It("keeps the first action among ties", func() {
		c := solver.Costs{0, 0, 0, 0, 0, 0, 0}
		_, a := solver.Backup(&c, p)
		Expect(a).To(Equal(mdp.Stay))

		c = solver.Costs{1, 2, 2, 7, 3, 7, 7}
		v, a := solver.Backup(&c, p)
		Expect(v).To(Equal(6.0))
		Expect(a).To(Equal(mdp.AzimuthUp))
	})

	It("spreads the noise mass over the six other outcomes", func() {
		p.Noise = 0.6
		p.Gamma = 0.5
		c := solver.Costs{0, 1, 2, 3, 4, 5, 6}

		q := solver.ExpectedCosts(&c, p)
		for n := range q {
			Expect(q[n]).To(BeNumerically("~", 0.05+0.15*float64(n), 1e-12))
		}

		v, a := solver.Backup(&c, p)
		Expect(v).To(BeNumerically("~", 0.95, 1e-12))
		Expect(a).To(Equal(mdp.ElevationDown))
	})

	It("makes every action equivalent at full noise on a flat neighborhood", func() {
		p.Noise = 1
		c := solver.Costs{3, 3, 3, 3, 3, 3, 3}
		q := solver.ExpectedCosts(&c, p)
		for n := range q {
			Expect(q[n]).To(BeNumerically("~", 2.0, 1e-12))
		}
	})
})
