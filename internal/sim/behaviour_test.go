package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

var _ = Describe("Simulation", func() {
	var (
		cfg  sim.Config
		opts sim.Options
	)

	BeforeEach(func() {
		cfg = sim.Config{Distance: 400, Mass: 1000, G: 0.4}
		opts = sim.DefaultOptions()
	})

	Describe("construction", func() {
		It("places three bodies on an equilateral triangle around the origin", func() {
			s, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())

			st := s.State()
			for _, d := range st.Distances {
				Expect(d).To(BeNumerically("~", 400, 1e-9))
			}
			com := physics.CenterOfMass(s.Bodies())
			Expect(com.Len()).To(BeNumerically("<", 1e-9))
			Expect(st.Momentum.Len()).To(BeNumerically("<", 1e-9))
		})

		DescribeTable("rejects non-positive values",
			func(c sim.Config, field string) {
				s, err := sim.New(c, opts)
				Expect(s).To(BeNil())
				Expect(errors.Is(err, sim.ErrInvalidConfig)).To(BeTrue())

				var cerr *sim.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).To(Equal(field))
			},
			Entry("negative distance", sim.Config{Distance: -1, Mass: 1000, G: 0.4}, "distance"),
			Entry("zero mass", sim.Config{Distance: 400, Mass: 0, G: 0.4}, "mass"),
			Entry("negative G", sim.Config{Distance: 400, Mass: 1000, G: -0.4}, "gravitational constant"),
			Entry("NaN distance", sim.Config{Distance: math.NaN(), Mass: 1000, G: 0.4}, "distance"),
			Entry("infinite mass", sim.Config{Distance: 400, Mass: math.Inf(1), G: 0.4}, "mass"),
		)
	})

	Describe("reset", func() {
		It("matches a freshly constructed simulation", func() {
			fresh, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())

			s, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 250; i++ {
				Expect(s.Step(1)).To(Succeed())
			}
			Expect(s.State().Ticks).To(Equal(250))

			s.Reset()
			Expect(s.State()).To(Equal(fresh.State()))
			Expect(s.Config()).To(Equal(cfg))
		})
	})

	Describe("a zero time step", func() {
		It("does not move any body", func() {
			s, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())
			before := s.State()

			Expect(s.Step(0)).To(Succeed())

			after := s.State()
			Expect(after.Positions).To(Equal(before.Positions))
			Expect(after.Velocities).To(Equal(before.Velocities))
		})
	})

	Describe("history", func() {
		It("appends one trail point and one graph sample per step", func() {
			s, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 10; i++ {
				Expect(s.Step(1)).To(Succeed())
			}

			st := s.State()
			for i := range st.Trails {
				Expect(st.Trails[i]).To(HaveLen(11))
				Expect(st.Trails[i][10]).To(Equal(st.Positions[i]))
			}
			Expect(st.Graph).To(HaveLen(11))
		})

		It("caps trails and graph at the configured length", func() {
			opts.TrailLength = 20
			opts.GraphLength = 15
			s, err := sim.New(cfg, opts)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 100; i++ {
				Expect(s.Step(1)).To(Succeed())
			}

			st := s.State()
			for i := range st.Trails {
				Expect(st.Trails[i]).To(HaveLen(20))
			}
			Expect(st.Graph).To(HaveLen(15))
		})
	})

	Describe("sensitivity to the gravitational constant", func() {
		It("diverges monotonically for G=0.4 against G=0.3999", func() {
			g, err := sim.NewGroup([]sim.Config{
				{Distance: 400, Mass: 1000, G: 0.4},
				{Distance: 400, Mass: 1000, G: 0.3999},
			}, opts)
			Expect(err).NotTo(HaveOccurred())

			divergence := make([]float64, 0, 1000)
			for i := 0; i < 1000; i++ {
				Expect(g.Step(1)).To(Succeed())
				snaps := g.Snapshots()
				divergence = append(divergence, analysis.Divergence(snaps[0], snaps[1]))
			}

			for i := 501; i < len(divergence); i++ {
				Expect(divergence[i]).To(BeNumerically(">", divergence[i-1]), "tick %d", i)
			}
			Expect(divergence[999]).To(BeNumerically(">", divergence[0]))
			Expect(analysis.GrowthRate(divergence[500:], 1)).To(BeNumerically(">", 0))
		})
	})
})

var _ = Describe("Group", func() {
	It("is built all-or-nothing and names the invalid simulation", func() {
		g, err := sim.NewGroup([]sim.Config{
			{Distance: 400, Mass: 1000, G: 0.4},
			{Distance: -1, Mass: 1000, G: 0.4},
		}, sim.DefaultOptions())
		Expect(g).To(BeNil())
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("simulation2"))
		Expect(err.Error()).NotTo(ContainSubstring("simulation1"))
	})

	It("reports every invalid simulation", func() {
		_, err := sim.NewGroup([]sim.Config{
			{Distance: 400, Mass: 0, G: 0.4},
			{Distance: 400, Mass: 1000, G: 0},
		}, sim.DefaultOptions())
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("simulation1"))
		Expect(err.Error()).To(ContainSubstring("simulation2"))
	})

	It("refuses more than two simulations", func() {
		c := sim.Config{Distance: 400, Mass: 1000, G: 0.4}
		_, err := sim.NewGroup([]sim.Config{c, c, c}, sim.DefaultOptions())
		Expect(err).To(MatchError(sim.ErrTooManySimulations))
	})

	It("resets every simulation", func() {
		c := sim.Config{Distance: 300, Mass: 500, G: 0.6}
		g, err := sim.NewGroup([]sim.Config{c, c}, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 5; i++ {
			Expect(g.Step(1)).To(Succeed())
		}

		g.Reset()
		for _, st := range g.Snapshots() {
			Expect(st.Ticks).To(BeZero())
			Expect(st.Graph).To(HaveLen(1))
		}
	})
})
