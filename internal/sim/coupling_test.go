package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

func belligerents(clamp bool) (*model.Belligerent, *model.Belligerent) {
	coeffs := model.DefaultCoefficients()
	a, err := model.NewBelligerent(model.ActorConfig{
		Name: "Russian Federation",
		Stocks: model.Stocks{
			IndustrialTechnology:       1,
			MilitaryTechnology:         1,
			CivilianIndustrialCapacity: 760,
			MilitaryIndustrialCapacity: 100,
			MilitaryCapability:         175,
		},
		Investment:         model.EvenInvestment(),
		TaxRate:            0.11,
		AttackingIntensity: 0.6,
		Sanctions:          model.SanctionsRamp(0.14),
		ForeignAid:         model.Constant(0),
		ClampStocks:        clamp,
	}, coeffs)
	Expect(err).NotTo(HaveOccurred())

	b, err := model.NewBelligerent(model.ActorConfig{
		Name: "Ukraine",
		Stocks: model.Stocks{
			IndustrialTechnology:       1,
			MilitaryTechnology:         1,
			CivilianIndustrialCapacity: 100,
			MilitaryIndustrialCapacity: 100,
			MilitaryCapability:         100,
		},
		Investment:         model.EvenInvestment(),
		TaxRate:            0.19,
		AttackingIntensity: 0.4,
		Sanctions:          model.Constant(0),
		ForeignAid:         model.Constant(0.16),
		ClampStocks:        clamp,
	}, coeffs)
	Expect(err).NotTo(HaveOccurred())
	return a, b
}

var _ = Describe("Simulator", func() {
	var (
		simulator *sim.Simulator
		cfg       sim.Config
	)

	BeforeEach(func() {
		simulator = sim.New(sim.DefaultPhasedSchedule(2.5, 0.62))
		cfg = sim.DefaultConfig()
	})

	Context("with the baseline scenario", func() {
		It("is deterministic", func() {
			a1, b1 := belligerents(true)
			a2, b2 := belligerents(true)

			r1, err := simulator.Run(context.Background(), a1, b1, cfg)
			Expect(err).NotTo(HaveOccurred())
			r2, err := simulator.Run(context.Background(), a2, b2, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(r2.Outcome).To(Equal(r1.Outcome))
			Expect(b2.History().MilitaryCapability).To(Equal(b1.History().MilitaryCapability))
		})

		DescribeTable("reproduces the regression outcome over the full horizon",
			func(clamp bool) {
				a, b := belligerents(clamp)
				res, err := simulator.Run(context.Background(), a, b, cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Outcome).To(Equal(sim.Outcome{
					Length: 2749,
					Winner: "Russian Federation",
					Reason: sim.ReasonMilitarySuperiority,
				}))
				Expect(res.StepsTaken).To(Equal(2750))
			},
			Entry("with stocks clamped at zero", true),
			Entry("with unclamped stocks", false),
		)

		It("records one history row per simulated day plus the initial row", func() {
			a, b := belligerents(true)
			res, err := simulator.Run(context.Background(), a, b, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.History().Len()).To(Equal(res.StepsTaken + 1))
			Expect(b.History().Len()).To(Equal(a.History().Len()))
			if !res.Outcome.Inconclusive() {
				Expect(res.StepsTaken).To(Equal(res.Outcome.Length + 1))
				Expect(res.Outcome.Winner).To(BeElementOf(a.Name(), b.Name()))
			}
		})

		It("keeps price levels at or above one and stocks non-negative", func() {
			a, b := belligerents(true)
			_, err := simulator.Run(context.Background(), a, b, cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, actor := range []*model.Belligerent{a, b} {
				for _, p := range actor.History().PriceLevel {
					Expect(p).To(BeNumerically(">=", 1))
				}
				for _, m := range actor.History().MilitaryCapability {
					Expect(m).To(BeNumerically(">=", 0))
				}
			}
		})
	})

	Context("when the horizon is reached", func() {
		It("reports no winner and the horizon as length", func() {
			a, b := belligerents(true)
			cfg.Horizon = 5

			res, err := simulator.Run(context.Background(), a, b, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Outcome{Length: 5, Winner: sim.NoWinner, Reason: sim.ReasonNone}))
			Expect(a.History().Len()).To(Equal(6))
		})
	})
})

var _ = Describe("Evaluate", func() {
	snapshot := func(name string, capital, capability float64) sim.Snapshot {
		return sim.Snapshot{Name: name, EconomicCapital: capital, BaselineCapital: 1000, MilitaryCapability: capability}
	}

	It("lets superiority override a same-day economic collapse", func() {
		winner, reason, ended := sim.Evaluate(snapshot("A", 1000, 100), snapshot("B", 100, 450))
		Expect(ended).To(BeTrue())
		Expect(winner).To(Equal("B"))
		Expect(reason).To(Equal(sim.ReasonMilitarySuperiority))
	})

	It("treats capability of exactly the threshold as collapsed", func() {
		winner, reason, ended := sim.Evaluate(snapshot("A", 1000, 50), snapshot("B", 1000, sim.MilitaryCollapseThreshold))
		Expect(ended).To(BeTrue())
		Expect(winner).To(Equal("A"))
		Expect(reason).To(Equal(sim.ReasonMilitaryCollapse))
	})

	It("does nothing for two healthy sides", func() {
		_, reason, ended := sim.Evaluate(snapshot("A", 600, 100), snapshot("B", 600, 100))
		Expect(ended).To(BeFalse())
		Expect(reason).To(Equal(sim.ReasonNone))
	})
})
