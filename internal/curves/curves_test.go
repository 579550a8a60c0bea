package curves_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/curves"
	"github.com/san-kum/pvsim/internal/thermo"
)

var _ = Describe("Process curves", func() {
	var (
		model *thermo.Model
		at    mgl64.Vec2
	)

	BeforeEach(func() {
		var err error
		model, err = thermo.NewModel(config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		at = model.Center()
	})

	Describe("All", func() {
		It("returns the four kinds in order", func() {
			all := curves.All(model, at)
			Expect(all).To(HaveLen(4))
			for i, c := range all {
				Expect(c.Kind).To(Equal(curves.Kind(i)))
			}
		})

		It("starts every branch at the state point", func() {
			for _, c := range curves.All(model, at) {
				Expect(c.Branches).NotTo(BeEmpty())
				for _, b := range c.Branches {
					Expect(b[0]).To(Equal(at), "kind %s", c.Kind)
				}
			}
		})

		It("keeps every sample inside the plot", func() {
			plot := model.Plot()
			for _, corner := range []mgl64.Vec2{
				model.Handle().Min,
				model.Handle().Max,
				{model.Handle().Min[0], model.Handle().Max[1]},
				{model.Handle().Max[0], model.Handle().Min[1]},
			} {
				for _, c := range curves.All(model, corner) {
					for _, b := range c.Branches {
						for _, p := range b {
							Expect(plot.Contains(p)).To(BeTrue(), "kind %s point %v", c.Kind, p)
						}
					}
				}
			}
		})

		It("returns fresh slices on every call", func() {
			first := curves.All(model, at)
			first[2].Branches[0][1] = mgl64.Vec2{0, 0}
			second := curves.All(model, at)
			Expect(second[2].Branches[0][1]).NotTo(Equal(mgl64.Vec2{0, 0}))
		})
	})

	Describe("IsobaricCurve", func() {
		It("reaches both side edges at the handle height", func() {
			c := curves.IsobaricCurve(model, at)
			plot := model.Plot()
			Expect(c.Branches).To(HaveLen(2))
			Expect(c.Branches[0][1]).To(Equal(mgl64.Vec2{plot.Min[0], at[1]}))
			Expect(c.Branches[1][1]).To(Equal(mgl64.Vec2{plot.Max[0], at[1]}))
		})
	})

	Describe("IsochoricCurve", func() {
		It("reaches the bottom and top at the handle x", func() {
			c := curves.IsochoricCurve(model, at)
			plot := model.Plot()
			Expect(c.Branches).To(HaveLen(2))
			Expect(c.Branches[0][1]).To(Equal(mgl64.Vec2{at[0], plot.Min[1]}))
			Expect(c.Branches[1][1]).To(Equal(mgl64.Vec2{at[0], plot.Max[1]}))
		})
	})

	Describe("IsothermalCurve", func() {
		It("holds P*V constant", func() {
			pv := model.Volume(at[0]) * model.Pressure(at[1])
			c := curves.IsothermalCurve(model, at)
			for _, b := range c.Branches {
				for _, p := range b {
					Expect(model.Volume(p[0]) * model.Pressure(p[1])).To(BeNumerically("~", pv, 1e-9*pv))
				}
			}
		})

		It("samples in unit steps up to the plot top", func() {
			c := curves.IsothermalCurve(model, at)
			up := c.Branches[0]
			Expect(up).To(HaveLen(int(model.Plot().Max[1]-at[1]) + 1))
			Expect(up[len(up)-1][1]).To(Equal(model.Plot().Max[1]))
			for i := 1; i < len(up); i++ {
				Expect(up[i][1] - up[i-1][1]).To(BeNumerically("~", 1, 1e-12))
			}
		})

		It("samples in unit steps up to the plot right edge", func() {
			c := curves.IsothermalCurve(model, at)
			right := c.Branches[1]
			Expect(right).To(HaveLen(int(model.Plot().Max[0]-at[0]) + 1))
			Expect(right[len(right)-1][0]).To(Equal(model.Plot().Max[0]))
		})

		It("leaves only the state point when the handle sits on the top edge", func() {
			top := model.Plot().Max[1]
			edge := mgl64.Vec2{at[0], top}
			c := curves.IsothermalCurve(model, edge)
			Expect(c.Branches[0]).To(Equal([]mgl64.Vec2{edge}))
		})
	})

	Describe("AdiabaticCurve", func() {
		check := func(cfg *config.Config) {
			m, err := thermo.NewModel(cfg)
			Expect(err).NotTo(HaveOccurred())
			p := m.Center()
			g := m.Gamma()
			k := m.Pressure(p[1]) * math.Pow(m.Volume(p[0]), g)
			for _, b := range curves.AdiabaticCurve(m, p).Branches {
				Expect(len(b)).To(BeNumerically(">", 1))
				for _, q := range b {
					Expect(m.Pressure(q[1]) * math.Pow(m.Volume(q[0]), g)).To(BeNumerically("~", k, 1e-9*k))
				}
			}
		}

		It("holds P*V^gamma constant for a monatomic gas", func() {
			check(config.DefaultConfig())
		})

		It("uses the configured degrees of freedom", func() {
			check(config.GetPreset("diatomic"))
		})

		It("is steeper than the isotherm to the right of the state point", func() {
			iso := curves.IsothermalCurve(model, at).Branches[1]
			adi := curves.AdiabaticCurve(model, at).Branches[1]
			Expect(adi[10][1]).To(BeNumerically("<", iso[10][1]))
		})
	})

	Describe("Kind", func() {
		It("names every kind", func() {
			Expect(curves.Isobaric.String()).To(Equal("isobaric"))
			Expect(curves.Isochoric.String()).To(Equal("isochoric"))
			Expect(curves.Isothermal.String()).To(Equal("isothermal"))
			Expect(curves.Adiabatic.String()).To(Equal("adiabatic"))
		})
	})
})

var _ = Describe("Kind colours", func() {
	It("renders hex for the terminal and SVG frontends", func() {
		Expect(curves.Isobaric.Hex()).To(Equal("#22c55e"))
		Expect(curves.Adiabatic.Hex()).To(Equal("#a855f7"))
	})
})
