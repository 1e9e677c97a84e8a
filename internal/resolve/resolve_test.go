package resolve_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/resolve"
	"github.com/san-kum/orbitsim/internal/selector"
)

func fixed(n int) []resolve.Directive {
	var ds []resolve.Directive
	for i := 1; i <= n; i++ {
		idx := string(rune('0' + i))
		ds = append(ds,
			resolve.Mass(idx, float64(i)*1e24),
			resolve.Position(idx, resolve.Vector(float64(i)*1e8, 0, 0)),
		)
	}
	return ds
}

var _ = Describe("Resolver", func() {
	var src rand.Source

	BeforeEach(func() {
		src = rand.NewSource(42)
	})

	Describe("directive ordering", func() {
		It("lets a later partial override refine an earlier broadcast", func() {
			ds := append(fixed(5),
				resolve.Velocity("a", resolve.Uniform(0)),
				resolve.Velocity("1.3", resolve.Only(resolve.X, 10)),
			)
			bodies, err := resolve.New(5, src).Resolve(ds)
			Expect(err).NotTo(HaveOccurred())

			for i, b := range bodies {
				switch i + 1 {
				case 1, 3:
					Expect(b.Velocity).To(Equal(dynamo.Vec3{X: 10}))
				default:
					Expect(b.Velocity).To(Equal(dynamo.Vec3{}))
				}
			}
		})

		It("lets a later broadcast overwrite everything", func() {
			ds := append(fixed(5),
				resolve.Velocity("1.3", resolve.Only(resolve.X, 10)),
				resolve.Velocity("a", resolve.Uniform(0)),
			)
			bodies, err := resolve.New(5, src).Resolve(ds)
			Expect(err).NotTo(HaveOccurred())

			for _, b := range bodies {
				Expect(b.Velocity).To(Equal(dynamo.Vec3{}))
			}
		})

		It("overwrites mass set earlier", func() {
			ds := append(fixed(2), resolve.Mass("2", 7))
			bodies, err := resolve.New(2, src).Resolve(ds)
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies[0].Mass).To(Equal(1e24))
			Expect(bodies[1].Mass).To(Equal(7.0))
		})
	})

	Describe("position directives", func() {
		It("applies partial overrides per axis", func() {
			r := resolve.New(2, src)
			Expect(r.Apply(resolve.Position("2", resolve.Vector(1, 2, 3)))).To(Succeed())
			Expect(r.Apply(resolve.Position("2", resolve.Only(resolve.Z, 9).With(resolve.X, -1)))).To(Succeed())

			t := r.Templates()[1]
			Expect(t.Position[resolve.X]).To(Equal(resolve.Value(-1)))
			Expect(t.Position[resolve.Y]).To(Equal(resolve.Value(2)))
			Expect(t.Position[resolve.Z]).To(Equal(resolve.Value(9)))
			Expect(r.Templates()[0].Position[resolve.X].Set).To(BeFalse())
		})

		DescribeTable("reject multi-body selectors",
			func(sel string) {
				err := resolve.New(5, src).Apply(resolve.Position(sel, resolve.Uniform(1)))
				Expect(errors.Is(err, resolve.ErrInvalidSelectorForPosition)).To(BeTrue(), "error: %v", err)

				var de *resolve.DirectiveError
				Expect(errors.As(err, &de)).To(BeTrue())
				Expect(de.Bodies).To(Equal(5))
				Expect(de.Error()).To(ContainSubstring(sel))
			},
			Entry("all", "a"),
			Entry("range", "1-2"),
			Entry("one-element range", "2-2"),
			Entry("group", "1.3"),
		)

		It("rejects an index beyond the body count", func() {
			err := resolve.New(3, src).Apply(resolve.Position("4", resolve.Uniform(1)))
			Expect(errors.Is(err, selector.ErrSelectorOutOfRange)).To(BeTrue())
		})
	})

	It("surfaces selector errors for mass and velocity", func() {
		r := resolve.New(3, src)
		Expect(errors.Is(r.Apply(resolve.Mass("1-9", 1)), selector.ErrSelectorOutOfRange)).To(BeTrue())
		Expect(errors.Is(r.Apply(resolve.Velocity("x", resolve.Uniform(1))), selector.ErrMalformedSelector)).To(BeTrue())
	})

	It("stops at the first failing directive", func() {
		ds := []resolve.Directive{
			resolve.Mass("1", 5),
			resolve.Mass("6", 5),
		}
		bodies, err := resolve.New(2, src).Resolve(ds)
		Expect(err).To(HaveOccurred())
		Expect(bodies).To(BeNil())
	})

	It("rejects explicitly coincident bodies", func() {
		ds := []resolve.Directive{
			resolve.Position("1", resolve.Uniform(5)),
			resolve.Position("2", resolve.Vector(5, 5, 5)),
		}
		_, err := resolve.New(2, src).Resolve(ds)
		Expect(errors.Is(err, dynamo.ErrDegenerateConfiguration)).To(BeTrue())
	})

	It("rejects non-finite positions before checking for coincidence", func() {
		ds := append(fixed(2),
			resolve.Position("1", resolve.Uniform(math.NaN())),
			resolve.Position("2", resolve.Uniform(math.NaN())),
		)
		_, err := resolve.New(2, src).Resolve(ds)
		Expect(errors.Is(err, dynamo.ErrNonFiniteState)).To(BeTrue(), "error: %v", err)
	})

	It("rejects infinite velocities", func() {
		ds := append(fixed(2), resolve.Velocity("a", resolve.Only(resolve.Y, math.Inf(1))))
		_, err := resolve.New(2, src).Resolve(ds)
		Expect(errors.Is(err, dynamo.ErrNonFiniteState)).To(BeTrue(), "error: %v", err)
	})

	It("rejects non-positive masses", func() {
		ds := append(fixed(2), resolve.Mass("1", -3))
		_, err := resolve.New(2, src).Resolve(ds)
		Expect(errors.Is(err, dynamo.ErrInvalidMass)).To(BeTrue())
	})

	Describe("defaults", func() {
		It("are reproducible for a fixed seed", func() {
			a, err := resolve.New(4, rand.NewSource(7)).Resolve(nil)
			Expect(err).NotTo(HaveOccurred())
			b, err := resolve.New(4, rand.NewSource(7)).Resolve(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))

			c, err := resolve.New(4, rand.NewSource(8)).Resolve(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).NotTo(Equal(a))
		})

		It("stay within the documented magnitudes", func() {
			bodies, err := resolve.New(200, src).Resolve(nil)
			Expect(err).NotTo(HaveOccurred())

			for _, b := range bodies {
				Expect(b.Mass).To(BeNumerically(">=", resolve.MassUnit))
				Expect(b.Mass).To(BeNumerically("<=", resolve.MassSteps*resolve.MassUnit))

				for _, v := range []float64{b.Position.X, b.Position.Y, b.Position.Z} {
					Expect(math.IsNaN(v)).To(BeFalse())
					Expect(math.Abs(v)).To(BeNumerically("<", 10*resolve.SpreadSteps*resolve.PositionUnit))
				}
				for _, v := range []float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z} {
					Expect(math.Abs(v)).To(BeNumerically("<", 10*resolve.SpreadSteps*resolve.VelocityUnit))
				}
			}
		})

		It("never replace explicit values", func() {
			ds := []resolve.Directive{
				resolve.Mass("a", 3),
				resolve.Velocity("2", resolve.Only(resolve.Y, 4)),
			}
			bodies, err := resolve.New(3, src).Resolve(ds)
			Expect(err).NotTo(HaveOccurred())
			for _, b := range bodies {
				Expect(b.Mass).To(Equal(3.0))
			}
			Expect(bodies[1].Velocity.Y).To(Equal(4.0))
		})
	})
})

var _ = Describe("Template", func() {
	It("refuses to convert while fields are unset", func() {
		t := resolve.Template{Mass: resolve.Value(1), Position: resolve.Uniform(0)}
		t.Velocity[resolve.X] = resolve.Value(1)

		_, err := t.Body()
		Expect(errors.Is(err, resolve.ErrIncompleteTemplate)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("velocity.y"))
		Expect(err.Error()).To(ContainSubstring("velocity.z"))
	})

	It("converts a complete template", func() {
		t := resolve.Template{
			Mass:     resolve.Value(2),
			Position: resolve.Vector(1, 2, 3),
			Velocity: resolve.Vector(4, 5, 6),
		}
		b, err := t.Body()
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(dynamo.Body{
			Mass:     2,
			Position: dynamo.Vec3{X: 1, Y: 2, Z: 3},
			Velocity: dynamo.Vec3{X: 4, Y: 5, Z: 6},
		}))
	})
})
