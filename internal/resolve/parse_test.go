package resolve_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/resolve"
)

var _ = Describe("Parsing directives", func() {
	DescribeTable("mass",
		func(arg, sel string, m float64) {
			d, err := resolve.ParseMass(arg)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Kind).To(Equal(resolve.KindMass))
			Expect(d.Selector).To(Equal(sel))
			Expect(d.Mass).To(Equal(m))
			Expect(d.String()).To(Equal("-m " + arg))
		},
		Entry("single body", "1,5.97e24", "1", 5.97e24),
		Entry("all", "a,1e22", "a", 1e22),
		Entry("group", "1-3.5,7", "1-3.5", 7.0),
	)

	DescribeTable("vectors",
		func(arg string, want resolve.Axes) {
			d, err := resolve.ParseVelocity(arg)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Axes).To(Equal(want))
		},
		Entry("uniform", "a,0", resolve.Uniform(0)),
		Entry("three values", "2,1,-2,3e3", resolve.Vector(1, -2, 3000)),
		Entry("keyed single axis", "1.3,x10", resolve.Only(resolve.X, 10)),
		Entry("keyed two axes", "1,z-3,y4", resolve.Only(resolve.Z, -3).With(resolve.Y, 4)),
	)

	DescribeTable("rejects wrong arity",
		func(arg string) {
			_, err := resolve.ParseVelocity(arg)
			Expect(errors.Is(err, resolve.ErrInvalidDirectiveArity)).To(BeTrue(), "error: %v", err)
		},
		Entry("no values", "1"),
		Entry("two values", "1,2,3"),
		Entry("four values", "1,2,3,4,5"),
	)

	DescribeTable("rejects malformed text",
		func(parse func(string) (resolve.Directive, error), arg string) {
			_, err := parse(arg)
			Expect(errors.Is(err, resolve.ErrMalformedDirective)).To(BeTrue(), "error: %v", err)
		},
		Entry("mass without value", resolve.ParseMass, "1"),
		Entry("mass not a number", resolve.ParseMass, "1,heavy"),
		Entry("missing selector", resolve.ParsePosition, ",1,2,3"),
		Entry("bad number", resolve.ParsePosition, "1,1,two,3"),
		Entry("mixed keyed and plain", resolve.ParseVelocity, "1,x1,2"),
		Entry("repeated axis", resolve.ParseVelocity, "1,x1,x2"),
		Entry("bad keyed value", resolve.ParseVelocity, "1,yfast"),
		Entry("infinite mass", resolve.ParseMass, "1,+Inf"),
		Entry("NaN position", resolve.ParsePosition, "1,NaN"),
		Entry("NaN position axis", resolve.ParsePosition, "2,0,NaN,0"),
		Entry("infinite velocity", resolve.ParseVelocity, "a,Inf"),
		Entry("infinite keyed velocity", resolve.ParseVelocity, "1,x-Inf"),
	)

	It("keeps the position selector for later validation", func() {
		d, err := resolve.ParsePosition("1-2,0")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Kind).To(Equal(resolve.KindPosition))
		Expect(d.Selector).To(Equal("1-2"))
	})

	DescribeTable("Arg round trips through the parsers",
		func(d resolve.Directive) {
			var (
				got resolve.Directive
				err error
			)
			switch d.Kind {
			case resolve.KindMass:
				got, err = resolve.ParseMass(d.Arg())
			case resolve.KindPosition:
				got, err = resolve.ParsePosition(d.Arg())
			default:
				got, err = resolve.ParseVelocity(d.Arg())
			}
			Expect(err).NotTo(HaveOccurred())
			got.Text = ""
			Expect(got).To(Equal(d))
		},
		Entry("mass", resolve.Mass("2", 7.3477e22)),
		Entry("position", resolve.Position("1", resolve.Vector(3.844e8, 0, -1.5))),
		Entry("partial velocity", resolve.Velocity("1.3", resolve.Only(resolve.Y, 1022))),
	)
})
