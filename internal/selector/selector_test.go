package selector_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/selector"
)

var _ = Describe("Parse", func() {
	DescribeTable("resolves valid expressions",
		func(expr string, n int, want []int) {
			set, err := selector.Parse(expr, n)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Sorted()).To(Equal(want))
		},
		Entry("all", "a", 5, []int{1, 2, 3, 4, 5}),
		Entry("single index", "3", 5, []int{3}),
		Entry("first index", "1", 1, []int{1}),
		Entry("last index", "5", 5, []int{5}),
		Entry("range", "2-4", 5, []int{2, 3, 4}),
		Entry("one-element range", "2-2", 5, []int{2}),
		Entry("group of singles", "1.3.5", 5, []int{1, 3, 5}),
		Entry("group mixing range", "1.3-5", 5, []int{1, 3, 4, 5}),
		Entry("overlapping terms", "1-3.2-4.3", 5, []int{1, 2, 3, 4}),
		Entry("reversed range selects nothing", "4-2", 5, []int{}),
		Entry("multi-digit", "10-12", 12, []int{10, 11, 12}),
	)

	It("is pure", func() {
		a, err := selector.Parse("1.3-5", 5)
		Expect(err).NotTo(HaveOccurred())
		b, err := selector.Parse("1.3-5", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(a.Contains(4)).To(BeTrue())
		Expect(a.Contains(2)).To(BeFalse())
	})

	It("resolves 'a' against an empty system to nothing", func() {
		set, err := selector.Parse("a", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(set).To(BeEmpty())
	})

	DescribeTable("rejects out-of-range indices",
		func(expr string, n, index int) {
			_, err := selector.Parse(expr, n)
			Expect(errors.Is(err, selector.ErrSelectorOutOfRange)).To(BeTrue())

			var re *selector.RangeError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Index).To(Equal(index))
			Expect(re.Count).To(Equal(n))
		},
		Entry("past the end", "6", 5, 6),
		Entry("zero", "0", 5, 0),
		Entry("range end", "3-9", 5, 9),
		Entry("range start", "0-2", 5, 0),
		Entry("inside a group", "1.2.7", 5, 7),
	)

	DescribeTable("rejects malformed text",
		func(expr string) {
			_, err := selector.Parse(expr, 5)
			Expect(errors.Is(err, selector.ErrMalformedSelector)).To(BeTrue(), "error: %v", err)

			var se *selector.SyntaxError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Expr).To(Equal(expr))
		},
		Entry("empty", ""),
		Entry("letter", "b"),
		Entry("all inside a group", "1.a"),
		Entry("trailing dot", "1."),
		Entry("leading dot", ".1"),
		Entry("double dash", "1--2"),
		Entry("open range", "2-"),
		Entry("chained range", "1-2-3"),
		Entry("negative", "-1"),
		Entry("whitespace", " 1"),
		Entry("comma", "1,2"),
	)
})

var _ = Describe("IsSingle", func() {
	DescribeTable("classifies expressions",
		func(expr string, want bool) {
			Expect(selector.IsSingle(expr)).To(Equal(want))
		},
		Entry("index", "4", true),
		Entry("multi-digit index", "12", true),
		Entry("all", "a", false),
		Entry("range", "1-2", false),
		Entry("one-element range", "2-2", false),
		Entry("group", "1.2", false),
		Entry("empty", "", false),
	)
})
