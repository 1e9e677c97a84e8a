// Package selector parses body-index expressions.
//
// Grammar:
//
//	selector := "a" | group
//	group    := range ("." range)*
//	range    := INTEGER | INTEGER "-" INTEGER
//
// "a" addresses every body, "3" a single body, "2-4" an inclusive range and
// "1.3-5.7" the union of its dot-separated terms. Indices are 1-based.
package selector

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSelectorOutOfRange indicates an index outside 1..N.
	ErrSelectorOutOfRange = errors.New("selector: index out of range")

	// ErrMalformedSelector indicates text that does not match the grammar.
	ErrMalformedSelector = errors.New("selector: malformed expression")
)

// All is the selector addressing every body.
const All = "a"

// RangeError reports an index outside the declared body count.
type RangeError struct {
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("selector: index %d out of range 1..%d", e.Index, e.Count)
}

func (e *RangeError) Unwrap() error { return ErrSelectorOutOfRange }

// SyntaxError reports where parsing stopped.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector: %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformedSelector }

// Set is a resolved collection of 1-based body indices.
type Set map[int]struct{}

func (s Set) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Sorted returns the indices in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Parse resolves expr against a system of n bodies.
func Parse(expr string, n int) (Set, error) {
	p := &parser{expr: expr, n: n, set: make(Set)}
	if err := p.selector(); err != nil {
		return nil, err
	}
	return p.set, nil
}

// IsSingle reports whether expr names exactly one concrete index, as opposed to
// "a", a range or a group.
func IsSingle(expr string) bool {
	p := &parser{expr: expr}
	if _, err := p.integer(); err != nil {
		return false
	}
	return p.pos == len(p.expr)
}

type parser struct {
	expr string
	pos  int
	n    int
	set  Set
}

func (p *parser) selector() error {
	if p.expr == All {
		for i := 1; i <= p.n; i++ {
			p.set[i] = struct{}{}
		}
		return nil
	}
	return p.group()
}

func (p *parser) group() error {
	for {
		if err := p.rangeTerm(); err != nil {
			return err
		}
		if p.pos == len(p.expr) {
			return nil
		}
		if p.expr[p.pos] != '.' {
			return p.errorf("expected '.' or end of input, found %q", p.expr[p.pos])
		}
		p.pos++
	}
}

// rangeTerm adds a single index or an inclusive lo-hi range. A range with lo
// greater than hi selects nothing.
func (p *parser) rangeTerm() error {
	lo, err := p.integer()
	if err != nil {
		return err
	}
	hi := lo
	if p.pos < len(p.expr) && p.expr[p.pos] == '-' {
		p.pos++
		if hi, err = p.integer(); err != nil {
			return err
		}
	}

	if lo > hi {
		return nil
	}
	if lo < 1 {
		return &RangeError{Index: lo, Count: p.n}
	}
	if hi > p.n {
		return &RangeError{Index: hi, Count: p.n}
	}

	for i := lo; i <= hi; i++ {
		p.set[i] = struct{}{}
	}
	return nil
}

func (p *parser) integer() (int, error) {
	start := p.pos
	v := 0
	for p.pos < len(p.expr) && p.expr[p.pos] >= '0' && p.expr[p.pos] <= '9' {
		v = v*10 + int(p.expr[p.pos]-'0')
		if v > 1<<31 {
			return 0, p.errorf("index too large")
		}
		p.pos++
	}
	if p.pos == start {
		if p.pos == len(p.expr) {
			return 0, p.errorf("expected index, found end of input")
		}
		return 0, p.errorf("expected index, found %q", p.expr[p.pos])
	}
	return v, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Expr: p.expr, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}
