package resolve

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindMass Kind = iota
	KindPosition
	KindVelocity
)

func (k Kind) String() string {
	switch k {
	case KindMass:
		return "mass"
	case KindPosition:
		return "position"
	case KindVelocity:
		return "velocity"
	default:
		return "unknown"
	}
}

// Flag is the single-letter command-line flag that carries this kind.
func (k Kind) Flag() string {
	return k.String()[:1]
}

type Axis int

const (
	X Axis = iota
	Y
	Z
)

var axisNames = [3]byte{'x', 'y', 'z'}

// Component is an optionally set scalar.
type Component struct {
	Value float64
	Set   bool
}

func Value(v float64) Component { return Component{Value: v, Set: true} }

// Axes holds a per-axis override; unset axes are left alone when applied.
type Axes [3]Component

// Uniform sets all three axes to v.
func Uniform(v float64) Axes { return Axes{Value(v), Value(v), Value(v)} }

func Vector(x, y, z float64) Axes { return Axes{Value(x), Value(y), Value(z)} }

// Only sets a single axis.
func Only(a Axis, v float64) Axes {
	var out Axes
	out[a] = Value(v)
	return out
}

// With returns a copy of axes with a also set to v.
func (ax Axes) With(a Axis, v float64) Axes {
	ax[a] = Value(v)
	return ax
}

func (ax Axes) apply(dst *Axes) {
	for i, c := range ax {
		if c.Set {
			dst[i] = c
		}
	}
}

func (ax Axes) complete() bool {
	return ax[X].Set && ax[Y].Set && ax[Z].Set
}

// Directive is one attribute assignment scoped by a selector. Text holds the
// source text when the directive was parsed, for error reporting.
type Directive struct {
	Kind     Kind
	Selector string
	Mass     float64
	Axes     Axes
	Text     string
}

func Mass(sel string, m float64) Directive {
	return Directive{Kind: KindMass, Selector: sel, Mass: m}
}

// Position targets a single body; index must be a concrete 1-based index.
func Position(index string, ax Axes) Directive {
	return Directive{Kind: KindPosition, Selector: index, Axes: ax}
}

func Velocity(sel string, ax Axes) Directive {
	return Directive{Kind: KindVelocity, Selector: sel, Axes: ax}
}

// Arg renders the directive in the flag-value vocabulary ("1,5e24",
// "2,1,0,0", "a,x10"). It is the inverse of the Parse functions.
func (d Directive) Arg() string {
	parts := []string{d.Selector}

	if d.Kind == KindMass {
		return strings.Join(append(parts, formatFloat(d.Mass)), ",")
	}

	switch {
	case d.Axes.complete():
		for _, c := range d.Axes {
			parts = append(parts, formatFloat(c.Value))
		}
	default:
		for i, c := range d.Axes {
			if c.Set {
				parts = append(parts, string(axisNames[i])+formatFloat(c.Value))
			}
		}
	}
	return strings.Join(parts, ",")
}

func (d Directive) String() string {
	if d.Text != "" {
		return d.Text
	}
	return "-" + d.Kind.Flag() + " " + d.Arg()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
