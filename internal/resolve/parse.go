package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseMass parses "SELECTOR,MASS".
func ParseMass(arg string) (Directive, error) {
	text := "-m " + arg
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return Directive{}, malformed(text, "expected SELECTOR,MASS")
	}

	m, err := parseFinite(parts[1])
	if err != nil {
		return Directive{}, malformed(text, fmt.Sprintf("bad mass %q", parts[1]))
	}

	d := Mass(parts[0], m)
	d.Text = text
	return d, nil
}

// ParsePosition parses "INDEX,V", "INDEX,X,Y,Z" or a keyed partial override
// such as "INDEX,x1e8,z-3e7".
func ParsePosition(arg string) (Directive, error) {
	sel, ax, err := parseVector("-p "+arg, arg)
	if err != nil {
		return Directive{}, err
	}
	d := Position(sel, ax)
	d.Text = "-p " + arg
	return d, nil
}

// ParseVelocity accepts the same value forms as ParsePosition, with any
// selector.
func ParseVelocity(arg string) (Directive, error) {
	sel, ax, err := parseVector("-v "+arg, arg)
	if err != nil {
		return Directive{}, err
	}
	d := Velocity(sel, ax)
	d.Text = "-v " + arg
	return d, nil
}

func parseVector(text, arg string) (string, Axes, error) {
	parts := strings.Split(arg, ",")
	sel, vals := parts[0], parts[1:]
	if sel == "" {
		return "", Axes{}, malformed(text, "missing selector")
	}

	keyed := 0
	for _, v := range vals {
		if v != "" && strings.ContainsRune("xyz", rune(v[0])) {
			keyed++
		}
	}

	switch {
	case keyed == 0:
		return parsePlain(text, sel, vals)
	case keyed == len(vals):
		return parseKeyed(text, sel, vals)
	default:
		return "", Axes{}, malformed(text, "cannot mix keyed and plain values")
	}
}

func parsePlain(text, sel string, vals []string) (string, Axes, error) {
	if len(vals) != 1 && len(vals) != 3 {
		return "", Axes{}, &DirectiveError{
			Directive: text,
			Wrapped:   fmt.Errorf("%w, got %d", ErrInvalidDirectiveArity, len(vals)),
		}
	}

	nums := make([]float64, len(vals))
	for i, v := range vals {
		f, err := parseFinite(v)
		if err != nil {
			return "", Axes{}, malformed(text, fmt.Sprintf("bad value %q", v))
		}
		nums[i] = f
	}

	if len(nums) == 1 {
		return sel, Uniform(nums[0]), nil
	}
	return sel, Vector(nums[0], nums[1], nums[2]), nil
}

func parseKeyed(text, sel string, vals []string) (string, Axes, error) {
	var ax Axes
	for _, v := range vals {
		a := Axis(strings.IndexByte("xyz", v[0]))
		if ax[a].Set {
			return "", Axes{}, malformed(text, fmt.Sprintf("axis %c given twice", v[0]))
		}
		f, err := parseFinite(v[1:])
		if err != nil {
			return "", Axes{}, malformed(text, fmt.Sprintf("bad value %q", v))
		}
		ax[a] = Value(f)
	}
	return sel, ax, nil
}

// parseFinite rejects NaN and infinities along with non-numbers.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

func malformed(text, msg string) error {
	return &DirectiveError{Directive: text, Wrapped: fmt.Errorf("%w: %s", ErrMalformedDirective, msg)}
}
