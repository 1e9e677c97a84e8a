// Package repro formats a command line that rebuilds a resolved system
// exactly, with every random default pinned to its drawn value.
package repro

import (
	"strconv"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/resolve"
)

const Program = "orbitsim"

// Options are the run parameters carried alongside the bodies.
type Options struct {
	Frames        int
	Dt            float64
	Cube          bool
	InitialBounds bool
}

// Directives returns one mass, position and velocity directive per body, in
// body order.
func Directives(bodies []dynamo.Body) []resolve.Directive {
	out := make([]resolve.Directive, 0, 3*len(bodies))
	for i, b := range bodies {
		idx := strconv.Itoa(i + 1)
		out = append(out,
			resolve.Mass(idx, b.Mass),
			resolve.Position(idx, resolve.Vector(b.Position.X, b.Position.Y, b.Position.Z)),
			resolve.Velocity(idx, resolve.Vector(b.Velocity.X, b.Velocity.Y, b.Velocity.Z)),
		)
	}
	return out
}

// Args returns the argument list for the run subcommand.
func Args(bodies []dynamo.Body, opts Options) []string {
	args := []string{
		"run",
		"-n", strconv.Itoa(len(bodies)),
		"-f", strconv.Itoa(opts.Frames),
		"-t", strconv.FormatFloat(opts.Dt, 'g', -1, 64),
	}
	if opts.Cube {
		args = append(args, "--cube")
	}
	if opts.InitialBounds {
		args = append(args, "--initial-bounds")
	}
	for _, d := range Directives(bodies) {
		args = append(args, "-"+d.Kind.Flag(), d.Arg())
	}
	return args
}

// Command joins Args into a single shell line.
func Command(bodies []dynamo.Body, opts Options) string {
	return Program + " " + strings.Join(Args(bodies, opts), " ")
}
