// Package resolve turns attribute directives into concrete bodies.
//
// Directives are applied in order to a working array of templates, one per
// body; a later directive touching the same field overwrites an earlier one.
// Anything still unset afterwards is drawn from the resolver's random source,
// so a fixed seed always reproduces the same system.
package resolve

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/selector"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default magnitudes for unset fields.
const (
	MassUnit     = 1e22
	MassSteps    = 100
	PositionUnit = 1e7
	VelocityUnit = 100.0
	SpreadSteps  = 5
)

// Template is a partially specified body.
type Template struct {
	Mass     Component
	Position Axes
	Velocity Axes
}

// Body converts a complete template. Missing fields are a programming error
// once defaults have been filled.
func (t Template) Body() (dynamo.Body, error) {
	var missing []string
	if !t.Mass.Set {
		missing = append(missing, "mass")
	}
	for i, c := range t.Position {
		if !c.Set {
			missing = append(missing, "position."+string(axisNames[i]))
		}
	}
	for i, c := range t.Velocity {
		if !c.Set {
			missing = append(missing, "velocity."+string(axisNames[i]))
		}
	}
	if len(missing) > 0 {
		return dynamo.Body{}, fmt.Errorf("%w: %v", ErrIncompleteTemplate, missing)
	}

	return dynamo.Body{
		Mass:     t.Mass.Value,
		Position: dynamo.Vec3{X: t.Position[X].Value, Y: t.Position[Y].Value, Z: t.Position[Z].Value},
		Velocity: dynamo.Vec3{X: t.Velocity[X].Value, Y: t.Velocity[Y].Value, Z: t.Velocity[Z].Value},
	}, nil
}

type Resolver struct {
	templates []Template
	rng       *rand.Rand
	normal    distuv.Normal
	log       zerolog.Logger
}

// New creates a resolver for n bodies. A nil src seeds from the clock.
func New(n int, src rand.Source) *Resolver {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Resolver{
		templates: make([]Template, n),
		rng:       rand.New(src),
		normal:    distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		log:       zerolog.Nop(),
	}
}

func (r *Resolver) SetLogger(l zerolog.Logger) { r.log = l }

// Templates returns a copy of the working templates.
func (r *Resolver) Templates() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Apply applies one directive to the working templates.
func (r *Resolver) Apply(d Directive) error {
	n := len(r.templates)
	wrap := func(err error) error {
		return &DirectiveError{Directive: d.String(), Bodies: n, Wrapped: err}
	}

	if d.Kind == KindPosition && !selector.IsSingle(d.Selector) {
		return wrap(fmt.Errorf("%w, got %q", ErrInvalidSelectorForPosition, d.Selector))
	}

	set, err := selector.Parse(d.Selector, n)
	if err != nil {
		return wrap(err)
	}

	for idx := range set {
		t := &r.templates[idx-1]
		switch d.Kind {
		case KindMass:
			t.Mass = Value(d.Mass)
		case KindPosition:
			d.Axes.apply(&t.Position)
		case KindVelocity:
			d.Axes.apply(&t.Velocity)
		default:
			return wrap(fmt.Errorf("%w: unknown kind %d", ErrMalformedDirective, d.Kind))
		}
	}

	r.log.Debug().Str("directive", d.String()).Ints("bodies", set.Sorted()).Msg("applied")
	return nil
}

// Resolve applies directives in order, fills unset fields with random
// defaults and materializes the bodies.
func (r *Resolver) Resolve(directives []Directive) ([]dynamo.Body, error) {
	for _, d := range directives {
		if err := r.Apply(d); err != nil {
			return nil, err
		}
	}

	r.fillDefaults()

	bodies := make([]dynamo.Body, len(r.templates))
	for i, t := range r.templates {
		b, err := t.Body()
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i+1, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i+1, err)
		}
		bodies[i] = b
	}

	if err := dynamo.CheckDistinct(bodies); err != nil {
		return nil, err
	}
	return bodies, nil
}

func (r *Resolver) fillDefaults() {
	filled := 0
	for i := range r.templates {
		t := &r.templates[i]
		if !t.Mass.Set {
			t.Mass = Value(float64(r.rng.Intn(MassSteps)+1) * MassUnit)
			filled++
		}
		for a := range t.Position {
			if !t.Position[a].Set {
				t.Position[a] = Value(r.spread(PositionUnit))
				filled++
			}
		}
		for a := range t.Velocity {
			if !t.Velocity[a].Set {
				t.Velocity[a] = Value(r.spread(VelocityUnit))
				filled++
			}
		}
	}
	if filled > 0 {
		r.log.Debug().Int("fields", filled).Msg("filled random defaults")
	}
}

// spread draws a normally distributed value scaled by unit times a random
// factor in 1..SpreadSteps.
func (r *Resolver) spread(unit float64) float64 {
	return r.normal.Rand() * float64(r.rng.Intn(SpreadSteps)+1) * unit
}
