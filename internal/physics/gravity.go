package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in m³·kg⁻¹·s⁻².
const G = 6.674e-11

type Gravity struct {
	G float64
}

func NewGravity() *Gravity {
	return &Gravity{G: G}
}

// Force returns the force exerted on b1 by b2, pointing from b1 toward b2.
//
// The magnitude G·m1·m2/r² is projected back onto the axes through the
// azimuth (angle in the x-y plane) and altitude (angle out of the x-y plane)
// of the separation vector.
func (g *Gravity) Force(b1, b2 dynamo.Body) (dynamo.Vec3, error) {
	d := r3.Sub(b2.Position, b1.Position)
	r2 := d.X*d.X + d.Y*d.Y + d.Z*d.Z
	if r2 == 0 {
		return dynamo.Vec3{}, dynamo.ErrDegenerateConfiguration
	}

	mag := g.G * b1.Mass * b2.Mass / r2
	azimuth := math.Atan2(d.Y, d.X)
	altitude := math.Atan2(d.Z, math.Hypot(d.X, d.Y))

	sinAz, cosAz := math.Sincos(azimuth)
	sinAlt, cosAlt := math.Sincos(altitude)

	return dynamo.Vec3{
		X: mag * cosAlt * cosAz,
		Y: mag * cosAlt * sinAz,
		Z: mag * sinAlt,
	}, nil
}

// Force evaluates the default gravity model.
func Force(b1, b2 dynamo.Body) (dynamo.Vec3, error) {
	return NewGravity().Force(b1, b2)
}

// Energy returns total kinetic plus gravitational potential energy. Coincident
// pairs contribute no potential energy.
func (g *Gravity) Energy(bodies []dynamo.Body) float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range bodies {
		ke += 0.5 * bi.Mass * r3.Norm2(bi.Velocity)

		for j := i + 1; j < len(bodies); j++ {
			r := r3.Norm(r3.Sub(bodies[j].Position, bi.Position))
			if r > 0 {
				pe -= g.G * bi.Mass * bodies[j].Mass / r
			}
		}
	}

	return ke + pe
}

// Energy evaluates total energy under the default gravity model.
func Energy(bodies []dynamo.Body) float64 {
	return NewGravity().Energy(bodies)
}

func Momentum(bodies []dynamo.Body) dynamo.Vec3 {
	var p dynamo.Vec3
	for _, b := range bodies {
		p = r3.Add(p, r3.Scale(b.Mass, b.Velocity))
	}
	return p
}

func CenterOfMass(bodies []dynamo.Body) dynamo.Vec3 {
	var c dynamo.Vec3
	total := 0.0
	for _, b := range bodies {
		c = r3.Add(c, r3.Scale(b.Mass, b.Position))
		total += b.Mass
	}
	if total == 0 {
		return dynamo.Vec3{}
	}
	return r3.Scale(1/total, c)
}
