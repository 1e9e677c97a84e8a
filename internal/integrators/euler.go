package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// minChunk is the smallest number of bodies handed to one worker.
const minChunk = 16

// SemiImplicitEuler advances bodies with a fixed-step symplectic Euler update:
// velocities first from the start-of-step forces, then positions from the new
// velocities.
type SemiImplicitEuler struct {
	Model   dynamo.ForceModel
	Workers int

	prev []dynamo.Body
	vel  []dynamo.Vec3
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{Model: physics.NewGravity(), Workers: 1}
}

func (e *SemiImplicitEuler) ensureScratch(n int) {
	if len(e.prev) != n {
		e.prev = make([]dynamo.Body, n)
		e.vel = make([]dynamo.Vec3, n)
	}
}

// Step advances bodies by dt. Pass 1 reads only a copy of the start-of-step
// state and writes velocities to a side buffer; pass 2 commits velocities and
// moves positions. On error bodies are left untouched.
func (e *SemiImplicitEuler) Step(bodies []dynamo.Body, dt float64) error {
	n := len(bodies)
	e.ensureScratch(n)
	copy(e.prev, bodies)

	err := dynamo.ParallelFor(n, e.Workers, minChunk, func(start, end int) error {
		for i := start; i < end; i++ {
			v, err := e.velocity(i, dt)
			if err != nil {
				return err
			}
			e.vel[i] = v
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range bodies {
		bodies[i].Velocity = e.vel[i]
		bodies[i].Position.X += dt * e.vel[i].X
		bodies[i].Position.Y += dt * e.vel[i].Y
		bodies[i].Position.Z += dt * e.vel[i].Z
	}

	return nil
}

// velocity returns body i's post-step velocity, v + Σf·dt/m, computed against
// the start-of-step snapshot.
func (e *SemiImplicitEuler) velocity(i int, dt float64) (dynamo.Vec3, error) {
	bi := e.prev[i]
	var sum dynamo.Vec3

	for j, bj := range e.prev {
		if i == j {
			continue
		}
		f, err := e.Model.Force(bi, bj)
		if err != nil {
			return dynamo.Vec3{}, &dynamo.PairError{I: i, J: j, Wrapped: err}
		}
		sum = r3.Add(sum, f)
	}

	return r3.Add(bi.Velocity, r3.Scale(dt/bi.Mass, sum)), nil
}
