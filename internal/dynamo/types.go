package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a position, velocity or force in three dimensions.
type Vec3 = r3.Vec

type Body struct {
	Mass     float64
	Position Vec3
	Velocity Vec3
}

// Validate reports whether the body can take part in a run.
func (b Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return ErrInvalidMass
	}
	if !finite(b.Position) || !finite(b.Velocity) {
		return ErrNonFiniteState
	}
	return nil
}

func finite(v Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// CloneBodies returns an independent copy of bodies.
func CloneBodies(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}

// CheckDistinct fails with ErrDegenerateConfiguration when two bodies occupy the
// same position.
func CheckDistinct(bodies []Body) error {
	seen := make(map[Vec3]int, len(bodies))
	for i, b := range bodies {
		if j, ok := seen[b.Position]; ok {
			return &PairError{I: j, J: i, Wrapped: ErrDegenerateConfiguration}
		}
		seen[b.Position] = i
	}
	return nil
}

// Frame holds one position per body, in body order.
type Frame []Vec3

// Snapshot captures the current positions of bodies.
func Snapshot(bodies []Body) Frame {
	f := make(Frame, len(bodies))
	for i, b := range bodies {
		f[i] = b.Position
	}
	return f
}

// FrameSequence is the recorded history of a run. Frame 0 is the initial
// configuration.
type FrameSequence []Frame

// Bodies returns the number of bodies per frame, or 0 for an empty sequence.
func (fs FrameSequence) Bodies() int {
	if len(fs) == 0 {
		return 0
	}
	return len(fs[0])
}

// Track returns the positions of one body (0-based) across all frames.
func (fs FrameSequence) Track(body int) []Vec3 {
	track := make([]Vec3, len(fs))
	for i, f := range fs {
		track[i] = f[body]
	}
	return track
}

type Config struct {
	Dt      float64
	Frames  int
	Workers int
}

// DefaultDt is the step size used when the caller does not supply one.
const DefaultDt = 60.0

func DefaultConfig() Config {
	return Config{
		Dt:      DefaultDt,
		Frames:  100,
		Workers: 1,
	}
}

// Validate checks the scalar run parameters.
func (c Config) Validate() error {
	if c.Dt == 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return ErrInvalidStep
	}
	if c.Frames < 0 {
		return ErrInvalidFrameCount
	}
	return nil
}

// ForceModel computes the force exerted on b1 by b2.
type ForceModel interface {
	Force(b1, b2 Body) (Vec3, error)
}

// Integrator advances a body list by one fixed time step in place.
type Integrator interface {
	Step(bodies []Body, dt float64) error
}

// Observer is notified after frame 0 and after every completed step.
type Observer interface {
	OnStep(step int, bodies []Body)
}

type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}
