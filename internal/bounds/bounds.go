// Package bounds derives display limits for a recorded run.
package bounds

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Padding widens every computed limit so bodies on the edge stay visible.
const Padding = 1.05

type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (i Interval) Width() float64 { return i.Max - i.Min }

type Bounds struct {
	X Interval `json:"x" yaml:"x"`
	Y Interval `json:"y" yaml:"y"`
	Z Interval `json:"z" yaml:"z"`
}

// Compute returns padded limits for frames. With initialOnly set only frame 0
// contributes; with cube set all three axes share the interval [-M, M] where M
// is the largest absolute coordinate seen.
func Compute(frames dynamo.FrameSequence, cube, initialOnly bool) Bounds {
	if len(frames) == 0 {
		return Bounds{}
	}
	if initialOnly {
		frames = frames[:1]
	}

	lo := dynamo.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := dynamo.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	seen := false

	for _, f := range frames {
		for _, p := range f {
			lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
			lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
			lo.Z, hi.Z = math.Min(lo.Z, p.Z), math.Max(hi.Z, p.Z)
			seen = true
		}
	}
	if !seen {
		return Bounds{}
	}

	if cube {
		m := 0.0
		for _, v := range []float64{lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z} {
			m = math.Max(m, math.Abs(v))
		}
		iv := Interval{Min: -m * Padding, Max: m * Padding}
		return Bounds{X: iv, Y: iv, Z: iv}
	}

	return Bounds{
		X: pad(lo.X, hi.X),
		Y: pad(lo.Y, hi.Y),
		Z: pad(lo.Z, hi.Z),
	}
}

// pad pushes each end away from the data by the padding fraction of its own
// magnitude.
func pad(lo, hi float64) Interval {
	return Interval{
		Min: lo - (Padding-1)*math.Abs(lo),
		Max: hi + (Padding-1)*math.Abs(hi),
	}
}
