package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// MinSeparation records the closest approach between any two bodies.
type MinSeparation struct {
	name    string
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{
		name: "min_separation",
		min:  math.Inf(1),
	}
}

func (s *MinSeparation) Name() string {
	return s.name
}

func (s *MinSeparation) OnStep(step int, bodies []dynamo.Body) {
	s.samples++
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			d := r3.Norm(r3.Sub(bodies[i].Position, bodies[j].Position))
			s.min = math.Min(s.min, d)
		}
	}
}

// Value is zero until a pair has been observed.
func (s *MinSeparation) Value() float64 {
	if s.samples == 0 || math.IsInf(s.min, 1) {
		return 0
	}
	return s.min
}

func (s *MinSeparation) Reset() {
	s.min = math.Inf(1)
	s.samples = 0
}
