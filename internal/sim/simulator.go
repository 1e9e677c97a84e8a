package sim

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Recorder drives an integrator for a fixed number of steps and captures a
// position frame after each one.
type Recorder struct {
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        zerolog.Logger
}

type Result struct {
	Frames  dynamo.FrameSequence
	Bodies  []dynamo.Body
	Metrics map[string]float64
}

func New(integrator dynamo.Integrator) *Recorder {
	return &Recorder{
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        zerolog.Nop(),
	}
}

func (r *Recorder) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Recorder) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }
func (r *Recorder) SetLogger(l zerolog.Logger)    { r.log = l }

// Record captures the initial positions as frame 0 and then one frame per step.
// The returned sequence always holds frames+1 entries; on any error it is nil.
// bodies is advanced in place and must not be touched by anyone else until
// Record returns.
func (r *Recorder) Record(bodies []dynamo.Body, frames int, dt float64) (dynamo.FrameSequence, error) {
	if err := r.validate(bodies, frames, dt); err != nil {
		return nil, err
	}

	seq := make(dynamo.FrameSequence, 0, frames+1)
	seq = append(seq, dynamo.Snapshot(bodies))
	r.notify(0, bodies)

	for step := 1; step <= frames; step++ {
		if err := r.integrator.Step(bodies, dt); err != nil {
			r.log.Error().Err(err).Int("step", step).Msg("integration failed")
			return nil, &dynamo.SimulationError{Step: step, Wrapped: err}
		}
		seq = append(seq, dynamo.Snapshot(bodies))
		r.notify(step, bodies)

		if step%1000 == 0 {
			r.log.Debug().Int("step", step).Int("of", frames).Msg("recording")
		}
	}

	return seq, nil
}

// Run records a copy of bodies under cfg and collects metric values. The
// caller's slice is left unchanged.
func (r *Recorder) Run(bodies []dynamo.Body, cfg dynamo.Config) (*Result, error) {
	for _, m := range r.metrics {
		m.Reset()
	}

	work := dynamo.CloneBodies(bodies)
	frames, err := r.Record(work, cfg.Frames, cfg.Dt)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  frames,
		Bodies:  work,
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.log.Info().
		Int("bodies", len(work)).
		Int("frames", len(frames)).
		Float64("dt", cfg.Dt).
		Msg("run complete")

	return result, nil
}

func (r *Recorder) validate(bodies []dynamo.Body, frames int, dt float64) error {
	if len(bodies) == 0 {
		return dynamo.ErrNoBodies
	}
	cfg := dynamo.Config{Dt: dt, Frames: frames}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("dt=%g frames=%d: %w", dt, frames, err)
	}
	for i, b := range bodies {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i+1, err)
		}
	}
	return dynamo.CheckDistinct(bodies)
}

func (r *Recorder) notify(step int, bodies []dynamo.Body) {
	for _, m := range r.metrics {
		m.OnStep(step, bodies)
	}
	for _, o := range r.observers {
		o.OnStep(step, bodies)
	}
}
