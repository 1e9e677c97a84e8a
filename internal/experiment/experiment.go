// Package experiment wires a scenario through resolution, recording and
// bounds calculation.
package experiment

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/repro"
	"github.com/san-kum/orbitsim/internal/resolve"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

type Experiment struct {
	cfg      *config.Config
	extra    []resolve.Directive
	registry *Registry
	log      zerolog.Logger
}

type Result struct {
	Seed    uint64
	Initial []dynamo.Body
	Final   []dynamo.Body
	Frames  dynamo.FrameSequence
	Bounds  bounds.Bounds
	Metrics map[string]float64
	Command string
	Elapsed time.Duration
}

// New prepares a run of cfg. extra directives are applied after the ones in
// cfg.
func New(cfg *config.Config, extra ...resolve.Directive) *Experiment {
	return &Experiment{
		cfg:      cfg,
		extra:    extra,
		registry: NewRegistry(),
		log:      zerolog.Nop(),
	}
}

func (e *Experiment) SetLogger(l zerolog.Logger) { e.log = l }

// Seed returns the configured seed, drawing one from the clock when unset.
func (e *Experiment) Seed() uint64 {
	if e.cfg.Seed == 0 {
		e.cfg.Seed = uint64(time.Now().UnixNano())
	}
	return e.cfg.Seed
}

// Resolve builds the initial bodies.
func (e *Experiment) Resolve() ([]dynamo.Body, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	directives, err := e.cfg.Directives()
	if err != nil {
		return nil, err
	}
	directives = append(directives, e.extra...)

	r := resolve.New(e.cfg.Bodies, rand.NewSource(e.Seed()))
	r.SetLogger(e.log)
	return r.Resolve(directives)
}

func (e *Experiment) Run() (*Result, error) {
	initial, err := e.Resolve()
	if err != nil {
		return nil, err
	}

	simCfg := e.cfg.Sim()
	integ, err := e.registry.GetIntegrator(DefaultIntegrator, simCfg.Workers)
	if err != nil {
		return nil, err
	}

	rec := sim.New(integ)
	rec.SetLogger(e.log)
	for _, m := range e.registry.DefaultMetrics() {
		rec.AddMetric(m)
	}

	e.log.Info().
		Int("bodies", len(initial)).
		Int("frames", simCfg.Frames).
		Float64("dt", simCfg.Dt).
		Uint64("seed", e.cfg.Seed).
		Msg("starting run")

	start := time.Now()
	res, err := rec.Run(initial, simCfg)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}

	return &Result{
		Seed:    e.cfg.Seed,
		Initial: initial,
		Final:   res.Bodies,
		Frames:  res.Frames,
		Bounds:  bounds.Compute(res.Frames, e.cfg.Cube, e.cfg.InitialBounds),
		Metrics: res.Metrics,
		Command: repro.Command(initial, repro.Options{
			Frames:        simCfg.Frames,
			Dt:            simCfg.Dt,
			Cube:          e.cfg.Cube,
			InitialBounds: e.cfg.InitialBounds,
		}),
		Elapsed: time.Since(start),
	}, nil
}

// Metadata returns the persisted description of the run.
func (r *Result) Metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Command:       r.Command,
		Seed:          r.Seed,
		Dt:            cfg.Dt,
		Frames:        cfg.Frames,
		Cube:          cfg.Cube,
		InitialBounds: cfg.InitialBounds,
		Bounds:        r.Bounds,
		Bodies:        storage.NewBodyRecords(r.Initial),
		Metrics:       r.Metrics,
	}
}
