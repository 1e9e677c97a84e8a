package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/resolve"
)

const (
	DefaultBodies  = 3
	DefaultFrames  = 100
	DefaultDt      = dynamo.DefaultDt
	DefaultWorkers = 1
)

// Config describes one scenario. Directive lists use the same text as the
// -m, -p and -v flags and are applied in file order, masses first.
type Config struct {
	Bodies        int      `yaml:"bodies"`
	Frames        int      `yaml:"frames"`
	Dt            float64  `yaml:"dt"`
	Seed          uint64   `yaml:"seed,omitempty"`
	Cube          bool     `yaml:"cube,omitempty"`
	InitialBounds bool     `yaml:"initial_bounds,omitempty"`
	Workers       int      `yaml:"workers,omitempty"`
	Mass          []string `yaml:"mass,omitempty"`
	Position      []string `yaml:"position,omitempty"`
	Velocity      []string `yaml:"velocity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:  DefaultBodies,
		Frames:  DefaultFrames,
		Dt:      DefaultDt,
		Workers: DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Mass = append([]string(nil), c.Mass...)
	out.Position = append([]string(nil), c.Position...)
	out.Velocity = append([]string(nil), c.Velocity...)
	return &out
}

func (c *Config) Validate() error {
	if c.Bodies < 1 {
		return fmt.Errorf("bodies=%d: %w", c.Bodies, dynamo.ErrNoBodies)
	}
	return c.Sim().Validate()
}

// Sim returns the recorder parameters.
func (c *Config) Sim() dynamo.Config {
	workers := c.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	return dynamo.Config{Dt: c.Dt, Frames: c.Frames, Workers: workers}
}

// Directives parses the directive lists, masses then positions then
// velocities. Each kind writes its own field, so only the order within a list
// matters, and that order is kept.
func (c *Config) Directives() ([]resolve.Directive, error) {
	out := make([]resolve.Directive, 0, len(c.Mass)+len(c.Position)+len(c.Velocity))

	groups := []struct {
		args  []string
		parse func(string) (resolve.Directive, error)
	}{
		{c.Mass, resolve.ParseMass},
		{c.Position, resolve.ParsePosition},
		{c.Velocity, resolve.ParseVelocity},
	}
	for _, g := range groups {
		for _, arg := range g.args {
			d, err := g.parse(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}
