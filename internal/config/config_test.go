package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/resolve"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBodies, cfg.Bodies)
	assert.Equal(t, 60.0, cfg.Dt)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
bodies: 4
dt: -30
cube: true
mass: ["a,1e24"]
velocity: ["1.3,x10"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Bodies)
	assert.Equal(t, -30.0, cfg.Dt)
	assert.Equal(t, DefaultFrames, cfg.Frames, "unset keys keep defaults")
	assert.True(t, cfg.Cube)
	assert.False(t, cfg.InitialBounds)
	assert.Equal(t, []string{"a,1e24"}, cfg.Mass)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bodies: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := GetPreset("binary")
	require.NotNil(t, want)

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	// Workers is omitted when zero and comes back as the default.
	want.Workers = DefaultWorkers
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = 0
	assert.True(t, errors.Is(cfg.Validate(), dynamo.ErrNoBodies))

	cfg = DefaultConfig()
	cfg.Dt = 0
	assert.ErrorIs(t, cfg.Validate(), dynamo.ErrInvalidStep)

	cfg = DefaultConfig()
	cfg.Frames = -1
	assert.ErrorIs(t, cfg.Validate(), dynamo.ErrInvalidFrameCount)
}

func TestSimDefaultsWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	assert.Equal(t, DefaultWorkers, cfg.Sim().Workers)

	cfg.Workers = 8
	assert.Equal(t, 8, cfg.Sim().Workers)
}

func TestDirectives(t *testing.T) {
	cfg := &Config{
		Bodies:   3,
		Mass:     []string{"a,1"},
		Position: []string{"2,1,2,3"},
		Velocity: []string{"1-2,y5"},
	}

	ds, err := cfg.Directives()
	require.NoError(t, err)
	require.Len(t, ds, 3)

	assert.Equal(t, resolve.KindMass, ds[0].Kind)
	assert.Equal(t, resolve.KindPosition, ds[1].Kind)
	assert.Equal(t, resolve.Vector(1, 2, 3), ds[1].Axes)
	assert.Equal(t, resolve.KindVelocity, ds[2].Kind)
	assert.Equal(t, "1-2", ds[2].Selector)

	cfg.Velocity = append(cfg.Velocity, "1,2,3")
	_, err = cfg.Directives()
	assert.ErrorIs(t, err, resolve.ErrInvalidDirectiveArity)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("earth-moon")
	require.NotNil(t, cfg)
	assert.Equal(t, 2, cfg.Bodies)

	cfg.Mass[0] = "1,1"
	assert.Equal(t, "1,6e24", Presets["earth-moon"].Mass[0], "presets must not be mutated through copies")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Len(t, names, len(Presets))
	assert.IsIncreasing(t, names)
}

func TestPresetsResolve(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NoError(t, cfg.Validate())

			ds, err := cfg.Directives()
			require.NoError(t, err)

			bodies, err := resolve.New(cfg.Bodies, nil).Resolve(ds)
			require.NoError(t, err)
			assert.Len(t, bodies, cfg.Bodies)
		})
	}
}

func TestEarthMoonPreset(t *testing.T) {
	cfg := GetPreset("earth-moon")
	ds, err := cfg.Directives()
	require.NoError(t, err)

	bodies, err := resolve.New(cfg.Bodies, nil).Resolve(ds)
	require.NoError(t, err)

	assert.Equal(t, dynamo.Body{Mass: 6e24, Velocity: dynamo.Vec3{Z: 50}}, bodies[0])
	assert.Equal(t, dynamo.Body{
		Mass:     3e23,
		Position: dynamo.Vec3{X: 3.75e8},
		Velocity: dynamo.Vec3{Y: 250},
	}, bodies[1])
}

func TestDirectivesKeepOrderWithinField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = 2
	cfg.Mass = []string{"a,1e24", "2,5e22"}
	cfg.Position = []string{"1,0", "2,1e8", "2,x3e8"}
	cfg.Velocity = []string{"a,1", "1,z50", "a,y7"}

	ds, err := cfg.Directives()
	require.NoError(t, err)
	bodies, err := resolve.New(cfg.Bodies, nil).Resolve(ds)
	require.NoError(t, err)

	assert.Equal(t, 1e24, bodies[0].Mass)
	assert.Equal(t, 5e22, bodies[1].Mass)
	assert.Equal(t, dynamo.Vec3{X: 3e8, Y: 1e8, Z: 1e8}, bodies[1].Position)
	assert.Equal(t, dynamo.Vec3{X: 1, Y: 7, Z: 50}, bodies[0].Velocity)
	assert.Equal(t, dynamo.Vec3{X: 1, Y: 7, Z: 1}, bodies[1].Velocity)
}
