package config

import "sort"

var Presets = map[string]*Config{
	"earth-moon": {
		Bodies: 2, Frames: 10, Dt: 300,
		Mass:     []string{"1,6e24", "2,3e23"},
		Position: []string{"1,0", "2,3.75e8,0,0"},
		Velocity: []string{"1,z50", "1,x0,y0", "2,0,250,0"},
	},
	"binary": {
		Bodies: 2, Frames: 1000, Dt: 60,
		Mass:     []string{"a,1e24"},
		Position: []string{"1,-1e7,0,0", "2,1e7,0,0"},
		Velocity: []string{"a,0", "1,y-1291.7", "2,y1291.7"},
	},
	"sun-earth-moon": {
		Bodies: 3, Frames: 8760, Dt: 3600,
		Mass:     []string{"1,1.989e30", "2,5.972e24", "3,7.342e22"},
		Position: []string{"1,0", "2,1.496e11,0,0", "3,1.49984e11,0,0"},
		Velocity: []string{"a,0", "2,y29780", "3,y30802"},
	},
	"cluster": {
		Bodies: 12, Frames: 500, Dt: 60, Seed: 1, Cube: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
