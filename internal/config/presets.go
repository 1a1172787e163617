package config

import (
	"sort"

	"github.com/ali-albdaer/symplectica/internal/units"
)

// Presets are ready-made scenarios keyed by name.
var Presets = map[string]*Config{
	"two-body": {
		Seed:       1,
		Dt:         3600,
		Substeps:   1,
		Steps:      8760,
		Softening:  0,
		Solver:     "direct",
		Integrator: "velocity-verlet",
		Bodies: []BodyConfig{
			{ID: 1, Name: "Sun", Type: "star", Mass: units.MSun, Radius: units.RSun, Luminosity: units.LSun},
			{
				ID: 2, Name: "Earth", Type: "planet",
				Mass: units.MEarth, Radius: units.REarth, Albedo: 0.31,
				Position: [3]float64{units.AU, 0, 0},
				Velocity: [3]float64{0, 29784.0, 0},
			},
		},
	},
	"inner-disc": {
		Seed:       7,
		Dt:         60,
		Substeps:   1,
		Steps:      5000,
		Softening:  units.DefaultSoftening,
		Solver:     "barnes-hut",
		Theta:      units.DefaultBarnesHutTheta,
		Integrator: "velocity-verlet",
		Bodies: []BodyConfig{
			{ID: 0, Name: "Sun", Type: "star", Mass: units.MSun, Radius: units.RSun, Luminosity: units.LSun},
		},
		// The disc itself is drawn from the simulation seed at run time; see
		// the disc flag of the run command.
	},
	"collision-course": {
		Seed:       3,
		Dt:         1,
		Substeps:   1,
		Steps:      100,
		Integrator: "velocity-verlet",
		Enable:     EnableConfig{Collisions: true},
		Bodies: []BodyConfig{
			{
				ID: 1, Name: "A", Type: "planet", Mass: 1e25, Radius: 1e6,
				Velocity: [3]float64{10, 0, 0},
			},
			{
				ID: 2, Name: "B", Type: "planet", Mass: 1e25, Radius: 1e6,
				Position: [3]float64{2.5e6, 0, 0},
				Velocity: [3]float64{-10, 0, 0},
			},
		},
	},
}

// PresetNames lists the available presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a deep-enough copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cp
}
