// Package config is the file-facing configuration layer: YAML scenario
// files describing a simulation setup and the bodies it starts with, plus a
// set of named presets. The core sim.Config stays a plain struct; this
// package translates.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/integrators"
	"github.com/ali-albdaer/symplectica/internal/sim"
	"github.com/ali-albdaer/symplectica/internal/solvers"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// Config is one scenario file.
type Config struct {
	Seed       uint64  `yaml:"seed"`
	Dt         float64 `yaml:"dt"`
	Substeps   uint32  `yaml:"substeps"`
	Steps      int     `yaml:"steps"`
	Softening  float64 `yaml:"softening"`
	Solver     string  `yaml:"solver"`
	Theta      float64 `yaml:"barnes_hut_theta"`
	Threshold  int     `yaml:"barnes_hut_threshold"`
	FMMOrder   int     `yaml:"fmm_order"`
	Integrator string  `yaml:"integrator"`
	Tolerance  float64 `yaml:"tolerance"`

	CloseEncounter EncounterConfig `yaml:"close_encounter"`
	Enable         EnableConfig    `yaml:"enable"`

	Bodies []BodyConfig `yaml:"bodies"`
}

type EncounterConfig struct {
	Integrator       string  `yaml:"integrator"`
	RadiusMultiplier float64 `yaml:"radius_multiplier"`
	DtRelative       float64 `yaml:"dt_relative"`
	AbsoluteFraction float64 `yaml:"absolute_fraction"`
}

type EnableConfig struct {
	Atmosphere         bool `yaml:"atmosphere"`
	Drag               bool `yaml:"drag"`
	RadiationPressure  bool `yaml:"radiation_pressure"`
	TidalForces        bool `yaml:"tidal_forces"`
	SphericalHarmonics bool `yaml:"spherical_harmonics"`
	Collisions         bool `yaml:"collisions"`
}

// BodyConfig describes one starting body in SI units.
type BodyConfig struct {
	ID         uint32     `yaml:"id"`
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`
	Position   [3]float64 `yaml:"position"`
	Velocity   [3]float64 `yaml:"velocity"`
	Luminosity float64    `yaml:"luminosity"`
	Albedo     float64    `yaml:"albedo"`
	Massless   bool       `yaml:"massless"`
}

// Default mirrors sim.DefaultConfig for the file layer.
func Default() *Config {
	return &Config{
		Dt:         60,
		Substeps:   units.DefaultSubsteps,
		Steps:      1000,
		Softening:  units.DefaultSoftening,
		Solver:     "direct",
		Theta:      units.DefaultBarnesHutTheta,
		Threshold:  64,
		FMMOrder:   4,
		Integrator: "velocity-verlet",
		Tolerance:  1e-9,
		CloseEncounter: EncounterConfig{
			Integrator:       "rk45",
			RadiusMultiplier: 1.0,
			DtRelative:       0.05,
			AbsoluteFraction: 2.0,
		},
		Enable: EnableConfig{
			Atmosphere:         true,
			Drag:               true,
			RadiationPressure:  true,
			TidalForces:        true,
			SphericalHarmonics: true,
			Collisions:         true,
		},
	}
}

// Load reads a scenario file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a scenario file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSim translates the file config into the core configuration.
func (c *Config) ToSim() (sim.Config, error) {
	out := sim.DefaultConfig()
	out.Dt = c.Dt
	out.Softening = c.Softening
	out.BarnesHutThreshold = c.Threshold
	// Zero-valued tunables fall back to the core defaults so terse preset
	// and scenario files stay valid.
	if c.Substeps >= 1 {
		out.Substeps = c.Substeps
	}
	if c.Theta > 0 {
		out.BarnesHutTheta = c.Theta
	}
	if c.FMMOrder >= 1 {
		out.FMMOrder = c.FMMOrder
	}
	if c.Tolerance > 0 {
		out.Tolerance = c.Tolerance
	}

	switch c.Solver {
	case "", "direct":
		out.Solver = solvers.Direct
	case "barnes-hut":
		out.Solver = solvers.BarnesHut
	case "fmm":
		out.Solver = solvers.FMM
	default:
		return out, fmt.Errorf("config: unknown solver %q", c.Solver)
	}

	switch c.Integrator {
	case "", "velocity-verlet", "verlet":
		out.Integrator = integrators.VelocityVerlet
	case "leapfrog":
		out.Integrator = integrators.Leapfrog
	case "euler":
		out.Integrator = integrators.Euler
	case "rk45":
		out.Integrator = integrators.RK45
	case "gauss-radau":
		out.Integrator = integrators.GaussRadau15
	default:
		return out, fmt.Errorf("config: unknown integrator %q", c.Integrator)
	}

	switch c.CloseEncounter.Integrator {
	case "", "rk45":
		out.CloseEncounter.Integrator = sim.EncounterRK45
	case "gauss-radau":
		out.CloseEncounter.Integrator = sim.EncounterGaussRadau
	default:
		return out, fmt.Errorf("config: unknown close-encounter integrator %q", c.CloseEncounter.Integrator)
	}
	if c.CloseEncounter.RadiusMultiplier > 0 {
		out.CloseEncounter.RadiusMultiplier = c.CloseEncounter.RadiusMultiplier
	}
	if c.CloseEncounter.DtRelative > 0 {
		out.CloseEncounter.DtRelative = c.CloseEncounter.DtRelative
	}
	if c.CloseEncounter.AbsoluteFraction > 0 {
		out.CloseEncounter.AbsoluteFraction = c.CloseEncounter.AbsoluteFraction
	}

	out.EnableAtmosphere = c.Enable.Atmosphere
	out.EnableDrag = c.Enable.Drag
	out.EnableRadiationPressure = c.Enable.RadiationPressure
	out.EnableTidalForces = c.Enable.TidalForces
	out.EnableSphericalHarmonics = c.Enable.SphericalHarmonics
	out.EnableCollisions = c.Enable.Collisions
	return out, nil
}

// BuildSimulation constructs the simulation and ingests the scenario bodies.
func (c *Config) BuildSimulation() (*sim.Simulation, error) {
	cfg, err := c.ToSim()
	if err != nil {
		return nil, err
	}
	s, err := sim.WithConfig(c.Seed, cfg)
	if err != nil {
		return nil, err
	}
	for _, bc := range c.Bodies {
		b, err := bc.toBody()
		if err != nil {
			return nil, err
		}
		if err := s.AddBody(b); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (bc *BodyConfig) toBody() (body.Body, error) {
	t, err := parseBodyType(bc.Type)
	if err != nil {
		return body.Body{}, err
	}
	pos := vector.New(bc.Position[0], bc.Position[1], bc.Position[2])
	vel := vector.New(bc.Velocity[0], bc.Velocity[1], bc.Velocity[2])
	if bc.Massless {
		return body.NewTestParticle(bc.ID, bc.Name, pos, vel), nil
	}
	b := body.New(bc.ID, bc.Name, t, bc.Mass, bc.Radius, pos, vel)
	b.Luminosity = bc.Luminosity
	b.Albedo = bc.Albedo
	return b, nil
}

func parseBodyType(s string) (body.Type, error) {
	switch s {
	case "star":
		return body.Star, nil
	case "neutron-star":
		return body.NeutronStar, nil
	case "white-dwarf":
		return body.WhiteDwarf, nil
	case "", "planet":
		return body.Planet, nil
	case "moon":
		return body.Moon, nil
	case "asteroid":
		return body.Asteroid, nil
	case "satellite":
		return body.ArtificialSatellite, nil
	case "test-particle":
		return body.TestParticle, nil
	default:
		return body.Planet, fmt.Errorf("config: unknown body type %q", s)
	}
}
