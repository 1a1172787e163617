package sim

import (
	"fmt"

	"github.com/ali-albdaer/symplectica/internal/integrators"
	"github.com/ali-albdaer/symplectica/internal/solvers"
	"github.com/ali-albdaer/symplectica/internal/units"
)

// EncounterIntegrator selects the scheme swapped in during a close
// encounter.
type EncounterIntegrator uint8

const (
	EncounterRK45 EncounterIntegrator = iota
	EncounterGaussRadau
)

func (e EncounterIntegrator) String() string {
	if e == EncounterGaussRadau {
		return "gauss-radau"
	}
	return "rk45"
}

// CloseEncounterConfig holds the proximity thresholds of the integrator
// switch. A pair enters an encounter window when its separation drops under
// RadiusMultiplier mutual Hill radii, when the nominal step would move a
// body by more than DtRelative of the separation, or when the separation
// drops under AbsoluteFraction of the summed body radii.
type CloseEncounterConfig struct {
	Integrator       EncounterIntegrator
	RadiusMultiplier float64
	DtRelative       float64
	AbsoluteFraction float64
}

// Config is the full tunable state of a simulation. The zero value is not
// valid; start from DefaultConfig.
type Config struct {
	Dt        units.Seconds
	Substeps  uint32
	Softening units.Meters

	Solver             solvers.Type
	BarnesHutTheta     float64
	BarnesHutThreshold int
	FMMOrder           int

	Integrator integrators.Type
	Tolerance  float64

	CloseEncounter CloseEncounterConfig

	EnableAtmosphere         bool
	EnableDrag               bool
	EnableRadiationPressure  bool
	EnableTidalForces        bool
	EnableSphericalHarmonics bool
	EnableCollisions         bool

	RecenterThreshold units.Meters
}

// DefaultConfig is a direct-solver velocity-Verlet setup with every
// environment force enabled and one-minute ticks.
func DefaultConfig() Config {
	return Config{
		Dt:                 60.0,
		Substeps:           units.DefaultSubsteps,
		Softening:          units.DefaultSoftening,
		Solver:             solvers.Direct,
		BarnesHutTheta:     units.DefaultBarnesHutTheta,
		BarnesHutThreshold: 64,
		FMMOrder:           4,
		Integrator:         integrators.VelocityVerlet,
		Tolerance:          1e-9,
		// For an equal-mass pair the Hill radius is r·(m/3m)^(1/3) ≈ 0.69·r,
		// so at multiplier 1.0 it stays inside the separation and comparable
		// pairs only flag once the multiplier is raised past about 1.44.
		CloseEncounter: CloseEncounterConfig{
			Integrator:       EncounterRK45,
			RadiusMultiplier: 1.0,
			DtRelative:       0.05,
			AbsoluteFraction: 2.0,
		},
		EnableAtmosphere:         true,
		EnableDrag:               true,
		EnableRadiationPressure:  true,
		EnableTidalForces:        true,
		EnableSphericalHarmonics: true,
		EnableCollisions:         true,
		RecenterThreshold:        units.RecenterThreshold,
	}
}

// Validate rejects configurations the stepper cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt %g", ErrInvalidConfig, c.Dt)
	case c.Substeps < 1:
		return fmt.Errorf("%w: substeps %d", ErrInvalidConfig, c.Substeps)
	case c.Softening < 0:
		return fmt.Errorf("%w: softening %g", ErrInvalidConfig, c.Softening)
	case c.BarnesHutTheta <= 0:
		return fmt.Errorf("%w: barnes-hut theta %g", ErrInvalidConfig, c.BarnesHutTheta)
	case c.FMMOrder < 1:
		return fmt.Errorf("%w: fmm order %d", ErrInvalidConfig, c.FMMOrder)
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance %g", ErrInvalidConfig, c.Tolerance)
	}
	return nil
}
