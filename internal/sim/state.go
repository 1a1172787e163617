// Package sim owns the simulation state and the tick loop: body ingress,
// integrator dispatch, the close-encounter switch, collision resolution,
// conserved-quantity aggregates, events, and checkpointing.
package sim

import (
	"fmt"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/environment"
	"github.com/ali-albdaer/symplectica/internal/integrators"
	"github.com/ali-albdaer/symplectica/internal/prng"
	"github.com/ali-albdaer/symplectica/internal/solvers"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// Simulation is one self-contained N-body system. It exclusively owns its
// bodies, random source and event queue; all mutation happens through the
// tick loop on a single goroutine.
type Simulation struct {
	bodies []body.Body
	cfg    Config
	rng    *prng.PCG32
	events []Event

	time units.Seconds
	tick uint64

	// accelInit records whether body accelerations are current; the first
	// step (and any body-set change) forces a recompute.
	accelInit bool

	// ceActive tracks the body pairs currently inside an encounter window
	// so each swap emits exactly one event.
	ceActive map[[2]uint32]bool

	// idIndex maps body id to slice index; rebuilt lazily after compaction.
	idIndex map[uint32]int

	// removed queues the ids absorbed by merges for the compaction pass.
	removed []uint32
}

// New creates a default-configured simulation from a seed.
func New(seed uint64) *Simulation {
	s, _ := WithConfig(seed, DefaultConfig())
	return s
}

// WithConfig creates a simulation with a full configuration.
func WithConfig(seed uint64, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:      cfg,
		rng:      prng.New(seed),
		ceActive: make(map[[2]uint32]bool),
	}, nil
}

// AddBody ingests a body. The id must be unique and the capacity limits
// (massive bodies, then total objects) must hold.
func (s *Simulation) AddBody(b body.Body) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for i := range s.bodies {
		if s.bodies[i].ID == b.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateBodyID, b.ID)
		}
	}
	if len(s.bodies) >= units.MaxTotalObjects {
		return fmt.Errorf("%w: %d objects", ErrCapacityExceeded, len(s.bodies))
	}
	if !b.Massless {
		massive := 0
		for i := range s.bodies {
			if !s.bodies[i].Massless {
				massive++
			}
		}
		if massive >= units.MaxMassiveBodies {
			return fmt.Errorf("%w: %d massive bodies", ErrCapacityExceeded, massive)
		}
	}
	s.bodies = append(s.bodies, b)
	s.accelInit = false
	s.idIndex = nil
	return nil
}

// Bodies exposes the body slice read-only; callers must not retain it across
// steps, as compaction renumbers indices.
func (s *Simulation) Bodies() []body.Body { return s.bodies }

// BodyByID resolves a body by its stable id, the only identity that survives
// compaction.
func (s *Simulation) BodyByID(id uint32) *body.Body {
	if s.idIndex == nil {
		s.idIndex = make(map[uint32]int, len(s.bodies))
		for i := range s.bodies {
			s.idIndex[s.bodies[i].ID] = i
		}
	}
	i, ok := s.idIndex[id]
	if !ok {
		return nil
	}
	return &s.bodies[i]
}

func (s *Simulation) Time() units.Seconds { return s.time }
func (s *Simulation) Tick() uint64        { return s.tick }
func (s *Simulation) Config() Config      { return s.cfg }

// Rand exposes the deterministic random source. Draws are reserved for the
// orchestrating goroutine; solver and integrator code never consumes it.
func (s *Simulation) Rand() *prng.PCG32 { return s.rng }

// SetCloseEncounterIntegrator swaps the scheme used inside encounter
// windows.
func (s *Simulation) SetCloseEncounterIntegrator(e EncounterIntegrator) {
	s.cfg.CloseEncounter.Integrator = e
}

// SetCloseEncounterThresholds overrides the proximity thresholds.
func (s *Simulation) SetCloseEncounterThresholds(radiusMultiplier, dtRelative, absoluteFraction float64) {
	s.cfg.CloseEncounter.RadiusMultiplier = radiusMultiplier
	s.cfg.CloseEncounter.DtRelative = dtRelative
	s.cfg.CloseEncounter.AbsoluteFraction = absoluteFraction
}

// solver picks the force solver for the current body count: the configured
// choice, upgraded to Barnes–Hut once the population crosses the threshold.
func (s *Simulation) solver() solvers.Solver {
	t := s.cfg.Solver
	if t == solvers.Direct && s.cfg.BarnesHutThreshold > 0 && len(s.bodies) > s.cfg.BarnesHutThreshold {
		t = solvers.BarnesHut
	}
	return solvers.New(t, s.cfg.BarnesHutTheta, s.cfg.FMMOrder)
}

func (s *Simulation) envOptions() environment.Options {
	return environment.Options{
		Atmosphere:         s.cfg.EnableAtmosphere,
		Drag:               s.cfg.EnableDrag,
		RadiationPressure:  s.cfg.EnableRadiationPressure,
		TidalForces:        s.cfg.EnableTidalForces,
		SphericalHarmonics: s.cfg.EnableSphericalHarmonics,
	}
}

// accelFunc composes gravity and environment into the closure handed to the
// integrators. Inactive bodies end with zero acceleration.
func (s *Simulation) accelFunc(solver solvers.Solver) integrators.Accel {
	opts := s.envOptions()
	softening := s.cfg.Softening
	return func(bodies []body.Body) uint64 {
		grav := solver.Accelerations(bodies, softening)
		env := environment.Accelerations(bodies, opts)
		for i := range bodies {
			if !bodies[i].Active {
				bodies[i].Acceleration = vector.Zero
				continue
			}
			bodies[i].Acceleration = grav.Accelerations[i].Add(env[i])
		}
		return grav.ForceEvaluations
	}
}
