// Package integrators implements the time-stepping schemes: explicit Euler,
// two symplectic second-order schemes (Leapfrog, Velocity-Verlet), the
// embedded Dormand–Prince RK4(5) pair, and the 15th-order Gauss–Radau
// predictor-corrector. Integrators are stateless strategies: each Step call
// allocates its own scratch and leaves no state behind.
package integrators

import (
	"fmt"

	"github.com/ali-albdaer/symplectica/internal/body"
)

// Accel recomputes the total acceleration (gravity plus environment) for the
// given bodies in place and returns the number of force evaluations spent.
// Integrators call it whenever they need derivatives at a trial state.
type Accel func(bodies []body.Body) uint64

// Type selects an integration scheme.
type Type uint8

const (
	Euler Type = iota
	Leapfrog
	VelocityVerlet
	RK45
	GaussRadau15
)

func (t Type) String() string {
	switch t {
	case Euler:
		return "euler"
	case Leapfrog:
		return "leapfrog"
	case VelocityVerlet:
		return "velocity-verlet"
	case RK45:
		return "rk45"
	case GaussRadau15:
		return "gauss-radau"
	default:
		return fmt.Sprintf("integrator(%d)", uint8(t))
	}
}

// Result reports one Step call.
type Result struct {
	// DtActual is the timestep actually advanced; equal to the request for
	// fixed-step schemes, possibly smaller for adaptive ones.
	DtActual float64
	// ErrorEstimate is the local truncation error estimate; zero for
	// non-adaptive schemes.
	ErrorEstimate float64
	// ForceEvaluations counts full force recomputations times bodies.
	ForceEvaluations uint64
	// Substeps counts internal attempts, including rejected ones.
	Substeps uint32
	// Accepted is false only when an adaptive scheme exhausted its retries;
	// the bodies are then left untouched.
	Accepted bool
	// DtNext is the step the scheme proposes for the next call; zero when
	// the scheme has no preference.
	DtNext float64
}

// Integrator advances bodies by one step. Implementations require
// Body.Acceleration to be current on entry and guarantee it is current on
// exit.
type Integrator interface {
	Step(bodies []body.Body, accel Accel, dt float64) Result
	Type() Type
}

// New constructs an integrator. Tolerance applies to the adaptive schemes.
func New(t Type, tolerance float64) Integrator {
	switch t {
	case Euler:
		return EulerIntegrator{}
	case Leapfrog:
		return LeapfrogIntegrator{}
	case RK45:
		return &RK45Integrator{Tolerance: tolerance}
	case GaussRadau15:
		return &GaussRadau15Integrator{Tolerance: tolerance}
	default:
		return VerletIntegrator{}
	}
}
