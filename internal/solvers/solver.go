// Package solvers implements the gravitational force solvers: exact pairwise
// summation, a Barnes–Hut octree, and a multipole solver. All solvers share
// one contract: inactive bodies receive no acceleration, inactive or massless
// bodies are never sources, and close pairs are regularized with Plummer
// softening (r² := ‖r‖² + ε²).
package solvers

import (
	"fmt"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// Type selects a solver implementation.
type Type uint8

const (
	Direct Type = iota // exact O(N²)
	BarnesHut          // O(N log N), accuracy set by theta
	FMM                // multipole, accuracy set by order
)

func (t Type) String() string {
	switch t {
	case Direct:
		return "direct"
	case BarnesHut:
		return "barnes-hut"
	case FMM:
		return "fmm"
	default:
		return fmt.Sprintf("solver(%d)", uint8(t))
	}
}

// Result is the output of one full force evaluation.
type Result struct {
	// Accelerations is indexed like the input body slice.
	Accelerations []vector.Vec3
	// ForceEvaluations counts pair or node visits.
	ForceEvaluations uint64
	// MaxErrorEstimate is a solver-specific accuracy diagnostic; zero for
	// the exact solver.
	MaxErrorEstimate float64
}

// Solver computes gravitational accelerations for a body slice. Solvers are
// stateless strategies: they hold configuration only and may be called on any
// body slice.
type Solver interface {
	Accelerations(bodies []body.Body, softening float64) Result
	Type() Type
}

// New constructs a solver. Theta applies to Barnes–Hut, order to FMM.
func New(t Type, theta float64, order int) Solver {
	switch t {
	case BarnesHut:
		return &BarnesHutSolver{Theta: theta}
	case FMM:
		return &FMMSolver{Order: order}
	default:
		return DirectSolver{}
	}
}
