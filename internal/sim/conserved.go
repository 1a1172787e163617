package sim

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// TotalEnergy returns kinetic plus softened pairwise potential energy of the
// active bodies. The potential uses the same Plummer regularization as the
// force solvers so the two stay consistent.
func (s *Simulation) TotalEnergy() float64 {
	eps2 := s.cfg.Softening * s.cfg.Softening
	ke, pe := 0.0, 0.0
	for i := range s.bodies {
		if !s.bodies[i].Active {
			continue
		}
		ke += 0.5 * s.bodies[i].Mass * s.bodies[i].Velocity.LengthSquared()
		for j := i + 1; j < len(s.bodies); j++ {
			if !s.bodies[j].Active {
				continue
			}
			r := math.Sqrt(s.bodies[j].Position.Sub(s.bodies[i].Position).LengthSquared() + eps2)
			if r == 0 {
				continue
			}
			pe -= units.G * s.bodies[i].Mass * s.bodies[j].Mass / r
		}
	}
	return ke + pe
}

// LinearMomentum returns Σ m·v over active bodies.
func (s *Simulation) LinearMomentum() vector.Vec3 {
	var p vector.Vec3
	for i := range s.bodies {
		if !s.bodies[i].Active {
			continue
		}
		p = p.Add(s.bodies[i].Velocity.Scale(s.bodies[i].Mass))
	}
	return p
}

// AngularMomentum returns Σ m·(r × v) about the origin.
func (s *Simulation) AngularMomentum() vector.Vec3 {
	var l vector.Vec3
	for i := range s.bodies {
		if !s.bodies[i].Active {
			continue
		}
		l = l.Add(s.bodies[i].Position.Cross(s.bodies[i].Velocity).Scale(s.bodies[i].Mass))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position of active bodies, or
// the origin for a massless population.
func (s *Simulation) CenterOfMass() vector.Vec3 {
	var com vector.Vec3
	total := 0.0
	for i := range s.bodies {
		if !s.bodies[i].Active {
			continue
		}
		com = com.Add(s.bodies[i].Position.Scale(s.bodies[i].Mass))
		total += s.bodies[i].Mass
	}
	if total == 0 {
		return vector.Zero
	}
	return com.Scale(1 / total)
}
