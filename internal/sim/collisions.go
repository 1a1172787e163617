package sim

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// resolveCollisions detects radius overlaps among active bodies and merges
// each colliding pair inelastically, then compacts the slice. Pairs are
// enumerated (i, j) with i < j in index order so the outcome is
// deterministic.
func (s *Simulation) resolveCollisions() {
	merged := false

	for i := 0; i < len(s.bodies); i++ {
		if !s.bodies[i].Active {
			continue
		}
		for j := i + 1; j < len(s.bodies); j++ {
			if !s.bodies[j].Active {
				continue
			}
			bi, bj := &s.bodies[i], &s.bodies[j]
			if bi.Mass+bj.Mass <= 0 {
				continue
			}
			sep := bi.Position.Sub(bj.Position).Length()
			if sep > bi.Radius+bj.Radius {
				continue
			}

			// Survivor is the more massive body, ties to the lower id.
			win, lose := bi, bj
			if bj.Mass > bi.Mass || (bj.Mass == bi.Mass && bj.ID < bi.ID) {
				win, lose = bj, bi
			}

			relSpeed := win.Velocity.Sub(lose.Velocity).Length()
			s.merge(win, lose)

			s.pushEvent(Event{
				Kind:          EventCollision,
				Tick:          s.tick,
				SurvivorID:    win.ID,
				AbsorbedID:    lose.ID,
				Separation:    sep,
				RelativeSpeed: relSpeed,
			})
			merged = true

			// If i was the lighter member it is now inactive; it must not
			// absorb anything else this tick.
			if !s.bodies[i].Active {
				break
			}
		}
	}

	if merged {
		s.compact()
		// Cached trees and accelerations are stale after any merge.
		s.accelInit = false
	}
}

// merge folds lose into win conserving mass, momentum, volume and angular
// momentum, then deactivates lose for the compaction pass.
func (s *Simulation) merge(win, lose *body.Body) {
	mTotal := win.Mass + lose.Mass

	dr := lose.Position.Sub(win.Position)
	dv := lose.Velocity.Sub(win.Velocity)

	// Spin: combine the two spin angular momenta with the orbital term of
	// the reduced mass, using solid-sphere inertia.
	spin := win.Rotation.Axis.Scale(win.MomentOfInertia() * win.Rotation.AngularSpeed).
		Add(lose.Rotation.Axis.Scale(lose.MomentOfInertia() * lose.Rotation.AngularSpeed))
	mReduced := win.Mass * lose.Mass / mTotal
	angular := spin.Add(dr.Cross(dv).Scale(mReduced))

	win.Position = win.Position.Scale(win.Mass / mTotal).Add(lose.Position.Scale(lose.Mass / mTotal))
	win.Velocity = win.Velocity.Scale(win.Mass / mTotal).Add(lose.Velocity.Scale(lose.Mass / mTotal))
	win.Radius = math.Cbrt(win.Radius*win.Radius*win.Radius + lose.Radius*lose.Radius*lose.Radius)
	win.Luminosity += lose.Luminosity
	win.Albedo = (win.Albedo*win.Mass + lose.Albedo*lose.Mass) / mTotal
	win.Mass = mTotal

	inertia := win.MomentOfInertia()
	if l := angular.Length(); l > 0 && inertia > 0 {
		win.Rotation.Axis = angular.Scale(1 / l)
		win.Rotation.AngularSpeed = l / inertia
	}

	lose.Active = false
	lose.Velocity = vector.Zero
	lose.Acceleration = vector.Zero
	s.removed = append(s.removed, lose.ID)
}

// compact drops the bodies absorbed by merges, preserving order. Ids are
// never reused; the id→index map is rebuilt lazily on next lookup.
func (s *Simulation) compact() {
	if len(s.removed) == 0 {
		return
	}
	gone := make(map[uint32]bool, len(s.removed))
	for _, id := range s.removed {
		gone[id] = true
	}
	kept := s.bodies[:0]
	for i := range s.bodies {
		if !gone[s.bodies[i].ID] {
			kept = append(kept, s.bodies[i])
		}
	}
	s.bodies = kept
	s.removed = s.removed[:0]
	s.idIndex = nil
}
