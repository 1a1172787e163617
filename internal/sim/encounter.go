package sim

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/integrators"
)

// detectCloseEncounters scans all active massive pairs before a substep of
// size dt and decides whether the step must run under the close-encounter
// integrator. A pair is flagged when its separation falls inside the scaled
// mutual Hill radius, when the nominal step would advance a body by more
// than the configured fraction of the separation, or when the separation
// drops under the configured multiple of the summed radii. Entering a window
// emits one close_encounter event per pair; the window closes when the pair
// no longer matches.
func (s *Simulation) detectCloseEncounters(dt float64) integrators.Integrator {
	ce := s.cfg.CloseEncounter
	if ce.RadiusMultiplier <= 0 && ce.DtRelative <= 0 && ce.AbsoluteFraction <= 0 {
		return nil
	}

	flagged := make(map[[2]uint32]bool)
	any := false

	for i := 0; i < len(s.bodies); i++ {
		if !s.bodies[i].IsSource() {
			continue
		}
		for j := i + 1; j < len(s.bodies); j++ {
			if !s.bodies[j].IsSource() {
				continue
			}
			bi, bj := &s.bodies[i], &s.bodies[j]
			rij := bj.Position.Sub(bi.Position)
			r := rij.Length()
			if r == 0 {
				continue
			}

			// Hill radius of the lighter body about the heavier one at the
			// current separation. For comparable masses this approaches the
			// separation itself, which is what makes the pair interesting.
			mSmall, mLarge := bi.Mass, bj.Mass
			if mSmall > mLarge {
				mSmall, mLarge = mLarge, mSmall
			}
			hill := r * math.Cbrt(mSmall/(3*mLarge))

			hit := false
			if ce.RadiusMultiplier > 0 && r < ce.RadiusMultiplier*hill {
				hit = true
			}
			if !hit && ce.DtRelative > 0 {
				vMax := math.Max(bi.Velocity.Length(), bj.Velocity.Length())
				if vMax*dt > ce.DtRelative*r {
					hit = true
				}
			}
			if !hit && ce.AbsoluteFraction > 0 && r < ce.AbsoluteFraction*(bi.Radius+bj.Radius) {
				hit = true
			}
			if !hit {
				continue
			}

			any = true
			key := pairKey(bi.ID, bj.ID)
			flagged[key] = true
			if !s.ceActive[key] {
				s.ceActive[key] = true

				// Predicted minimum separation over the step, from the
				// straight-line relative motion.
				vRel := bj.Velocity.Sub(bi.Velocity)
				minSep := math.Min(r, rij.Add(vRel.Scale(dt)).Length())

				s.pushEvent(Event{
					Kind:          EventCloseEncounter,
					Tick:          s.tick,
					BodyA:         bi.ID,
					BodyB:         bj.ID,
					MinSeparation: minSep,
					Integrator:    ce.Integrator.String(),
				})
			}
		}
	}

	// Close windows for pairs that separated again.
	for key := range s.ceActive {
		if !flagged[key] {
			delete(s.ceActive, key)
		}
	}

	if !any {
		return nil
	}
	switch ce.Integrator {
	case EncounterGaussRadau:
		return integrators.New(integrators.GaussRadau15, s.cfg.Tolerance)
	default:
		return integrators.New(integrators.RK45, s.cfg.Tolerance)
	}
}

func pairKey(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}
