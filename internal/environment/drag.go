package environment

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// DragCoefficientSphere is the drag coefficient assumed for every body.
const DragCoefficientSphere = 0.47

const (
	minDragDensity  = 1e-20
	minRelativeVel  = 1e-10
)

// DragAccelerations computes aerodynamic drag for every active body inside
// another body's atmosphere:
//
//	a = −½·ρ(h)·‖v_rel‖²·C_d·A·v̂_rel / m
//
// The atmosphere is taken to move with the bulk velocity of its planet;
// co-rotation of the air column is not modeled.
func DragAccelerations(bodies []body.Body) []vector.Vec3 {
	n := len(bodies)
	acc := make([]vector.Vec3, n)

	for i := 0; i < n; i++ {
		if !bodies[i].Active || bodies[i].Mass <= 0 {
			continue
		}
		area := bodies[i].CrossSection()
		if area <= 0 {
			continue
		}

		for j := 0; j < n; j++ {
			if j == i || !bodies[j].Active || bodies[j].Atmosphere == nil {
				continue
			}
			rij := bodies[i].Position.Sub(bodies[j].Position)
			altitude := rij.Length() - bodies[j].Radius
			if altitude < 0 || altitude > EffectiveHeight(&bodies[j]) {
				continue
			}

			rho := DensityAt(&bodies[j], altitude)
			if rho < minDragDensity {
				continue
			}

			vRel := bodies[i].Velocity.Sub(bodies[j].Velocity)
			speed := vRel.Length()
			if speed < minRelativeVel {
				continue
			}

			dragMag := 0.5 * rho * speed * speed * DragCoefficientSphere * area
			acc[i] = acc[i].Sub(vRel.Scale(dragMag / (speed * bodies[i].Mass)))
		}
	}
	return acc
}

// MachNumber is a diagnostic: the body's atmosphere-relative speed divided by
// the local speed of sound. Returns +Inf when the planet has no atmosphere;
// above the atmosphere's ceiling the speed of sound at the floored
// temperature is used, so the result stays finite.
func MachNumber(b, planet *body.Body) float64 {
	rij := b.Position.Sub(planet.Position)
	altitude := rij.Length() - planet.Radius
	c := SpeedOfSound(planet, altitude)
	if c <= 0 {
		return math.Inf(1)
	}
	return b.Velocity.Sub(planet.Velocity).Length() / c
}
