package environment

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// minRadiationDistance guards the flux singularity at the emitter center.
const minRadiationDistance = 1.0

// RadiationAccelerations computes radiation pressure from every luminous
// body on every other active body:
//
//	flux = L/(4π·r²)
//	a    = (flux/c)·A·(1 + albedo)·r̂ / m
//
// with r̂ pointing outward from the emitter.
func RadiationAccelerations(bodies []body.Body) []vector.Vec3 {
	n := len(bodies)
	acc := make([]vector.Vec3, n)

	// Enumerate emitters once; most systems hold at most a few.
	var stars []int
	for s := 0; s < n; s++ {
		if bodies[s].Active && bodies[s].Luminosity > 0 && bodies[s].Type.Luminous() {
			stars = append(stars, s)
		}
	}
	if len(stars) == 0 {
		return acc
	}

	for i := 0; i < n; i++ {
		if !bodies[i].Active || bodies[i].Mass <= 0 {
			continue
		}
		area := bodies[i].CrossSection()
		if area <= 0 {
			continue
		}

		for _, s := range stars {
			if s == i {
				continue
			}
			rij := bodies[i].Position.Sub(bodies[s].Position)
			r2 := rij.LengthSquared()
			r := math.Sqrt(r2)
			if r < minRadiationDistance {
				continue
			}

			flux := bodies[s].Luminosity / (4 * math.Pi * r2)
			force := (flux / units.C) * area * (1 + bodies[i].Albedo)
			acc[i] = acc[i].Add(rij.Scale(force / (bodies[i].Mass * r)))
		}
	}
	return acc
}
