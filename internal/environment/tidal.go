package environment

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// TidalAccelerations computes the body-averaged quadrupolar tide raised on
// each extended body by every massive source:
//
//	a ≈ ½·G·m·(R/r)²/r · r̂
//
// This is a radial heuristic for the net effect of the tidal bulge, not a
// rigorous quadrupole expansion; torques and deformation are out of scope.
func TidalAccelerations(bodies []body.Body) []vector.Vec3 {
	n := len(bodies)
	acc := make([]vector.Vec3, n)

	for i := 0; i < n; i++ {
		if !bodies[i].Active || bodies[i].Radius <= 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if j == i || !bodies[j].IsSource() {
				continue
			}
			rij := bodies[j].Position.Sub(bodies[i].Position)
			r := rij.Length()
			if r < 1 {
				continue
			}
			ratio := bodies[i].Radius / r
			mag := 0.5 * units.G * bodies[j].Mass * ratio * ratio / r
			acc[i] = acc[i].Add(rij.Scale(mag / r))
		}
	}
	return acc
}

// RocheLimit returns the fluid-body Roche limit for a satellite around a
// primary using the density-ratio formula
//
//	R ≈ 2.46·R_primary·(ρ_primary/ρ_satellite)^(1/3)
//
// Zero is returned when either body has no usable radius or density.
func RocheLimit(primary, satellite *body.Body) units.Meters {
	if primary.Radius <= 0 || satellite.Radius <= 0 {
		return 0
	}
	volP := (4.0 / 3.0) * math.Pi * primary.Radius * primary.Radius * primary.Radius
	volS := (4.0 / 3.0) * math.Pi * satellite.Radius * satellite.Radius * satellite.Radius
	rhoP := primary.Mass / volP
	rhoS := satellite.Mass / volS
	if rhoS <= 0 {
		return 0
	}
	return 2.46 * primary.Radius * math.Cbrt(rhoP/rhoS)
}

// LoveNumber estimates the tidal Love number k₂ from the body class.
func LoveNumber(b *body.Body) float64 {
	switch b.Type {
	case body.Star:
		return 0.01
	case body.Planet:
		return 0.3
	case body.Moon:
		return 0.03
	case body.Asteroid:
		return 0.001
	case body.NeutronStar:
		return 0.05
	default:
		return 0.1
	}
}
