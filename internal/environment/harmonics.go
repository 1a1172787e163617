package environment

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// HarmonicAccelerations computes the zonal spherical-harmonic gravity
// corrections raised by every body carrying GravityHarmonics. At the field
// point the spherical components are
//
//	a_r += −(n+1)·μ/r²·(R/r)ⁿ·Jₙ·Pₙ(cos θ)
//	a_θ += μ/r²·(R/r)ⁿ·Jₙ·(−sin θ)·P′ₙ(cos θ)
//
// with μ = G·m and θ the colatitude from the source pole. The pole is
// assumed aligned with the world z-axis; axial tilt is not modeled.
func HarmonicAccelerations(bodies []body.Body) []vector.Vec3 {
	n := len(bodies)
	acc := make([]vector.Vec3, n)

	for i := 0; i < n; i++ {
		if !bodies[i].Active {
			continue
		}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			h := bodies[j].Harmonics
			if h == nil || len(h.J) == 0 || !bodies[j].IsSource() || h.ReferenceRadius <= 0 {
				continue
			}

			rij := bodies[i].Position.Sub(bodies[j].Position)
			r := rij.Length()
			if r < 1 {
				continue
			}
			rInv := 1 / r
			mu := units.G * bodies[j].Mass

			cosTheta := rij.Z * rInv
			sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

			rHat := rij.Scale(rInv)
			thetaHat := colatitudeUnit(rij, r, cosTheta, sinTheta)

			var aR, aTheta float64
			for k, jn := range h.J {
				order := k + 2 // J[0] is J₂
				ratioN := math.Pow(h.ReferenceRadius*rInv, float64(order))
				pn, dpn := legendre(order, cosTheta)
				aR += -float64(order+1) * mu * rInv * rInv * ratioN * jn * pn
				aTheta += mu * rInv * rInv * ratioN * jn * (-sinTheta * dpn)
			}

			acc[i] = acc[i].Add(rHat.Scale(aR)).Add(thetaHat.Scale(aTheta))
		}
	}
	return acc
}

// colatitudeUnit returns θ̂, the unit vector of increasing colatitude at the
// field point. Degenerate on the pole axis, where any equatorial direction
// serves.
func colatitudeUnit(rij vector.Vec3, r, cosTheta, sinTheta float64) vector.Vec3 {
	if sinTheta <= 1e-10 {
		return vector.New(1, 0, 0)
	}
	// θ̂ = (cosθ·r̂ − ẑ)/sinθ
	return vector.New(
		cosTheta*rij.X/r,
		cosTheta*rij.Y/r,
		cosTheta*rij.Z/r-1,
	).Scale(1 / sinTheta).Normalized()
}

// legendre evaluates Pₙ(x) and dPₙ/dx with the standard three-term
// recurrences.
func legendre(n int, x float64) (p, dp float64) {
	if n == 0 {
		return 1, 0
	}
	if n == 1 {
		return x, 1
	}
	pPrev, pCur := 1.0, x
	dpPrev, dpCur := 0.0, 1.0
	for k := 2; k <= n; k++ {
		kf := float64(k)
		pNext := ((2*kf-1)*x*pCur - (kf-1)*pPrev) / kf
		dpNext := ((2*kf-1)*(pCur+x*dpCur) - (kf-1)*dpPrev) / kf
		pPrev, pCur = pCur, pNext
		dpPrev, dpCur = dpCur, dpNext
	}
	return pCur, dpCur
}
