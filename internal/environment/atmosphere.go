// Package environment implements the non-gravitational perturbations:
// atmospheric drag, solar radiation pressure, tidal quadrupole, and zonal
// spherical-harmonic gravity. Each model returns one acceleration vector per
// body; Accelerations composes the enabled models in a fixed order.
package environment

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
)

// cmbTemperature is the floor for the lapse-rate model, in kelvin.
const cmbTemperature = 2.7

// DensityAt returns atmospheric density at altitude h above the surface of
// b, following the exponential profile ρ(h) = ρ₀·exp(−h/H). Below the
// surface the profile clamps to ρ₀; a non-positive scale height means no
// atmosphere at any altitude.
func DensityAt(b *body.Body, altitude units.Meters) units.KgPerCubicMeter {
	atm := b.Atmosphere
	if atm == nil {
		return 0
	}
	if altitude < 0 {
		return atm.SurfaceDensity
	}
	if atm.ScaleHeight <= 0 {
		return 0
	}
	return atm.SurfaceDensity * math.Exp(-altitude/atm.ScaleHeight)
}

// PressureAt follows the same exponential law as DensityAt.
func PressureAt(b *body.Body, altitude units.Meters) units.Pascals {
	atm := b.Atmosphere
	if atm == nil {
		return 0
	}
	if altitude < 0 {
		return atm.SurfacePressure
	}
	if atm.ScaleHeight <= 0 {
		return 0
	}
	return atm.SurfacePressure * math.Exp(-altitude/atm.ScaleHeight)
}

// TemperatureAt applies a linear lapse rate λ = g·μ/(7R), the diatomic-air
// approximation, floored at the cosmic microwave background temperature.
func TemperatureAt(b *body.Body, altitude units.Meters) units.Kelvin {
	atm := b.Atmosphere
	if atm == nil {
		return cmbTemperature
	}
	lapse := b.SurfaceGravity() * atm.MolecularMass / (7.0 * units.RGas)
	return math.Max(cmbTemperature, atm.SurfaceTemperature-lapse*altitude)
}

// EffectiveHeight is the ceiling above which the atmosphere is ignored:
// 13.8 scale heights, where ρ/ρ₀ ≈ 10⁻⁶.
func EffectiveHeight(b *body.Body) units.Meters {
	if b.Atmosphere == nil {
		return 0
	}
	return b.Atmosphere.ScaleHeight * 13.8
}

// SpeedOfSound returns c = √(γ·R·T/μ) with γ = 1.4 for diatomic gas.
func SpeedOfSound(b *body.Body, altitude units.Meters) units.MetersPerSecond {
	atm := b.Atmosphere
	if atm == nil || atm.MolecularMass <= 0 {
		return 0
	}
	t := TemperatureAt(b, altitude)
	return math.Sqrt(1.4 * units.RGas * t / atm.MolecularMass)
}
