package environment

import (
	"math"
	"testing"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

func sun() body.Body {
	s := body.New(1, "Sun", body.Star, units.MSun, units.RSun, vector.Zero, vector.Zero)
	s.Luminosity = units.LSun
	return s
}

// reflector is a 1 kg, ~1 m² perfect mirror.
func reflector(id uint32, distance float64) body.Body {
	r := body.New(id, "Sheet", body.ArtificialSatellite, 1, 0.564,
		vector.New(distance, 0, 0), vector.Zero)
	r.Albedo = 1
	return r
}

func TestRadiationPressureOneAU(t *testing.T) {
	bodies := []body.Body{sun(), reflector(2, units.AU)}

	acc := RadiationAccelerations(bodies)

	// Solar radiation pressure at 1 AU on a perfect 1 m² reflector:
	// (1361 W/m² / c) · 2 ≈ 9.12e-6 m/s² on 1 kg.
	const expected = 9.12e-6
	got := acc[1].Length()
	if math.Abs(got-expected)/expected > 0.1 {
		t.Errorf("radiation accel at 1 AU: got %.3e, want %.3e ±10%%", got, expected)
	}
	if acc[1].X <= 0 {
		t.Error("radiation pushes outward from the star")
	}
}

func TestRadiationInverseSquare(t *testing.T) {
	near := []body.Body{sun(), reflector(2, units.AU)}
	far := []body.Body{sun(), reflector(2, 2*units.AU)}

	a1 := RadiationAccelerations(near)[1].Length()
	a2 := RadiationAccelerations(far)[1].Length()

	if ratio := a1 / a2; math.Abs(ratio-4) > 0.01 {
		t.Errorf("1/r² scaling: ratio %v, want 4", ratio)
	}
}

func TestRadiationNeedsLuminousType(t *testing.T) {
	// A luminosity-carrying planet is invalid input; the force loop also
	// refuses to treat non-luminous types as emitters.
	p := body.New(1, "Hot", body.Planet, units.MEarth, units.REarth, vector.Zero, vector.Zero)
	p.Luminosity = units.LSun
	bodies := []body.Body{p, reflector(2, units.AU)}

	if acc := RadiationAccelerations(bodies); acc[1] != vector.Zero {
		t.Errorf("non-luminous type must not emit: got %v", acc[1])
	}
}

func TestRadiationAlbedoScaling(t *testing.T) {
	dark := reflector(2, units.AU)
	dark.Albedo = 0
	bodies := []body.Body{sun(), dark}
	aDark := RadiationAccelerations(bodies)[1].Length()

	bodies = []body.Body{sun(), reflector(2, units.AU)}
	aMirror := RadiationAccelerations(bodies)[1].Length()

	if ratio := aMirror / aDark; math.Abs(ratio-2) > 1e-9 {
		t.Errorf("perfect reflector doubles the force: ratio %v", ratio)
	}
}

func TestRadiationIgnoresInactiveEmitter(t *testing.T) {
	dead := sun()
	dead.Active = false
	bodies := []body.Body{dead, reflector(2, units.AU)}

	if acc := RadiationAccelerations(bodies); acc[1] != vector.Zero {
		t.Errorf("inactive star must not emit: got %v", acc[1])
	}
}

func TestRadiationSkipsInactive(t *testing.T) {
	sheet := reflector(2, units.AU)
	sheet.Active = false
	bodies := []body.Body{sun(), sheet}

	if acc := RadiationAccelerations(bodies); acc[1] != vector.Zero {
		t.Error("inactive body must not receive radiation pressure")
	}
}
