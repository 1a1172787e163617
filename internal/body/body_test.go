package body

import (
	"math"
	"testing"

	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

func TestValidate(t *testing.T) {
	ok := New(1, "Earth", Planet, units.MEarth, units.REarth, vector.Zero, vector.Zero)
	if err := ok.Validate(); err != nil {
		t.Errorf("valid body rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Body)
	}{
		{"negative mass", func(b *Body) { b.Mass = -1 }},
		{"negative radius", func(b *Body) { b.Radius = -1 }},
		{"massless with mass", func(b *Body) { b.Massless = true }},
		{"massive with zero mass", func(b *Body) { b.Mass = 0 }},
		{"planet with luminosity", func(b *Body) { b.Luminosity = 1e20 }},
		{"albedo above one", func(b *Body) { b.Albedo = 1.5 }},
	}
	for _, tc := range tests {
		b := New(1, "X", Planet, 1e24, 1e6, vector.Zero, vector.Zero)
		tc.mutate(&b)
		if err := b.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestStarLuminosityAllowed(t *testing.T) {
	s := New(1, "Sun", Star, units.MSun, units.RSun, vector.Zero, vector.Zero)
	s.Luminosity = units.LSun
	if err := s.Validate(); err != nil {
		t.Errorf("luminous star rejected: %v", err)
	}
}

func TestTestParticle(t *testing.T) {
	p := NewTestParticle(7, "tracer", vector.New(units.AU, 0, 0), vector.Zero)
	if err := p.Validate(); err != nil {
		t.Errorf("test particle rejected: %v", err)
	}
	if p.IsSource() {
		t.Error("test particle must not be a gravity source")
	}
}

func TestInactiveNotSource(t *testing.T) {
	b := New(1, "X", Planet, 1e24, 1e6, vector.Zero, vector.Zero)
	b.Active = false
	if b.IsSource() {
		t.Error("inactive body must not be a gravity source")
	}
}

func TestAdvanceRotation(t *testing.T) {
	b := New(1, "X", Planet, 1e24, 1e6, vector.Zero, vector.Zero)
	b.Rotation.AngularSpeed = 1.0

	b.AdvanceRotation(1.5)
	if math.Abs(b.Rotation.Phase-1.5) > 1e-12 {
		t.Errorf("phase: got %v, want 1.5", b.Rotation.Phase)
	}

	b.AdvanceRotation(2 * math.Pi)
	if math.Abs(b.Rotation.Phase-1.5) > 1e-9 {
		t.Errorf("phase should wrap: got %v", b.Rotation.Phase)
	}
}

func TestMomentOfInertia(t *testing.T) {
	b := New(1, "X", Planet, 10, 2, vector.Zero, vector.Zero)
	if got := b.MomentOfInertia(); math.Abs(got-16) > 1e-12 {
		t.Errorf("I: got %v, want 16", got)
	}
}

func TestSurfaceGravity(t *testing.T) {
	e := New(1, "Earth", Planet, units.MEarth, units.REarth, vector.Zero, vector.Zero)
	g := e.SurfaceGravity()
	if math.Abs(g-9.8) > 0.1 {
		t.Errorf("surface gravity: got %v, want ~9.8", g)
	}
}
