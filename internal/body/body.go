// Package body defines the particle record of the simulation: identity,
// kinematics, and the static physical properties consumed by the force
// solvers and environment models.
package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// Type tags the physical class of a body. Luminous classes (Star,
// NeutronStar, WhiteDwarf) are the only ones allowed a nonzero luminosity.
type Type uint8

const (
	Star Type = iota
	NeutronStar
	WhiteDwarf
	Planet
	Moon
	Asteroid
	ArtificialSatellite
	TestParticle
)

func (t Type) String() string {
	switch t {
	case Star:
		return "star"
	case NeutronStar:
		return "neutron-star"
	case WhiteDwarf:
		return "white-dwarf"
	case Planet:
		return "planet"
	case Moon:
		return "moon"
	case Asteroid:
		return "asteroid"
	case ArtificialSatellite:
		return "satellite"
	case TestParticle:
		return "test-particle"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Luminous reports whether the type may carry a nonzero luminosity.
func (t Type) Luminous() bool {
	return t == Star || t == NeutronStar || t == WhiteDwarf
}

// AtmosphereParams describes an exponential atmosphere. The Rayleigh and Mie
// fields are optical scattering parameters carried through for renderers;
// the physics only reads the thermodynamic fields.
type AtmosphereParams struct {
	SurfacePressure    units.Pascals
	SurfaceDensity     units.KgPerCubicMeter
	ScaleHeight        units.Meters
	MolecularMass      units.KgPerMole
	SurfaceTemperature units.Kelvin

	RayleighCoefficients [3]float64
	MieCoefficient       float64
	MieDirection         float64
}

// GravityHarmonics describes the axisymmetric (zonal) deviation of a body's
// gravity field from a point mass. J[0] is J₂, J[1] is J₃, and so on. The
// tesseral coefficient slices are carried but empty by default.
type GravityHarmonics struct {
	ReferenceRadius units.Meters
	J               []float64
	TesseralC       []float64
	TesseralS       []float64
}

// RotationState is the spin of a body: a unit axis, an angular speed, and
// the accumulated phase angle.
type RotationState struct {
	Axis         vector.Vec3
	AngularSpeed units.RadiansPerSecond
	Phase        float64
}

// Body is one simulated object. ID and Name are immutable identity;
// Position, Velocity and Acceleration are mutated by the integrators; the
// remaining fields are static physical properties.
type Body struct {
	ID   uint32
	Name string
	Type Type

	Position     vector.Vec3
	Velocity     vector.Vec3
	Acceleration vector.Vec3

	Mass   units.Kilograms
	Radius units.Meters

	Active   bool
	Massless bool

	Luminosity units.Watts
	Albedo     float64

	Atmosphere *AtmosphereParams
	Harmonics  *GravityHarmonics

	Rotation RotationState
}

// New returns a massive, active body. The default rotation axis is +z with
// zero spin.
func New(id uint32, name string, t Type, mass units.Kilograms, radius units.Meters, pos, vel vector.Vec3) Body {
	return Body{
		ID:       id,
		Name:     name,
		Type:     t,
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
		Active:   true,
		Rotation: RotationState{Axis: vector.New(0, 0, 1)},
	}
}

// NewTestParticle returns a massless tracer. Test particles feel every force
// but exert none.
func NewTestParticle(id uint32, name string, pos, vel vector.Vec3) Body {
	b := New(id, name, TestParticle, 0, 0, pos, vel)
	b.Massless = true
	return b
}

var (
	errNegativeMass   = errors.New("body: negative mass")
	errNegativeRadius = errors.New("body: negative radius")
	errMasslessMass   = errors.New("body: massless body with nonzero mass")
	errMassiveZero    = errors.New("body: massive body with zero mass")
	errLuminosity     = errors.New("body: non-luminous type with luminosity")
	errAlbedo         = errors.New("body: albedo outside [0, 1]")
)

// Validate checks the structural invariants of the record.
func (b *Body) Validate() error {
	switch {
	case b.Mass < 0:
		return fmt.Errorf("%w: %q", errNegativeMass, b.Name)
	case b.Radius < 0:
		return fmt.Errorf("%w: %q", errNegativeRadius, b.Name)
	case b.Massless && b.Mass != 0:
		return fmt.Errorf("%w: %q", errMasslessMass, b.Name)
	case !b.Massless && b.Mass <= 0:
		return fmt.Errorf("%w: %q", errMassiveZero, b.Name)
	case b.Luminosity < 0 || (b.Luminosity > 0 && !b.Type.Luminous()):
		return fmt.Errorf("%w: %q", errLuminosity, b.Name)
	case b.Albedo < 0 || b.Albedo > 1:
		return fmt.Errorf("%w: %q", errAlbedo, b.Name)
	}
	return nil
}

// IsSource reports whether the body contributes gravity: it must be active
// and carry mass.
func (b *Body) IsSource() bool {
	return b.Active && !b.Massless && b.Mass > 0
}

// SurfaceGravity returns g = G·m/r² at the body surface, or zero for a body
// without a surface.
func (b *Body) SurfaceGravity() units.MetersPerSecond2 {
	if b.Radius <= 0 {
		return 0
	}
	return units.G * b.Mass / (b.Radius * b.Radius)
}

// MomentOfInertia approximates the body as a solid sphere, I = (2/5)·m·r².
func (b *Body) MomentOfInertia() float64 {
	return 0.4 * b.Mass * b.Radius * b.Radius
}

// CrossSection is the projected disc area π·r².
func (b *Body) CrossSection() float64 {
	return math.Pi * b.Radius * b.Radius
}

// AdvanceRotation accumulates spin phase over dt, wrapping into [0, 2π).
func (b *Body) AdvanceRotation(dt units.Seconds) {
	phase := math.Mod(b.Rotation.Phase+b.Rotation.AngularSpeed*dt, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	b.Rotation.Phase = phase
}

// IsFinite reports whether all kinematic fields are finite.
func (b *Body) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() && b.Acceleration.IsFinite()
}
