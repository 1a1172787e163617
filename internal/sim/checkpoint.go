package sim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/integrators"
	"github.com/ali-albdaer/symplectica/internal/prng"
	"github.com/ali-albdaer/symplectica/internal/solvers"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// checkpointVersion is bumped on any layout change.
const checkpointVersion uint32 = 1

// Capture serializes the full simulation state. All integers and IEEE-754
// binary64 floats are little-endian, fields are written in a fixed order,
// and no maps are involved, so capture → restore → capture is byte-identical.
func (s *Simulation) Capture() []byte {
	w := &cpWriter{}

	w.u32(checkpointVersion)
	w.u64(s.tick)
	w.f64(s.time)

	// Config.
	w.f64(s.cfg.Dt)
	w.u32(s.cfg.Substeps)
	w.f64(s.cfg.Softening)
	w.u8(uint8(s.cfg.Solver))
	w.f64(s.cfg.BarnesHutTheta)
	w.u32(uint32(s.cfg.BarnesHutThreshold))
	w.u32(uint32(s.cfg.FMMOrder))
	w.u8(uint8(s.cfg.Integrator))
	w.f64(s.cfg.Tolerance)
	w.u8(uint8(s.cfg.CloseEncounter.Integrator))
	w.f64(s.cfg.CloseEncounter.RadiusMultiplier)
	w.f64(s.cfg.CloseEncounter.DtRelative)
	w.f64(s.cfg.CloseEncounter.AbsoluteFraction)
	w.u8(packFlags(
		s.cfg.EnableAtmosphere,
		s.cfg.EnableDrag,
		s.cfg.EnableRadiationPressure,
		s.cfg.EnableTidalForces,
		s.cfg.EnableSphericalHarmonics,
		s.cfg.EnableCollisions,
	))
	w.f64(s.cfg.RecenterThreshold)
	w.u8(packFlags(s.accelInit))

	// PRNG.
	state, inc := s.rng.State()
	w.u64(state)
	w.u64(inc)

	// Bodies.
	w.u32(uint32(len(s.bodies)))
	for i := range s.bodies {
		writeBody(w, &s.bodies[i])
	}
	return w.buf
}

// Restore rebuilds a simulation from a Capture record. A restored
// simulation replays the exact tick sequence the original would have
// produced.
func Restore(data []byte) (*Simulation, error) {
	r := &cpReader{buf: data}

	if v := r.u32(); r.err == nil && v != checkpointVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCheckpointVersionMismatch, v, checkpointVersion)
	}

	s := &Simulation{ceActive: make(map[[2]uint32]bool)}
	s.tick = r.u64()
	s.time = r.f64()

	s.cfg.Dt = r.f64()
	s.cfg.Substeps = r.u32()
	s.cfg.Softening = r.f64()
	s.cfg.Solver = solvers.Type(r.u8())
	s.cfg.BarnesHutTheta = r.f64()
	s.cfg.BarnesHutThreshold = int(r.u32())
	s.cfg.FMMOrder = int(r.u32())
	s.cfg.Integrator = integrators.Type(r.u8())
	s.cfg.Tolerance = r.f64()
	s.cfg.CloseEncounter.Integrator = EncounterIntegrator(r.u8())
	s.cfg.CloseEncounter.RadiusMultiplier = r.f64()
	s.cfg.CloseEncounter.DtRelative = r.f64()
	s.cfg.CloseEncounter.AbsoluteFraction = r.f64()
	enables := r.u8()
	s.cfg.EnableAtmosphere = enables&1 != 0
	s.cfg.EnableDrag = enables&2 != 0
	s.cfg.EnableRadiationPressure = enables&4 != 0
	s.cfg.EnableTidalForces = enables&8 != 0
	s.cfg.EnableSphericalHarmonics = enables&16 != 0
	s.cfg.EnableCollisions = enables&32 != 0
	s.cfg.RecenterThreshold = r.f64()
	s.accelInit = r.u8()&1 != 0

	state := r.u64()
	inc := r.u64()
	s.rng = prng.FromState(state, inc)

	count := r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if int(count) > len(r.buf) { // cheap sanity bound before allocating
		return nil, fmt.Errorf("%w: body count %d", ErrCheckpointCorrupt, count)
	}
	s.bodies = make([]body.Body, 0, count)
	for i := uint32(0); i < count; i++ {
		b := readBody(r)
		if r.err != nil {
			return nil, r.err
		}
		s.bodies = append(s.bodies, b)
	}
	if r.err != nil {
		return nil, r.err
	}
	if len(r.buf[r.off:]) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCheckpointCorrupt, len(r.buf)-r.off)
	}
	return s, nil
}

func writeBody(w *cpWriter, b *body.Body) {
	w.u32(b.ID)
	w.str(b.Name)
	w.u8(uint8(b.Type))
	w.u8(packFlags(b.Active, b.Massless, b.Atmosphere != nil, b.Harmonics != nil))
	w.f64(b.Mass)
	w.f64(b.Radius)
	w.vec(b.Position)
	w.vec(b.Velocity)
	w.vec(b.Acceleration)
	w.f64(b.Luminosity)
	w.f64(b.Albedo)
	w.vec(b.Rotation.Axis)
	w.f64(b.Rotation.AngularSpeed)
	w.f64(b.Rotation.Phase)
	if b.Atmosphere != nil {
		a := b.Atmosphere
		w.f64(a.SurfacePressure)
		w.f64(a.SurfaceDensity)
		w.f64(a.ScaleHeight)
		w.f64(a.MolecularMass)
		w.f64(a.SurfaceTemperature)
		w.f64(a.RayleighCoefficients[0])
		w.f64(a.RayleighCoefficients[1])
		w.f64(a.RayleighCoefficients[2])
		w.f64(a.MieCoefficient)
		w.f64(a.MieDirection)
	}
	if b.Harmonics != nil {
		h := b.Harmonics
		w.f64(h.ReferenceRadius)
		w.floats(h.J)
		w.floats(h.TesseralC)
		w.floats(h.TesseralS)
	}
}

func readBody(r *cpReader) body.Body {
	var b body.Body
	b.ID = r.u32()
	b.Name = r.str()
	b.Type = body.Type(r.u8())
	flags := r.u8()
	b.Active = flags&1 != 0
	b.Massless = flags&2 != 0
	hasAtm := flags&4 != 0
	hasHarm := flags&8 != 0
	b.Mass = r.f64()
	b.Radius = r.f64()
	b.Position = r.vec()
	b.Velocity = r.vec()
	b.Acceleration = r.vec()
	b.Luminosity = r.f64()
	b.Albedo = r.f64()
	b.Rotation.Axis = r.vec()
	b.Rotation.AngularSpeed = r.f64()
	b.Rotation.Phase = r.f64()
	if hasAtm {
		a := &body.AtmosphereParams{}
		a.SurfacePressure = r.f64()
		a.SurfaceDensity = r.f64()
		a.ScaleHeight = r.f64()
		a.MolecularMass = r.f64()
		a.SurfaceTemperature = r.f64()
		a.RayleighCoefficients[0] = r.f64()
		a.RayleighCoefficients[1] = r.f64()
		a.RayleighCoefficients[2] = r.f64()
		a.MieCoefficient = r.f64()
		a.MieDirection = r.f64()
		b.Atmosphere = a
	}
	if hasHarm {
		h := &body.GravityHarmonics{}
		h.ReferenceRadius = r.f64()
		h.J = r.floats()
		h.TesseralC = r.floats()
		h.TesseralS = r.floats()
		b.Harmonics = h
	}
	return b
}

func packFlags(flags ...bool) uint8 {
	var v uint8
	for i, f := range flags {
		if f {
			v |= 1 << i
		}
	}
	return v
}

// cpWriter appends little-endian fields to a growing buffer.
type cpWriter struct {
	buf []byte
}

func (w *cpWriter) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *cpWriter) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *cpWriter) u64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *cpWriter) f64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}
func (w *cpWriter) vec(v vector.Vec3) {
	w.f64(v.X)
	w.f64(v.Y)
	w.f64(v.Z)
}
func (w *cpWriter) str(s string) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}
func (w *cpWriter) floats(v []float64) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(v)))
	for _, f := range v {
		w.f64(f)
	}
}

// cpReader consumes little-endian fields, latching the first error.
type cpReader struct {
	buf []byte
	off int
	err error
}

func (r *cpReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrCheckpointCorrupt, r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *cpReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *cpReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *cpReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *cpReader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *cpReader) vec() vector.Vec3 {
	return vector.Vec3{X: r.f64(), Y: r.f64(), Z: r.f64()}
}

func (r *cpReader) str() string {
	n := r.take(2)
	if n == nil {
		return ""
	}
	b := r.take(int(binary.LittleEndian.Uint16(n)))
	return string(b)
}

func (r *cpReader) floats() []float64 {
	n := r.take(2)
	if n == nil {
		return nil
	}
	count := int(binary.LittleEndian.Uint16(n))
	if count == 0 {
		return nil
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = r.f64()
	}
	return out
}
