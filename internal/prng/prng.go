// Package prng implements PCG-XSH-RR (64-bit state, 32-bit output), the
// deterministic random source of the simulation. Given the same seed it
// produces identical sequences on every platform, and its full state can be
// captured and restored bit-exactly for checkpointing.
//
// Reference: https://www.pcg-random.org/
package prng

import "math/bits"

const (
	defaultInc = 1442695040888963407
	multiplier = 6364136223846793005
)

// PCG32 is a permuted congruential generator. The zero value is not usable;
// construct with New, WithStream or FromState.
type PCG32 struct {
	state uint64
	inc   uint64
}

// New returns a generator seeded with seed on the default stream. The first
// raw draw is discarded for better mixing.
func New(seed uint64) *PCG32 {
	r := &PCG32{state: 0, inc: defaultInc}
	r.state += seed
	r.NextU32()
	return r
}

// WithStream returns a generator on an independent stream. Streams are
// selected by the odd increment (stream<<1)|1, so any stream value is valid.
func WithStream(seed, stream uint64) *PCG32 {
	r := &PCG32{state: 0, inc: (stream << 1) | 1}
	r.state += seed
	r.NextU32()
	return r
}

// FromState restores a generator from a previously captured (state, inc)
// pair. The restored generator reproduces all subsequent draws bit-exactly.
func FromState(state, inc uint64) *PCG32 {
	return &PCG32{state: state, inc: inc}
}

// State returns the internal (state, inc) pair for serialization.
func (r *PCG32) State() (state, inc uint64) {
	return r.state, r.inc
}

// NextU32 advances the LCG and applies the XSH-RR output permutation.
func (r *PCG32) NextU32() uint32 {
	old := r.state
	r.state = old*multiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// NextU64 concatenates two 32-bit draws, high word first.
func (r *PCG32) NextU64() uint64 {
	high := uint64(r.NextU32())
	low := uint64(r.NextU32())
	return (high << 32) | low
}

// NextF64 returns a float64 in [0, 1) using 53 bits of randomness.
func (r *PCG32) NextF64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

// NextF64Range returns a float64 in [lo, hi).
func (r *PCG32) NextF64Range(lo, hi float64) float64 {
	return lo + r.NextF64()*(hi-lo)
}

// NextBounded returns a uniform value in [0, bound) using rejection sampling
// to avoid modulo bias. A bound of zero yields zero.
func (r *PCG32) NextBounded(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	threshold := -bound % bound
	for {
		v := r.NextU32()
		if v >= threshold {
			return v % bound
		}
	}
}
