package sim

import (
	"fmt"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/integrators"
)

// maxSliceAttempts bounds how many accepted partial steps one substep may be
// sliced into before the tick is declared failed.
const maxSliceAttempts = 64

// Step advances one tick: initialize accelerations if stale, run the
// integrator over the configured substeps (swapping in the close-encounter
// scheme when a pair is flagged), resolve collisions, recenter if needed,
// then advance time. A failed step wraps ErrNumericalFailure and leaves the
// bodies, time and tick as they were before the step.
func (s *Simulation) Step() error {
	if len(s.bodies) == 0 {
		return fmt.Errorf("%w: step on empty body set", ErrInvalidConfig)
	}

	solver := s.solver()
	accel := s.accelFunc(solver)

	if !s.accelInit {
		accel(s.bodies)
		s.accelInit = true
	}

	integ := integrators.New(s.cfg.Integrator, s.cfg.Tolerance)
	sub := s.cfg.Substeps
	if sub < 1 {
		sub = 1
	}
	h := s.cfg.Dt / float64(sub)

	saved := append([]body.Body(nil), s.bodies...)
	fail := func(err error) error {
		copy(s.bodies, saved)
		return &StepError{Tick: s.tick, Time: s.time, Err: err}
	}

	for k := uint32(0); k < sub; k++ {
		// Adaptive integrators may accept less than the requested span;
		// keep stepping until the substep interval is consumed so a tick
		// always advances exactly cfg.Dt of simulated time.
		remaining := h
		for attempt := 0; remaining > h*1e-12; attempt++ {
			if attempt >= maxSliceAttempts {
				return fail(fmt.Errorf("%w: substep did not converge", ErrNumericalFailure))
			}

			step := integ
			if enc := s.detectCloseEncounters(remaining); enc != nil {
				step = enc
			}

			res := step.Step(s.bodies, accel, remaining)
			if !res.Accepted {
				return fail(fmt.Errorf("%w: %s rejected step after retries", ErrNumericalFailure, step.Type()))
			}
			for i := range s.bodies {
				if !s.bodies[i].IsFinite() {
					return fail(fmt.Errorf("%w: body %d non-finite", ErrNumericalFailure, s.bodies[i].ID))
				}
			}
			remaining -= res.DtActual
		}
	}

	if s.cfg.EnableCollisions {
		s.resolveCollisions()
	}
	s.recenterIfNeeded()

	s.time += s.cfg.Dt
	s.tick++
	return nil
}

// StepMany advances n ticks, stopping at the first failure.
func (s *Simulation) StepMany(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// recenterIfNeeded subtracts the center of mass from every position once a
// body has wandered past the floating-origin threshold and the common
// offset is itself significant. Relative coordinates, and therefore the
// physics, are unchanged; the shift is logged as a recenter event.
func (s *Simulation) recenterIfNeeded() {
	if s.cfg.RecenterThreshold <= 0 {
		return
	}
	exceeded := false
	for i := range s.bodies {
		if s.bodies[i].Active && s.bodies[i].Position.Length() > s.cfg.RecenterThreshold {
			exceeded = true
			break
		}
	}
	if !exceeded {
		return
	}
	offset := s.CenterOfMass()
	if offset.Length() <= s.cfg.RecenterThreshold {
		return
	}
	for i := range s.bodies {
		s.bodies[i].Position = s.bodies[i].Position.Sub(offset)
	}
	s.pushEvent(Event{Kind: EventRecenter, Tick: s.tick, Offset: offset})
}
