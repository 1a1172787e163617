package integrators

import "github.com/ali-albdaer/symplectica/internal/body"

// VerletIntegrator is velocity-Verlet: symplectic, second order,
// time-reversible. Energy error stays bounded (oscillatory) over long
// integrations, which makes it the default scheme.
type VerletIntegrator struct{}

func (VerletIntegrator) Type() Type { return VelocityVerlet }

func (VerletIntegrator) Step(bodies []body.Body, accel Accel, dt float64) Result {
	half := 0.5 * dt

	// Half-kick with the accelerations carried over from the last step.
	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Velocity = bodies[i].Velocity.Add(bodies[i].Acceleration.Scale(half))
	}

	// Drift.
	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity.Scale(dt))
	}

	evals := accel(bodies)

	// Half-kick with the new accelerations.
	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Velocity = bodies[i].Velocity.Add(bodies[i].Acceleration.Scale(half))
		bodies[i].AdvanceRotation(dt)
	}

	return Result{
		DtActual:         dt,
		ForceEvaluations: evals,
		Substeps:         1,
		Accepted:         true,
	}
}

// LeapfrogIntegrator is the drift-kick-drift companion of velocity-Verlet.
// Same order, same symplectic character; kept as a separate scheme because
// the two interleave position and velocity updates differently.
type LeapfrogIntegrator struct{}

func (LeapfrogIntegrator) Type() Type { return Leapfrog }

func (LeapfrogIntegrator) Step(bodies []body.Body, accel Accel, dt float64) Result {
	half := 0.5 * dt

	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity.Scale(half))
	}

	evals := accel(bodies)

	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Velocity = bodies[i].Velocity.Add(bodies[i].Acceleration.Scale(dt))
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity.Scale(half))
		bodies[i].AdvanceRotation(dt)
	}

	// Leave accelerations current at the final positions for the next step.
	evals += accel(bodies)

	return Result{
		DtActual:         dt,
		ForceEvaluations: evals,
		Substeps:         1,
		Accepted:         true,
	}
}
