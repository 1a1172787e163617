package integrators

import "github.com/ali-albdaer/symplectica/internal/body"

// EulerIntegrator is explicit first-order Euler. Its secular energy drift
// makes it unsuitable for production runs; it exists as the accuracy
// baseline the symplectic schemes are compared against.
type EulerIntegrator struct{}

func (EulerIntegrator) Type() Type { return Euler }

func (EulerIntegrator) Step(bodies []body.Body, accel Accel, dt float64) Result {
	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity.Scale(dt))
		bodies[i].Velocity = bodies[i].Velocity.Add(bodies[i].Acceleration.Scale(dt))
		bodies[i].AdvanceRotation(dt)
	}

	evals := accel(bodies)

	return Result{
		DtActual:         dt,
		ForceEvaluations: evals,
		Substeps:         1,
		Accepted:         true,
	}
}
