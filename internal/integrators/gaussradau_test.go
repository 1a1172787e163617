package integrators

import (
	"math"
	"testing"
)

func TestGaussRadauEnergyConservation(t *testing.T) {
	drift := energyDrift(&GaussRadau15Integrator{Tolerance: 1e-9}, 3600, 100)
	if drift >= 1e-8 {
		t.Errorf("gauss-radau energy drift %.3e, want < 1e-8", drift)
	}
}

func TestGaussRadauBeatsVerlet(t *testing.T) {
	const (
		dt    = 3600.0
		steps = 200
	)
	gr := energyDrift(&GaussRadau15Integrator{Tolerance: 1e-9}, dt, steps)
	verlet := energyDrift(VerletIntegrator{}, dt, steps)

	if gr >= verlet {
		t.Errorf("gauss-radau drift %.3e should beat verlet %.3e at the same dt", gr, verlet)
	}
}

func TestGaussRadauStepContract(t *testing.T) {
	bodies := sunEarth()
	accel := gravityOnly(0)
	accel(bodies)

	res := (&GaussRadau15Integrator{Tolerance: 1e-9}).Step(bodies, accel, 3600)

	if !res.Accepted {
		t.Error("gauss-radau always accepts")
	}
	if res.DtActual != 3600 {
		t.Errorf("dt actual: got %v", res.DtActual)
	}
	if res.ErrorEstimate < 0 {
		t.Errorf("error estimate: got %v", res.ErrorEstimate)
	}
	// 7 node evaluations per iteration, at least two iterations, plus the
	// final recompute at the committed state.
	if res.ForceEvaluations == 0 {
		t.Error("force evaluations not counted")
	}
	for i := range bodies {
		if !bodies[i].IsFinite() {
			t.Fatalf("body %d non-finite", i)
		}
	}
}

func TestGaussRadauFrozenSystem(t *testing.T) {
	// Two distant bodies at rest: the series is flat and the step must be
	// numerically quiet.
	bodies := sunEarth()
	bodies[1].Velocity.X, bodies[1].Velocity.Y, bodies[1].Velocity.Z = 0, 0, 0
	accel := gravityOnly(0)
	accel(bodies)

	res := (&GaussRadau15Integrator{Tolerance: 1e-9}).Step(bodies, accel, 60)

	if !res.Accepted {
		t.Error("step should be accepted")
	}
	for i := range bodies {
		if !bodies[i].IsFinite() {
			t.Fatalf("body %d non-finite", i)
		}
	}
	// Freely falling bodies must approach each other.
	if bodies[1].Position.X >= sunEarth()[1].Position.X {
		t.Error("free fall should pull the planet inward")
	}
}

func TestNewtonToMonomialTable(t *testing.T) {
	// N_1(τ) = τ, so the table's second row is the identity on τ.
	if newtonToMonomial[1][1] != 1 || newtonToMonomial[1][0] != 0 {
		t.Errorf("N1 row wrong: %v", newtonToMonomial[1])
	}
	// N_2(τ) = τ(τ − h1) = τ² − h1·τ.
	if math.Abs(newtonToMonomial[2][1]+radauNodes[1]) > 1e-15 || newtonToMonomial[2][2] != 1 {
		t.Errorf("N2 row wrong: %v", newtonToMonomial[2])
	}
}
