package integrators

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
)

// Dormand-Prince coefficients (RK45)
var (
	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	rk45Safety   = 0.9
	rk45MinScale = 0.1
	rk45MaxScale = 5.0
	rk45Retries  = 8
)

// RK45Integrator is the embedded Dormand–Prince 4(5) pair: a fifth-order
// solution with a fourth-order companion whose difference estimates the
// local error. Rejected attempts leave the bodies untouched; the step is
// retried at the proposed smaller dt up to a fixed number of times.
type RK45Integrator struct {
	Tolerance float64
}

func (r *RK45Integrator) Type() Type { return RK45 }

func (r *RK45Integrator) Step(bodies []body.Body, accel Accel, dt float64) Result {
	tol := r.Tolerance
	if tol <= 0 {
		tol = 1e-9
	}

	n := len(bodies)
	dim := 6 * n // position and velocity per body

	// y is the staging copy of the state; bodies are only written on accept.
	y := make([]float64, dim)
	readState(bodies, y)

	scratch := make([]body.Body, n)
	k := make([][]float64, 7)
	for s := range k {
		k[s] = make([]float64, dim)
	}
	ytmp := make([]float64, dim)

	res := Result{DtActual: dt}
	h := dt

	// deriv evaluates dy at the staged state, spending one force pass.
	deriv := func(ys, out []float64) {
		copy(scratch, bodies)
		writeState(scratch, ys)
		res.ForceEvaluations += accel(scratch)
		for i := 0; i < n; i++ {
			if !scratch[i].Active {
				for c := 0; c < 6; c++ {
					out[6*i+c] = 0
				}
				continue
			}
			out[6*i+0] = ys[6*i+3]
			out[6*i+1] = ys[6*i+4]
			out[6*i+2] = ys[6*i+5]
			out[6*i+3] = scratch[i].Acceleration.X
			out[6*i+4] = scratch[i].Acceleration.Y
			out[6*i+5] = scratch[i].Acceleration.Z
		}
	}

	for try := 0; try <= rk45Retries; try++ {
		res.Substeps++

		deriv(y, k[0])

		stage := func(out []float64, coeff ...float64) {
			for i := 0; i < dim; i++ {
				s := 0.0
				for c, w := range coeff {
					s += w * k[c][i]
				}
				out[i] = y[i] + h*s
			}
		}

		stage(ytmp, b21)
		deriv(ytmp, k[1])
		stage(ytmp, b31, b32)
		deriv(ytmp, k[2])
		stage(ytmp, b41, b42, b43)
		deriv(ytmp, k[3])
		stage(ytmp, b51, b52, b53, b54)
		deriv(ytmp, k[4])
		stage(ytmp, b61, b62, b63, b64, b65)
		deriv(ytmp, k[5])

		yNew := make([]float64, dim)
		for i := 0; i < dim; i++ {
			yNew[i] = y[i] + h*(c1*k[0][i]+c3*k[2][i]+c4*k[3][i]+c5*k[4][i]+c6*k[5][i])
		}
		deriv(yNew, k[6])

		// Error: fifth- minus fourth-order solution. Position residuals are
		// scaled by the largest position magnitude in the state and velocity
		// residuals by the largest velocity magnitude, so a body at rest at
		// the origin cannot dominate the estimate.
		posScale, velScale := 1e-10, 1e-10
		for i := 0; i < dim; i++ {
			m := math.Abs(y[i]) + math.Abs(h*k[0][i])
			if i%6 < 3 {
				posScale = math.Max(posScale, m)
			} else {
				velScale = math.Max(velScale, m)
			}
		}
		errMax := 0.0
		for i := 0; i < dim; i++ {
			est := h * (dc1*k[0][i] + dc3*k[2][i] + dc4*k[3][i] + dc5*k[4][i] + dc6*k[5][i] + dc7*k[6][i])
			scale := posScale
			if i%6 >= 3 {
				scale = velScale
			}
			if e := math.Abs(est) / scale; e > errMax {
				errMax = e
			}
		}
		res.ErrorEstimate = errMax

		var next float64
		if errMax > 0 {
			next = h * clamp(rk45Safety*math.Pow(tol/errMax, 0.2), rk45MinScale, rk45MaxScale)
		} else {
			next = h * rk45MaxScale
		}

		if errMax <= tol {
			// Accept: commit the staged state; k7's force pass already left
			// the scratch accelerations at the new state.
			writeState(bodies, yNew)
			for i := range bodies {
				if !bodies[i].Active {
					continue
				}
				bodies[i].Acceleration = scratch[i].Acceleration
				bodies[i].AdvanceRotation(h)
			}
			res.DtActual = h
			res.DtNext = next
			res.Accepted = true
			return res
		}
		h = next
	}

	res.DtActual = 0
	res.DtNext = h
	res.Accepted = false
	return res
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// readState flattens positions and velocities into y.
func readState(bodies []body.Body, y []float64) {
	for i := range bodies {
		y[6*i+0] = bodies[i].Position.X
		y[6*i+1] = bodies[i].Position.Y
		y[6*i+2] = bodies[i].Position.Z
		y[6*i+3] = bodies[i].Velocity.X
		y[6*i+4] = bodies[i].Velocity.Y
		y[6*i+5] = bodies[i].Velocity.Z
	}
}

// writeState is the inverse of readState; inactive bodies keep their state.
func writeState(bodies []body.Body, y []float64) {
	for i := range bodies {
		if !bodies[i].Active {
			continue
		}
		bodies[i].Position.X = y[6*i+0]
		bodies[i].Position.Y = y[6*i+1]
		bodies[i].Position.Z = y[6*i+2]
		bodies[i].Velocity.X = y[6*i+3]
		bodies[i].Velocity.Y = y[6*i+4]
		bodies[i].Velocity.Z = y[6*i+5]
	}
}
