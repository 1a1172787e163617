package integrators

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
)

// radauNodes are the Radau spacings over the unit step: the zero node plus
// the seven interior collocation points of the 15th-order scheme.
var radauNodes = [8]float64{
	0.0,
	0.0562625605369221464656521910318,
	0.1802406917368923649875799428204,
	0.3526247171131696373739077702066,
	0.5471536263305553830014485577329,
	0.7342101772154105315232106608127,
	0.8853209468390957680903597629310,
	0.9775206135612875018911745004950,
}

// newtonToMonomial[k][j] is the coefficient of τ^j in the Newton basis
// polynomial N_k(τ) = Π_{m<k}(τ − node_m). Converting the divided-difference
// coefficients g to the monomial series b is b_j = Σ_k g_k·c[k][j].
var newtonToMonomial = buildNewtonToMonomial()

func buildNewtonToMonomial() [8][8]float64 {
	var c [8][8]float64
	c[0][0] = 1
	for k := 1; k < 8; k++ {
		// N_k = N_{k-1} · (τ − node_{k-1})
		root := radauNodes[k-1]
		for j := k; j >= 1; j-- {
			c[k][j] = c[k-1][j-1] - root*c[k-1][j]
		}
		c[k][0] = -root * c[k-1][0]
	}
	return c
}

const (
	radauMinIterations = 2
	radauMaxIterations = 12
)

// GaussRadau15Integrator is a 15th-order implicit predictor-corrector on
// Radau spacings, the scheme of choice for close encounters and stiff
// configurations. Each iteration re-evaluates the force at the seven
// interior nodes and refits the acceleration polynomial; iteration stops
// when the highest retained coefficient is converged.
type GaussRadau15Integrator struct {
	Tolerance float64
}

func (g *GaussRadau15Integrator) Type() Type { return GaussRadau15 }

func (g *GaussRadau15Integrator) Step(bodies []body.Body, accel Accel, dt float64) Result {
	tol := g.Tolerance
	if tol <= 0 {
		tol = 1e-9
	}

	n := len(bodies)
	dim := 3 * n

	x0 := make([]float64, dim)
	v0 := make([]float64, dim)
	a0 := make([]float64, dim)
	for i := range bodies {
		x0[3*i+0], x0[3*i+1], x0[3*i+2] = bodies[i].Position.X, bodies[i].Position.Y, bodies[i].Position.Z
		v0[3*i+0], v0[3*i+1], v0[3*i+2] = bodies[i].Velocity.X, bodies[i].Velocity.Y, bodies[i].Velocity.Z
		a0[3*i+0], a0[3*i+1], a0[3*i+2] = bodies[i].Acceleration.X, bodies[i].Acceleration.Y, bodies[i].Acceleration.Z
	}

	// b[j] are the monomial coefficients of the acceleration series
	// a(τ) = a0 + Σ_{j=1..7} b_j·τ^j over the unit step.
	var b [8][]float64
	for j := 1; j < 8; j++ {
		b[j] = make([]float64, dim)
	}

	// nodeAccel[m] holds the force evaluation at interior node m (1..7).
	var nodeAccel [8][]float64
	nodeAccel[0] = a0
	for m := 1; m < 8; m++ {
		nodeAccel[m] = make([]float64, dim)
	}

	scratch := make([]body.Body, n)
	res := Result{DtActual: dt, Substeps: 1, Accepted: true}

	aScale := maxAbs(a0)
	if aScale == 0 {
		aScale = 1
	}

	prevB7 := make([]float64, dim)

	for iter := 0; iter < radauMaxIterations; iter++ {
		// Corrector sweep: evaluate the force at every interior node using
		// the current series.
		for m := 1; m < 8; m++ {
			tau := radauNodes[m]
			copy(scratch, bodies)
			for i := 0; i < n; i++ {
				if !scratch[i].Active {
					continue
				}
				px, py, pz := seriesPosition(x0, v0, a0, &b, dt, tau, 3*i)
				vx, vy, vz := seriesVelocity(v0, a0, &b, dt, tau, 3*i)
				scratch[i].Position.X, scratch[i].Position.Y, scratch[i].Position.Z = px, py, pz
				scratch[i].Velocity.X, scratch[i].Velocity.Y, scratch[i].Velocity.Z = vx, vy, vz
			}
			res.ForceEvaluations += accel(scratch)
			for i := 0; i < n; i++ {
				nodeAccel[m][3*i+0] = scratch[i].Acceleration.X
				nodeAccel[m][3*i+1] = scratch[i].Acceleration.Y
				nodeAccel[m][3*i+2] = scratch[i].Acceleration.Z
			}
		}

		// Refit: divided differences over the eight nodes, then convert the
		// Newton coefficients to the monomial series.
		fitSeries(&b, nodeAccel)

		// Convergence is judged on the change of the highest coefficient.
		delta := 0.0
		for c := 0; c < dim; c++ {
			if d := math.Abs(b[7][c] - prevB7[c]); d > delta {
				delta = d
			}
			prevB7[c] = b[7][c]
		}
		if iter+1 >= radauMinIterations && delta/aScale < tol {
			break
		}
	}

	// Advance to τ = 1 and commit.
	for i := 0; i < n; i++ {
		if !bodies[i].Active {
			continue
		}
		px, py, pz := seriesPosition(x0, v0, a0, &b, dt, 1, 3*i)
		vx, vy, vz := seriesVelocity(v0, a0, &b, dt, 1, 3*i)
		bodies[i].Position.X, bodies[i].Position.Y, bodies[i].Position.Z = px, py, pz
		bodies[i].Velocity.X, bodies[i].Velocity.Y, bodies[i].Velocity.Z = vx, vy, vz
		bodies[i].AdvanceRotation(dt)
	}
	res.ForceEvaluations += accel(bodies)

	// The highest retained coefficient over the dominant acceleration is
	// the classic Radau step-size diagnostic.
	res.ErrorEstimate = maxAbs(b[7]) / aScale
	if res.ErrorEstimate > 0 {
		res.DtNext = dt * math.Pow(tol/res.ErrorEstimate, 1.0/7.0)
	}
	return res
}

// fitSeries computes divided differences of the node accelerations over the
// Radau nodes and converts them to monomial coefficients b_1..b_7. The
// constant Newton coefficient reproduces a0 exactly, so b_0 is implicit.
func fitSeries(b *[8][]float64, nodeAccel [8][]float64) {
	dim := len(nodeAccel[0])

	// dd[k] is the k-th divided difference column, built in place.
	var dd [8][]float64
	for k := range dd {
		dd[k] = make([]float64, dim)
		copy(dd[k], nodeAccel[k])
	}
	for order := 1; order < 8; order++ {
		for k := 7; k >= order; k-- {
			span := radauNodes[k] - radauNodes[k-order]
			for c := 0; c < dim; c++ {
				dd[k][c] = (dd[k][c] - dd[k-1][c]) / span
			}
		}
	}
	// dd[k] now holds g_k, the Newton coefficient of N_k.

	for j := 1; j < 8; j++ {
		for c := 0; c < dim; c++ {
			s := 0.0
			for k := j; k < 8; k++ {
				s += dd[k][c] * newtonToMonomial[k][j]
			}
			b[j][c] = s
		}
	}
}

// seriesPosition integrates the acceleration series twice:
// x(τ) = x0 + v0·dt·τ + dt²·(a0·τ²/2 + Σ b_j·τ^{j+2}/((j+1)(j+2))).
func seriesPosition(x0, v0, a0 []float64, b *[8][]float64, dt, tau float64, at int) (float64, float64, float64) {
	var out [3]float64
	for c := 0; c < 3; c++ {
		s := a0[at+c] * tau * tau / 2
		tp := tau * tau
		for j := 1; j < 8; j++ {
			tp *= tau
			s += b[j][at+c] * tp / float64((j+1)*(j+2))
		}
		out[c] = x0[at+c] + v0[at+c]*dt*tau + dt*dt*s
	}
	return out[0], out[1], out[2]
}

// seriesVelocity integrates the series once:
// v(τ) = v0 + dt·(a0·τ + Σ b_j·τ^{j+1}/(j+1)).
func seriesVelocity(v0, a0 []float64, b *[8][]float64, dt, tau float64, at int) (float64, float64, float64) {
	var out [3]float64
	for c := 0; c < 3; c++ {
		s := a0[at+c] * tau
		tp := tau
		for j := 1; j < 8; j++ {
			tp *= tau
			s += b[j][at+c] * tp / float64(j+1)
		}
		out[c] = v0[at+c] + dt*s
	}
	return out[0], out[1], out[2]
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
