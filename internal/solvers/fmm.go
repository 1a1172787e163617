package solvers

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// FMMSolver evaluates far-field gravity from hierarchical multipole
// expansions carried to quadrupole terms, with the cell-opening distance
// shrinking as the expansion order grows. Below order 4 the expansion gains
// nothing over monopoles and the solver defers to exact summation behind the
// same interface.
type FMMSolver struct {
	Order int
}

func (s *FMMSolver) Type() Type { return FMM }

// cellMoments augments a tree node with the traceless quadrupole tensor
// Q = Σ m·(3·δr⊗δr − ‖δr‖²·I) about the node center of mass. Stored in a
// parallel array indexed by node.
type cellMoments struct {
	qxx, qyy, qzz float64
	qxy, qxz, qyz float64
}

func (s *FMMSolver) Accelerations(bodies []body.Body, softening float64) Result {
	if s.Order < 4 {
		r := DirectSolver{}.Accelerations(bodies, softening)
		r.MaxErrorEstimate = 0
		return r
	}

	n := len(bodies)
	res := Result{Accelerations: make([]vector.Vec3, n)}
	tree := buildOctree(bodies)
	if tree == nil {
		return res
	}
	moments := computeMoments(tree)
	eps2 := softening * softening

	// Acceptance distance tightens with order; the quadrupole term then
	// absorbs most of the residual so the effective error falls as
	// roughly theta^order.
	theta := 1.0 / float64(s.Order)

	stack := make([]int32, 0, 64)
	for i := 0; i < n; i++ {
		if !bodies[i].Active {
			continue
		}
		var acc vector.Vec3
		stack = stack[:0]
		stack = append(stack, 0)

		for len(stack) > 0 {
			ni := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := &tree.nodes[ni]
			if node.mass == 0 {
				continue
			}

			if node.leaf {
				if node.body == int32(i) {
					continue
				}
				acc = acc.Add(pairAccel(bodies[i].Position, node.com, node.mass, eps2))
				res.ForceEvaluations++
				continue
			}

			d := node.com.Sub(bodies[i].Position).Length()
			side := 2 * node.half
			if d > 0 && side/d < theta {
				acc = acc.Add(pairAccel(bodies[i].Position, node.com, node.mass, eps2))
				acc = acc.Add(quadrupoleAccel(bodies[i].Position, node.com, &moments[ni]))
				res.ForceEvaluations++
				ratio := side / d
				if est := math.Pow(ratio, float64(s.Order)); est > res.MaxErrorEstimate {
					res.MaxErrorEstimate = est
				}
				continue
			}
			for _, k := range node.kids {
				if k != 0 {
					stack = append(stack, k)
				}
			}
		}
		res.Accelerations[i] = acc
	}
	return res
}

// computeMoments fills the quadrupole tensor for every node from the source
// bodies it contains. One pass over bodies per root-to-leaf path keeps the
// build O(N log N).
func computeMoments(t *octree) []cellMoments {
	m := make([]cellMoments, len(t.nodes))
	for bi := range t.bodies {
		if !t.bodies[bi].IsSource() {
			continue
		}
		p := t.bodies[bi].Position
		mass := t.bodies[bi].Mass
		ni := int32(0)
		for {
			node := &t.nodes[ni]
			dr := p.Sub(node.com)
			r2 := dr.LengthSquared()
			mm := &m[ni]
			mm.qxx += mass * (3*dr.X*dr.X - r2)
			mm.qyy += mass * (3*dr.Y*dr.Y - r2)
			mm.qzz += mass * (3*dr.Z*dr.Z - r2)
			mm.qxy += mass * 3 * dr.X * dr.Y
			mm.qxz += mass * 3 * dr.X * dr.Z
			mm.qyz += mass * 3 * dr.Y * dr.Z
			if node.leaf {
				break
			}
			o := octant(node.center, p)
			if node.kids[o] == 0 {
				break
			}
			ni = node.kids[o]
		}
	}
	return m
}

// quadrupoleAccel adds the gradient of the quadrupole potential
// Φ₂ = −G·(r̂·Q·r̂)/(2r³) evaluated at the field point.
func quadrupoleAccel(at, com vector.Vec3, q *cellMoments) vector.Vec3 {
	dr := at.Sub(com)
	r2 := dr.LengthSquared()
	if r2 == 0 {
		return vector.Zero
	}
	r := math.Sqrt(r2)
	r5 := r2 * r2 * r

	// Qr = Q·dr
	qr := vector.New(
		q.qxx*dr.X+q.qxy*dr.Y+q.qxz*dr.Z,
		q.qxy*dr.X+q.qyy*dr.Y+q.qyz*dr.Z,
		q.qxz*dr.X+q.qyz*dr.Y+q.qzz*dr.Z,
	)
	rqr := dr.Dot(qr)

	// a = -∇Φ₂ = G·Qr/r⁵ − (5/2)·G·(dr·Qr)·dr/r⁷
	term1 := qr.Scale(units.G / r5)
	term2 := dr.Scale(-2.5 * units.G * rqr / (r5 * r2))
	return term1.Add(term2)
}
