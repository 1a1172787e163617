package solvers

import (
	"math"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// BarnesHutSolver approximates far-field gravity with octree monopoles. A
// node of side s at distance d from the evaluation point is accepted when
// s/d < Theta; otherwise its children are visited. Theta in (0, ~1.2] trades
// accuracy for speed, with 0.5 the reference accuracy point.
type BarnesHutSolver struct {
	Theta float64
}

func (s *BarnesHutSolver) Type() Type { return BarnesHut }

const noBody = -1

// octNode is one arena slot. Children index into the arena; a child of zero
// means empty (slot zero is the root and can never be a child).
type octNode struct {
	center vector.Vec3 // cube center
	half   float64     // half side length
	com    vector.Vec3 // center of mass (accumulated as Σ m·x until finalize)
	mass   float64
	body   int32 // body index for single-body leaves, noBody otherwise
	leaf   bool
	kids   [8]int32
}

// octree is a node arena rebuilt for every force evaluation.
type octree struct {
	nodes  []octNode
	bodies []body.Body
}

func buildOctree(bodies []body.Body) *octree {
	// Bounding cube over all active sources.
	lo := vector.New(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := vector.New(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	count := 0
	for i := range bodies {
		if !bodies[i].IsSource() {
			continue
		}
		p := bodies[i].Position
		lo = vector.New(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = vector.New(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
		count++
	}
	if count == 0 {
		return nil
	}

	center := lo.Add(hi).Scale(0.5)
	half := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z)) * 0.5
	if half == 0 {
		half = 1
	}
	// Slack keeps boundary bodies strictly inside the root cube.
	half *= 1.001

	t := &octree{
		nodes:  make([]octNode, 1, 2*count+1),
		bodies: bodies,
	}
	t.nodes[0] = octNode{center: center, half: half, body: noBody, leaf: true}

	for i := range bodies {
		if bodies[i].IsSource() {
			t.insert(0, int32(i))
		}
	}
	t.finalize(0)
	return t
}

// octant returns the child index for a position relative to a node center.
func octant(c vector.Vec3, p vector.Vec3) int {
	o := 0
	if p.X >= c.X {
		o |= 1
	}
	if p.Y >= c.Y {
		o |= 2
	}
	if p.Z >= c.Z {
		o |= 4
	}
	return o
}

func (t *octree) insert(ni int32, bi int32) {
	for {
		n := &t.nodes[ni]
		p := t.bodies[bi].Position
		n.mass += t.bodies[bi].Mass
		n.com = n.com.Add(p.Scale(t.bodies[bi].Mass))

		if n.leaf {
			if n.body == noBody {
				n.body = bi
				return
			}
			// Split: push the resident body down, then continue with the
			// new one. Coincident bodies would recurse forever, so stop
			// subdividing below a minimal cell size and keep the leaf as a
			// merged monopole.
			if n.half < 1e-6 {
				return
			}
			old := n.body
			n.body = noBody
			n.leaf = false
			t.pushDown(ni, old)
			n = &t.nodes[ni]
		}

		o := octant(n.center, p)
		if n.kids[o] == 0 {
			t.kids(ni, o)
			n = &t.nodes[ni]
		}
		ni = n.kids[o]
		// The child accumulates mass on the next pass of the loop.
	}
}

// kids allocates the child cube in octant o.
func (t *octree) kids(ni int32, o int) {
	n := t.nodes[ni]
	h := n.half * 0.5
	c := n.center
	off := vector.New(-h, -h, -h)
	if o&1 != 0 {
		off.X = h
	}
	if o&2 != 0 {
		off.Y = h
	}
	if o&4 != 0 {
		off.Z = h
	}
	t.nodes = append(t.nodes, octNode{center: c.Add(off), half: h, body: noBody, leaf: true})
	t.nodes[ni].kids[o] = int32(len(t.nodes) - 1)
}

// pushDown reinserts a body into the child octant without re-adding its mass
// to the current node (already accounted).
func (t *octree) pushDown(ni int32, bi int32) {
	p := t.bodies[bi].Position
	n := &t.nodes[ni]
	o := octant(n.center, p)
	if n.kids[o] == 0 {
		t.kids(ni, o)
		n = &t.nodes[ni]
	}
	ci := n.kids[o]
	c := &t.nodes[ci]
	c.mass += t.bodies[bi].Mass
	c.com = c.com.Add(p.Scale(t.bodies[bi].Mass))
	c.body = bi
}

// finalize converts accumulated Σ m·x into centers of mass.
func (t *octree) finalize(ni int32) {
	n := &t.nodes[ni]
	if n.mass > 0 {
		n.com = n.com.Scale(1 / n.mass)
	}
	for _, k := range n.kids {
		if k != 0 {
			t.finalize(k)
		}
	}
}

// Accelerations walks the tree once per active body. MaxErrorEstimate is the
// largest s/d ratio actually accepted, a diagnostic of the worst monopole
// substitution performed.
func (s *BarnesHutSolver) Accelerations(bodies []body.Body, softening float64) Result {
	n := len(bodies)
	res := Result{Accelerations: make([]vector.Vec3, n)}
	tree := buildOctree(bodies)
	if tree == nil {
		return res
	}
	eps2 := softening * softening

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
			if d > 0 && side/d < s.Theta {
				acc = acc.Add(pairAccel(bodies[i].Position, node.com, node.mass, eps2))
				res.ForceEvaluations++
				if ratio := side / d; ratio > res.MaxErrorEstimate {
					res.MaxErrorEstimate = ratio
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

// pairAccel is the softened monopole kernel shared by the tree walks.
func pairAccel(at, src vector.Vec3, mass, eps2 float64) vector.Vec3 {
	rij := src.Sub(at)
	r2 := rij.LengthSquared() + eps2
	r3 := r2 * math.Sqrt(r2)
	if r3 == 0 {
		return vector.Zero
	}
	return rij.Scale(units.G * mass / r3)
}
