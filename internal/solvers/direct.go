package solvers

import (
	"math"
	"runtime"
	"sync"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// DirectSolver performs exact pairwise summation. It is the reference the
// approximate solvers are measured against.
type DirectSolver struct{}

func (DirectSolver) Type() Type { return Direct }

// Accelerations sums G·mⱼ·rᵢⱼ/r³ over every source j for every active body i.
// The outer loop is chunked across workers; each body's accumulator is owned
// by exactly one worker and the inner loop runs in ascending index order, so
// the result is bit-identical for any worker count.
func (DirectSolver) Accelerations(bodies []body.Body, softening float64) Result {
	n := len(bodies)
	acc := make([]vector.Vec3, n)
	eps2 := softening * softening

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	evals := make([]uint64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if !bodies[i].Active {
					continue
				}
				for j := 0; j < n; j++ {
					if j == i || !bodies[j].IsSource() {
						continue
					}
					rij := bodies[j].Position.Sub(bodies[i].Position)
					r2 := rij.LengthSquared() + eps2
					r3 := r2 * math.Sqrt(r2)
					if r3 == 0 {
						continue
					}
					acc[i] = acc[i].Add(rij.Scale(units.G * bodies[j].Mass / r3))
					evals[w]++
				}
			}
		}(w, start, end)
	}
	wg.Wait()

	var total uint64
	for _, e := range evals {
		total += e
	}
	return Result{Accelerations: acc, ForceEvaluations: total, MaxErrorEstimate: 0}
}
