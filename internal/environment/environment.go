package environment

import (
	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// Options selects which perturbation models run. Drag additionally requires
// the atmosphere model, mirroring the enable pair in the simulation config.
type Options struct {
	Atmosphere         bool
	Drag               bool
	RadiationPressure  bool
	TidalForces        bool
	SphericalHarmonics bool
}

// Accelerations sums every enabled model in a fixed order (drag, radiation,
// tidal, harmonics) so the floating-point result is reproducible.
func Accelerations(bodies []body.Body, opts Options) []vector.Vec3 {
	acc := make([]vector.Vec3, len(bodies))

	add := func(contrib []vector.Vec3) {
		for i := range acc {
			acc[i] = acc[i].Add(contrib[i])
		}
	}

	if opts.Atmosphere && opts.Drag {
		add(DragAccelerations(bodies))
	}
	if opts.RadiationPressure {
		add(RadiationAccelerations(bodies))
	}
	if opts.TidalForces {
		add(TidalAccelerations(bodies))
	}
	if opts.SphericalHarmonics {
		add(HarmonicAccelerations(bodies))
	}
	return acc
}
