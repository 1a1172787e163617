package sim

import (
	"bytes"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/prng"
	"github.com/ali-albdaer/symplectica/internal/solvers"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// discSim builds a Sun-centered random asteroid disc from a dedicated
// generator seed, independent of the simulation's own stream.
func discSim(seed uint64, count int, cfg Config) *Simulation {
	s, err := WithConfig(42, cfg)
	Expect(err).NotTo(HaveOccurred())

	Expect(s.AddBody(body.New(0, "Sun", body.Star, units.MSun, units.RSun, vector.Zero, vector.Zero))).To(Succeed())

	rng := prng.New(seed)
	for i := 1; i <= count; i++ {
		distance := rng.NextF64Range(0.5*units.AU, 6.0*units.AU)
		angle := rng.NextF64() * 2 * math.Pi
		pos := vector.New(distance*math.Cos(angle), distance*math.Sin(angle), 0)
		v := math.Sqrt(units.G * units.MSun / distance)
		vel := vector.New(-v*math.Sin(angle), v*math.Cos(angle), 0)
		Expect(s.AddBody(body.New(uint32(i), "Asteroid", body.Asteroid, 1e15, 1000, pos, vel))).To(Succeed())
	}
	return s
}

var _ = Describe("end-to-end scenarios", func() {
	Describe("two-body circular orbit", func() {
		It("conserves energy through a year of hourly Verlet steps", func() {
			cfg := bareConfig()
			cfg.Dt = 3600
			s, err := WithConfig(1, cfg)
			Expect(err).NotTo(HaveOccurred())

			v := math.Sqrt(units.G * units.MSun / units.AU)
			Expect(s.AddBody(body.New(1, "Sun", body.Star, units.MSun, units.RSun, vector.Zero, vector.Zero))).To(Succeed())
			Expect(s.AddBody(body.New(2, "Earth", body.Planet, units.MEarth, units.REarth,
				vector.New(units.AU, 0, 0), vector.New(0, v, 0)))).To(Succeed())

			initial := s.TotalEnergy()
			Expect(s.StepMany(8760)).To(Succeed())
			drift := math.Abs((s.TotalEnergy() - initial) / initial)

			Expect(drift).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("solver divergence", func() {
		It("separates direct from Barnes–Hut at theta = 1.0 within one step", func() {
			mkCfg := func(t solvers.Type) Config {
				cfg := bareConfig()
				cfg.Softening = units.DefaultSoftening
				cfg.Solver = t
				cfg.BarnesHutTheta = 1.0
				cfg.BarnesHutThreshold = 0
				return cfg
			}

			// Sun plus asteroids fills the massive-body cap exactly.
			direct := discSim(7, units.MaxMassiveBodies-1, mkCfg(solvers.Direct))
			tree := discSim(7, units.MaxMassiveBodies-1, mkCfg(solvers.BarnesHut))

			Expect(direct.Step()).To(Succeed())
			Expect(tree.Step()).To(Succeed())

			maxDelta := 0.0
			for i := range direct.Bodies() {
				delta := direct.Bodies()[i].Position.Sub(tree.Bodies()[i].Position).Length()
				if delta > maxDelta {
					maxDelta = delta
				}
			}
			Expect(maxDelta).To(BeNumerically(">", 0))
		})
	})

	Describe("checkpoint mid-flight", func() {
		It("resumes bit-identically for a thousand ticks", func() {
			cfg := bareConfig()
			cfg.Softening = units.DefaultSoftening
			s := discSim(3, 40, cfg)
			Expect(s.StepMany(25)).To(Succeed())

			restored, err := Restore(s.Capture())
			Expect(err).NotTo(HaveOccurred())

			Expect(s.StepMany(1000)).To(Succeed())
			Expect(restored.StepMany(1000)).To(Succeed())

			Expect(bytes.Equal(s.Capture(), restored.Capture())).To(BeTrue())
		})
	})

	Describe("inelastic collision", func() {
		It("merges an overlapping pair conserving mass and momentum", func() {
			cfg := bareConfig()
			cfg.Dt = 1
			cfg.EnableCollisions = true
			s, err := WithConfig(5, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.AddBody(body.New(1, "A", body.Planet, 1e25, 1e6,
				vector.Zero, vector.New(120, 0, 0)))).To(Succeed())
			Expect(s.AddBody(body.New(2, "B", body.Planet, 1e25, 1e6,
				vector.New(1.8e6, 0, 0), vector.New(-40, 0, 0)))).To(Succeed())

			before := s.LinearMomentum()
			Expect(s.Step()).To(Succeed())

			Expect(s.Bodies()).To(HaveLen(1))
			merged := s.Bodies()[0]
			Expect(merged.Mass).To(BeNumerically("~", 2e25, 1e12))

			after := s.LinearMomentum()
			Expect(after.Sub(before).Length() / before.Length()).To(BeNumerically("<", 1e-10))
		})
	})

	Describe("radiation pressure", func() {
		It("pushes a perfect reflector at 1 AU by ~9.12e-6 m/s²", func() {
			cfg := bareConfig()
			cfg.Dt = 1
			cfg.EnableRadiationPressure = true
			s, err := WithConfig(8, cfg)
			Expect(err).NotTo(HaveOccurred())

			sun := body.New(1, "Sun", body.Star, units.MSun, units.RSun, vector.Zero, vector.Zero)
			sun.Luminosity = units.LSun
			Expect(s.AddBody(sun)).To(Succeed())

			v := math.Sqrt(units.G * units.MSun / units.AU)
			sheet := body.New(2, "Sheet", body.ArtificialSatellite, 1, 0.564,
				vector.New(units.AU, 0, 0), vector.New(0, v, 0))
			sheet.Albedo = 1
			Expect(s.AddBody(sheet)).To(Succeed())

			Expect(s.Step()).To(Succeed())

			// Total acceleration minus point gravity leaves the radiation
			// contribution.
			got := s.BodyByID(2).Acceleration
			gravity := vector.New(-units.G*units.MSun/(units.AU*units.AU), 0, 0)
			radial := got.Sub(gravity).X

			Expect(radial).To(BeNumerically("~", 9.12e-6, 9.12e-7))
		})
	})
})
