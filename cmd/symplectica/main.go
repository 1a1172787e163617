// Command symplectica drives the N-body core from the terminal: run a
// scenario or preset, record conserved quantities, and inspect the result.
package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/config"
	"github.com/ali-albdaer/symplectica/internal/sim"
	"github.com/ali-albdaer/symplectica/internal/store"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

const version = "0.3.0"

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	seed       uint64
	discBodies int
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "symplectica",
		Short: "deterministic gravitational N-body simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".symplectica", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "two-body", "preset scenario")
	runCmd.Flags().IntVar(&steps, "steps", 0, "tick count (0 = scenario default)")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "override random seed")
	runCmd.Flags().IntVar(&discBodies, "disc", 0, "add N random disc bodies around the first body")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip run recording")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, name := range config.PresetNames() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d bodies\tdt=%gs\t%s\n", name, len(p.Bodies), p.Dt, p.Integrator)
			}
			w.Flush()
		},
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(dataDir)
			metas, err := st.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, m := range metas {
				fmt.Fprintf(w, "%s\tseed=%d\t%d steps\t%s/%s\n", m.ID, m.Seed, m.Steps, m.Integrator, m.Solver)
			}
			return w.Flush()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("symplectica", version)
		},
	}

	rootCmd.AddCommand(runCmd, presetsCmd, runsCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	default:
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset %q (see `symplectica presets`)", preset)
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if steps > 0 {
		cfg.Steps = steps
	}

	s, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}
	if discBodies > 0 {
		if err := addDisc(s, discBodies); err != nil {
			return err
		}
	}

	initialEnergy := s.TotalEnergy()
	samples := make([]store.Sample, 0, cfg.Steps+1)
	samples = append(samples, store.Snapshot(s))
	drift := make([]float64, 0, cfg.Steps)

	sampleEvery := cfg.Steps / 500
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	start := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		if err := s.Step(); err != nil {
			return err
		}
		if (i+1)%sampleEvery == 0 {
			samples = append(samples, store.Snapshot(s))
			if initialEnergy != 0 {
				drift = append(drift, math.Abs((s.TotalEnergy()-initialEnergy)/initialEnergy))
			}
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%d ticks in %s (%d bodies, t=%.4g s)\n",
		cfg.Steps, elapsed.Round(time.Millisecond), len(s.Bodies()), s.Time())
	if len(drift) > 1 {
		fmt.Println("\nrelative energy drift:")
		fmt.Println(asciigraph.Plot(drift, asciigraph.Height(10), asciigraph.Width(72)))
	}
	for _, e := range s.TakeEvents() {
		switch e.Kind {
		case sim.EventCollision:
			fmt.Printf("tick %d: collision, body %d absorbed %d\n", e.Tick, e.SurvivorID, e.AbsorbedID)
		case sim.EventCloseEncounter:
			fmt.Printf("tick %d: close encounter %d/%d (%s)\n", e.Tick, e.BodyA, e.BodyB, e.Integrator)
		case sim.EventRecenter:
			fmt.Printf("tick %d: recentered by %.3g m\n", e.Tick, e.Offset.Length())
		}
	}

	if noSave {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.Metadata{
		Preset:     preset,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Integrator: cfg.Integrator,
		Solver:     cfg.Solver,
	}, samples, s.Capture())
	if err != nil {
		return err
	}
	fmt.Println("saved run", runID)
	return nil
}

// addDisc spawns count asteroids on circular orbits around the first body,
// drawn from the simulation's own random source so the scene is a pure
// function of the seed.
func addDisc(s *sim.Simulation, count int) error {
	bodies := s.Bodies()
	if len(bodies) == 0 {
		return fmt.Errorf("disc needs a central body")
	}
	central := bodies[0]
	rng := s.Rand()
	maxID := uint32(0)
	for i := range bodies {
		if bodies[i].ID > maxID {
			maxID = bodies[i].ID
		}
	}
	for i := 0; i < count; i++ {
		distance := rng.NextF64Range(0.5*units.AU, 6.0*units.AU)
		angle := rng.NextF64() * 2 * math.Pi
		v := math.Sqrt(units.G * central.Mass / distance)
		b := body.New(
			maxID+uint32(i)+1,
			fmt.Sprintf("Asteroid%d", i+1),
			body.Asteroid,
			1e15, 1000.0,
			central.Position.Add(vectorFromPolar(distance, angle)),
			central.Velocity.Add(vectorFromPolar(v, angle+math.Pi/2)),
		)
		if err := s.AddBody(b); err != nil {
			return err
		}
	}
	return nil
}

func vectorFromPolar(r, angle float64) vector.Vec3 {
	return vector.New(r*math.Cos(angle), r*math.Sin(angle), 0)
}
