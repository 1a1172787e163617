package sim

import (
	"testing"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

// closePair builds two planets near their mutual Hill radius with very
// permissive switch thresholds, so one step is guaranteed to trigger the
// close-encounter integrator.
func closePair(t *testing.T) *Simulation {
	t.Helper()
	cfg := bareConfig()
	cfg.Dt = 1
	s, err := WithConfig(123, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, body.New(1, "A", body.Planet, 1e25, 1e6, vector.Zero, vector.Zero))
	mustAdd(t, s, body.New(2, "B", body.Planet, 1e25, 1e6, vector.New(1e7, 0, 0), vector.Zero))
	s.SetCloseEncounterThresholds(3.0, 1e-6, 1e-6)
	return s
}

func TestCloseEncounterSwitchRK45LogsEvent(t *testing.T) {
	s := closePair(t)
	s.SetCloseEncounterIntegrator(EncounterRK45)

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	events := s.TakeCloseEncounterEvents()
	if len(events) == 0 {
		t.Fatal("expected at least one close-encounter event")
	}
	if events[0].Integrator != "rk45" {
		t.Errorf("integrator label: got %q, want rk45", events[0].Integrator)
	}
	if events[0].BodyA != 1 || events[0].BodyB != 2 {
		t.Errorf("pair ids: got %d/%d", events[0].BodyA, events[0].BodyB)
	}
}

func TestCloseEncounterSwitchGaussRadauLogsEvent(t *testing.T) {
	s := closePair(t)
	s.SetCloseEncounterIntegrator(EncounterGaussRadau)

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	events := s.TakeCloseEncounterEvents()
	if len(events) == 0 {
		t.Fatal("expected at least one close-encounter event")
	}
	if events[0].Integrator != "gauss-radau" {
		t.Errorf("integrator label: got %q, want gauss-radau", events[0].Integrator)
	}
}

func TestCloseEncounterContinuity(t *testing.T) {
	s := closePair(t)
	s.SetCloseEncounterIntegrator(EncounterGaussRadau)

	for i := 0; i < 5; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		for _, b := range s.Bodies() {
			if !b.IsFinite() {
				t.Fatalf("step %d: non-finite state for %s", i, b.Name)
			}
		}
	}
}

func TestCloseEncounterWindowEmitsOnce(t *testing.T) {
	s := closePair(t)

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}

	// The pair stays inside the window the whole time; the swap is logged
	// only on entry.
	events := s.TakeCloseEncounterEvents()
	if len(events) != 1 {
		t.Errorf("expected a single entry event, got %d", len(events))
	}
}

func TestNoEncounterForWellSeparatedPair(t *testing.T) {
	cfg := bareConfig()
	s := newTwoBody(t, cfg)

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if events := s.TakeCloseEncounterEvents(); len(events) != 0 {
		t.Errorf("Sun–Earth at 1 AU is not a close encounter: %d events", len(events))
	}
}

func TestMasslessBodiesNeverFlagEncounters(t *testing.T) {
	cfg := bareConfig()
	s := newTwoBody(t, cfg)
	mustAdd(t, s, body.NewTestParticle(50, "tp", vector.New(units.AU+1e3, 0, 0), vector.Zero))

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	for _, e := range s.TakeCloseEncounterEvents() {
		if e.BodyA == 50 || e.BodyB == 50 {
			t.Error("massless particle flagged an encounter")
		}
	}
}
