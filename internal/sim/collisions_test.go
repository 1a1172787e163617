package sim

import (
	"math"
	"testing"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

func collidingPair(t *testing.T) *Simulation {
	t.Helper()
	cfg := bareConfig()
	cfg.EnableCollisions = true
	cfg.Dt = 1
	s, err := WithConfig(9, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, body.New(1, "A", body.Planet, 1e25, 1e6,
		vector.Zero, vector.New(100, 0, 0)))
	mustAdd(t, s, body.New(2, "B", body.Planet, 2e25, 1e6,
		vector.New(1.5e6, 0, 0), vector.New(-40, 0, 0)))
	return s
}

func TestCollisionMerge(t *testing.T) {
	s := collidingPair(t)

	massBefore := 3e25
	pBefore := s.LinearMomentum()

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	if len(s.Bodies()) != 1 {
		t.Fatalf("expected one survivor, have %d bodies", len(s.Bodies()))
	}
	merged := s.Bodies()[0]

	// The heavier body keeps its identity.
	if merged.ID != 2 {
		t.Errorf("survivor id: got %d, want 2", merged.ID)
	}
	if math.Abs(merged.Mass-massBefore)/massBefore > 1e-15 {
		t.Errorf("mass not conserved: %v", merged.Mass)
	}

	pAfter := s.LinearMomentum()
	if rel := pAfter.Sub(pBefore).Length() / pBefore.Length(); rel >= 1e-10 {
		t.Errorf("momentum drift through merge: %.3e", rel)
	}

	// Volume-conserving radius: (r³+r³)^(1/3).
	wantRadius := math.Cbrt(2) * 1e6
	if math.Abs(merged.Radius-wantRadius)/wantRadius > 1e-12 {
		t.Errorf("radius: got %v, want %v", merged.Radius, wantRadius)
	}
}

func TestChainCollisionOneTick(t *testing.T) {
	// Three overlapping bodies in a row. The lightest loses its first pair
	// and must not be merged a second time; mass and momentum stay exact.
	cfg := bareConfig()
	cfg.EnableCollisions = true
	cfg.Dt = 1
	s, err := WithConfig(9, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, body.New(1, "A", body.Planet, 1e25, 1e6,
		vector.Zero, vector.New(90, 0, 0)))
	mustAdd(t, s, body.New(2, "B", body.Planet, 3e25, 1e6,
		vector.New(1.5e6, 0, 0), vector.Zero))
	// C overlaps both: without the post-merge break, the absorbed A would
	// merge into C as well and duplicate its mass.
	mustAdd(t, s, body.New(3, "C", body.Planet, 2e25, 1e6,
		vector.New(1.9e6, 0, 0), vector.New(-30, 0, 0)))

	massBefore := 6e25
	pBefore := s.LinearMomentum()

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	if len(s.Bodies()) != 1 {
		t.Fatalf("expected one survivor, have %d bodies", len(s.Bodies()))
	}
	merged := s.Bodies()[0]
	if merged.ID != 2 {
		t.Errorf("survivor id: got %d, want 2", merged.ID)
	}
	if math.Abs(merged.Mass-massBefore)/massBefore > 1e-15 {
		t.Errorf("mass fabricated or lost: %v", merged.Mass)
	}

	pAfter := s.LinearMomentum()
	if rel := pAfter.Sub(pBefore).Length() / pBefore.Length(); rel >= 1e-10 {
		t.Errorf("momentum drift through chained merge: %.3e", rel)
	}
}

func TestCollisionTieBreaksToLowerID(t *testing.T) {
	cfg := bareConfig()
	cfg.EnableCollisions = true
	cfg.Dt = 1
	s, err := WithConfig(9, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, body.New(5, "A", body.Planet, 1e25, 1e6, vector.Zero, vector.Zero))
	mustAdd(t, s, body.New(3, "B", body.Planet, 1e25, 1e6, vector.New(1e6, 0, 0), vector.Zero))

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if len(s.Bodies()) != 1 || s.Bodies()[0].ID != 3 {
		t.Errorf("equal masses should keep the lower id, got %v", s.Bodies()[0].ID)
	}
}

func TestCollisionEvent(t *testing.T) {
	s := collidingPair(t)
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	events := s.TakeEvents()
	var found bool
	for _, e := range events {
		if e.Kind == EventCollision {
			found = true
			if e.SurvivorID != 2 || e.AbsorbedID != 1 {
				t.Errorf("event ids: survivor %d absorbed %d", e.SurvivorID, e.AbsorbedID)
			}
			if e.Separation <= 0 || e.Separation > 2e6 {
				t.Errorf("pre-merge separation: %v", e.Separation)
			}
			if e.RelativeSpeed <= 0 {
				t.Errorf("relative speed: %v", e.RelativeSpeed)
			}
		}
	}
	if !found {
		t.Fatal("no collision event emitted")
	}
}

func TestCollisionSpinFromOrbitalMomentum(t *testing.T) {
	s := collidingPair(t)

	// Offset impact: give the pair a transverse relative velocity so the
	// merge carries orbital angular momentum into spin.
	bodies := s.Bodies()
	bodies[0].Velocity = vector.New(0, 200, 0)
	bodies[1].Velocity = vector.New(0, -100, 0)

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if len(s.Bodies()) != 1 {
		t.Fatalf("expected merge, have %d bodies", len(s.Bodies()))
	}
	if s.Bodies()[0].Rotation.AngularSpeed == 0 {
		t.Error("offset impact should spin the merged body")
	}
}

func TestLookupByIDAfterCompaction(t *testing.T) {
	s := collidingPair(t)
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}

	if b := s.BodyByID(2); b == nil {
		t.Error("survivor should resolve by id")
	}
	if b := s.BodyByID(1); b != nil {
		t.Error("absorbed id should be gone")
	}
}

func TestCollisionsDisabled(t *testing.T) {
	s := collidingPair(t)
	s.cfg.EnableCollisions = false

	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if len(s.Bodies()) != 2 {
		t.Error("collision resolved despite being disabled")
	}
}
