package environment

import (
	"testing"

	"github.com/ali-albdaer/symplectica/internal/body"
	"github.com/ali-albdaer/symplectica/internal/units"
	"github.com/ali-albdaer/symplectica/internal/vector"
)

func leoSatellite(altitude float64) body.Body {
	return body.New(2, "Sat", body.ArtificialSatellite, 1000, 1,
		vector.New(units.REarth+altitude, 0, 0),
		vector.New(0, 7800, 0))
}

func TestDragOpposesVelocity(t *testing.T) {
	bodies := []body.Body{earthLike(), leoSatellite(100e3)}

	acc := DragAccelerations(bodies)

	if acc[1].Y >= 0 {
		t.Errorf("drag should oppose +y velocity, got %v", acc[1])
	}
	if acc[1].Length() == 0 {
		t.Error("satellite inside the atmosphere should feel drag")
	}
	if acc[1].Length() > 1 {
		t.Errorf("drag at 100 km too strong: %v m/s²", acc[1].Length())
	}
	if acc[0].Length() != 0 {
		t.Error("the planet feels no drag from its own atmosphere")
	}
}

func TestDragVanishesInVacuum(t *testing.T) {
	planet := body.New(1, "Rock", body.Planet, units.MEarth, units.REarth, vector.Zero, vector.Zero)
	bodies := []body.Body{planet, leoSatellite(200e3)}

	acc := DragAccelerations(bodies)

	if acc[1] != vector.Zero {
		t.Errorf("no atmosphere, no drag: got %v", acc[1])
	}
}

func TestDragVanishesAboveCeiling(t *testing.T) {
	bodies := []body.Body{earthLike(), leoSatellite(500e3)}

	acc := DragAccelerations(bodies)

	if acc[1] != vector.Zero {
		t.Errorf("above the effective ceiling drag must vanish: got %v", acc[1])
	}
}

func TestDragVanishesAtRest(t *testing.T) {
	sat := leoSatellite(50e3)
	sat.Velocity = vector.Zero
	bodies := []body.Body{earthLike(), sat}

	acc := DragAccelerations(bodies)

	if acc[1] != vector.Zero {
		t.Errorf("co-moving body feels no drag: got %v", acc[1])
	}
}

func TestDragIgnoresInactiveSource(t *testing.T) {
	planet := earthLike()
	planet.Active = false
	bodies := []body.Body{planet, leoSatellite(100e3)}

	acc := DragAccelerations(bodies)

	if acc[1] != vector.Zero {
		t.Errorf("inactive planet must not exert drag: got %v", acc[1])
	}
}

func TestDragFallsWithAltitude(t *testing.T) {
	low := []body.Body{earthLike(), leoSatellite(20e3)}
	high := []body.Body{earthLike(), leoSatellite(80e3)}

	aLow := DragAccelerations(low)[1].Length()
	aHigh := DragAccelerations(high)[1].Length()

	if aLow <= aHigh {
		t.Errorf("drag should fall with altitude: %v vs %v", aLow, aHigh)
	}
}
