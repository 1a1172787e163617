package sim

import "github.com/ali-albdaer/symplectica/internal/vector"

// EventKind tags the entries of the simulation event queue.
type EventKind uint8

const (
	EventCollision EventKind = iota
	EventCloseEncounter
	EventRecenter
)

func (k EventKind) String() string {
	switch k {
	case EventCollision:
		return "collision"
	case EventCloseEncounter:
		return "close-encounter"
	default:
		return "recenter"
	}
}

// maxEvents bounds the queue; when full, the oldest entries are dropped.
const maxEvents = 256

// Event is one collision, close-encounter, or recenter record. Field use
// depends on Kind.
type Event struct {
	Kind EventKind
	Tick uint64

	// Collision fields.
	SurvivorID    uint32
	AbsorbedID    uint32
	Separation    float64
	RelativeSpeed float64

	// Close-encounter fields.
	BodyA         uint32
	BodyB         uint32
	MinSeparation float64
	Integrator    string

	// Recenter offset subtracted from every position.
	Offset vector.Vec3
}

func (s *Simulation) pushEvent(e Event) {
	if len(s.events) >= maxEvents {
		s.events = s.events[1:]
	}
	s.events = append(s.events, e)
}

// TakeEvents drains the whole queue in emission order.
func (s *Simulation) TakeEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// TakeCloseEncounterEvents drains only the close-encounter entries, leaving
// other kinds queued.
func (s *Simulation) TakeCloseEncounterEvents() []Event {
	var out, rest []Event
	for _, e := range s.events {
		if e.Kind == EventCloseEncounter {
			out = append(out, e)
		} else {
			rest = append(rest, e)
		}
	}
	s.events = rest
	return out
}
