package combat

import "fmt"

type EventKind int

const (
	EventSpawn EventKind = iota
	EventDecisionMade
	EventPassed
	EventCastStarted
	EventCastInterrupted
	EventAttackFired
	EventDamageApplied
	EventHealed
	EventResourceChanged
	EventEffectApplied
	EventEffectRemoved
	EventThreatChanged
	EventLabel
	EventMiss
	EventDied
	EventRemoved
	EventStateChanged
)

var eventKindNames = [...]string{
	EventSpawn:           "Spawn",
	EventDecisionMade:    "DecisionMade",
	EventPassed:          "Passed",
	EventCastStarted:     "CastStarted",
	EventCastInterrupted: "CastInterrupted",
	EventAttackFired:     "AttackFired",
	EventDamageApplied:   "DamageApplied",
	EventHealed:          "Healed",
	EventResourceChanged: "ResourceChanged",
	EventEffectApplied:   "EffectApplied",
	EventEffectRemoved:   "EffectRemoved",
	EventThreatChanged:   "ThreatChanged",
	EventLabel:           "Label",
	EventMiss:            "Miss",
	EventDied:            "Died",
	EventRemoved:         "Removed",
	EventStateChanged:    "StateChanged",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Color is a presentation hint for floating text.
type Color string

const (
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorGray   Color = "gray"
)

// Event is a fire-and-forget notification for presentation layers. Source and
// Target are character names; Slot is the target's lane, -1 when not placed.
type Event struct {
	T       float64   `json:"t"`
	Kind    EventKind `json:"kind"`
	Source  string    `json:"source,omitempty"`
	Target  string    `json:"target,omitempty"`
	Slot    int       `json:"slot"`
	Ability string    `json:"ability,omitempty"`
	Amount  float64   `json:"amount,omitempty"`
	Text    string    `json:"text,omitempty"`
	Color   Color     `json:"color,omitempty"`
}

// EventQueue buffers events for a consumer that drains at its own pace.
// Push never blocks; events arriving while the buffer is full are dropped.
// Push and Close must come from the simulation goroutine.
type EventQueue struct {
	ch      chan Event
	dropped int
	closed  bool
}

func NewEventQueue(capacity int) *EventQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &EventQueue{ch: make(chan Event, capacity)}
}

func (q *EventQueue) Push(ev Event) {
	if q.closed {
		q.dropped++
		return
	}
	select {
	case q.ch <- ev:
	default:
		q.dropped++
	}
}

// Drain returns every pending event without waiting.
func (q *EventQueue) Drain() []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-q.ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// C exposes the queue for select-based consumers.
func (q *EventQueue) C() <-chan Event { return q.ch }

func (q *EventQueue) Dropped() int { return q.dropped }

// Close ends the stream; consumers ranging over C stop after the backlog.
func (q *EventQueue) Close() {
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
