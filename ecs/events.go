package ecs

// EventKind names an arena event.
type EventKind string

const (
	EventCollected        EventKind = "collected"
	EventRespawned        EventKind = "respawned"
	EventClaimed          EventKind = "claimed"
	EventObjectiveChanged EventKind = "objective_changed"
	EventPowerChanged     EventKind = "power_changed"
	EventMoveFinished     EventKind = "move_finished"
)

// Event is a world event. Subject is the entity it happened to; Other is the
// counterpart (the collecting agent, the claimed resource), or zero.
type Event struct {
	Kind    EventKind
	Subject Entity
	Other   Entity
	Detail  string
}

// EventQueue is a FIFO drained by the tick loop.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
