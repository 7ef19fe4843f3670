package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// ContactEventKind identifies contact event types.
type ContactEventKind string

const (
	ContactBegin ContactEventKind = "contact_begin"
	ContactEnd   ContactEventKind = "contact_end"
)

// ContactEvent is emitted when the actor starts or stops touching another
// entity.
type ContactEvent struct {
	Actor Entity
	Other Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports how many events are pending.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
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

// Flush drops pending events.
func (q *EventQueue) Flush() {
	if q == nil {
		return
	}
	q.items = nil
}
