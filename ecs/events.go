package ecs

// Event is a per-tick message from one system to another.
type Event struct {
	Entity Entity
	Data   any
}

// EventQueue is a FIFO cleared at the end of every scheduler tick.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns the queued events and empties the queue.
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

func (q *EventQueue) flush() {
	q.items = q.items[:0]
}
