package jobs

import "sync"

// EventType classifies messages emitted by a running worker.
type EventType int

const (
	EventProgress EventType = iota
	EventComplete
	EventError
)

// Event is one lifecycle message from a worker to the orchestrator.
type Event struct {
	Type     EventType
	Fraction float64
	Message  string
}

// IsTerminal reports whether the event ends the worker's stream.
func (e Event) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// Bus is the single-producer single-consumer channel between one worker and
// the orchestrator. Publishing never blocks and the consumer drains all
// queued events at once, so no progress update is ever skipped. Events are
// observed in publish order.
type Bus struct {
	mu     sync.Mutex
	events []Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish appends one event to the queue.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// Drain removes and returns all currently queued events in publish order.
// It never blocks.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}
	out := b.events
	b.events = nil
	return out
}
