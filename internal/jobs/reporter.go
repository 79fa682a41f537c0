package jobs

import "sync"

// Reporter is the producer side of a bus. It guarantees the bus contract:
// any number of progress events followed by exactly one terminal event.
// Calls after the terminal event are dropped.
type Reporter struct {
	bus *Bus

	mu       sync.Mutex
	finished bool
}

// NewReporter wraps a bus for a worker.
func NewReporter(bus *Bus) *Reporter {
	return &Reporter{bus: bus}
}

// Progress publishes a fractional progress update with a status message.
func (r *Reporter) Progress(fraction float64, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.bus.Publish(Event{Type: EventProgress, Fraction: fraction, Message: message})
}

// Complete publishes the successful terminal event.
func (r *Reporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	r.bus.Publish(Event{Type: EventComplete, Fraction: 1})
}

// Error publishes the failing terminal event.
func (r *Reporter) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	r.bus.Publish(Event{Type: EventError, Message: err.Error()})
}
