package jobs

import "context"

// Kind identifies which background operation a job runs.
type Kind int

const (
	KindExtractAudio Kind = iota
	KindTranscribe
	KindBurnOverlay
	KindExtractOverlayOnly
	KindPreview
)

var kindNames = map[Kind]string{
	KindExtractAudio:       "extract-audio",
	KindTranscribe:         "transcribe",
	KindBurnOverlay:        "burn-overlay",
	KindExtractOverlayOnly: "extract-overlay",
	KindPreview:            "preview",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// WorkerFunc is the body of a background job. It reports progress through
// the reporter and returns an error on failure; the runner converts the
// return value into the single terminal event.
type WorkerFunc func(ctx context.Context, r *Reporter) error

// Outcome is what a poll of the job's bus observed.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeComplete
	OutcomeError
)

// Job is one dispatched background operation. It owns the receiving end of
// its bus for its lifetime; once a terminal event has been observed the job
// is done and the bus is retired.
type Job struct {
	Kind     Kind
	Progress float64
	Message  string
	LastErr  string

	bus  *Bus
	done bool
}

// Start dispatches fn on its own goroutine and returns the job tracking it.
// The goroutine always produces exactly one terminal event, even when fn
// fails early.
func Start(ctx context.Context, kind Kind, fn WorkerFunc) *Job {
	bus := NewBus()
	reporter := NewReporter(bus)

	go func() {
		if err := fn(ctx, reporter); err != nil {
			reporter.Error(err)
			return
		}
		reporter.Complete()
	}()

	return &Job{Kind: kind, bus: bus}
}

// Poll drains all queued events, applies every progress update in order,
// and reports whether a terminal event was reached. Progress updates that
// arrived before the terminal event are applied first, so the last
// fraction/message pair is never lost.
func (j *Job) Poll() Outcome {
	if j.done {
		return OutcomeRunning
	}

	outcome := OutcomeRunning
	for _, event := range j.bus.Drain() {
		switch event.Type {
		case EventProgress:
			j.Progress = event.Fraction
			j.Message = event.Message
		case EventComplete:
			j.Progress = 1
			outcome = OutcomeComplete
		case EventError:
			j.LastErr = event.Message
			outcome = OutcomeError
		}
	}

	if outcome != OutcomeRunning {
		j.done = true
	}
	return outcome
}

// Done reports whether a terminal event has been observed.
func (j *Job) Done() bool {
	return j.done
}
