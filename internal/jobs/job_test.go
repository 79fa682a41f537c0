package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDrainOrder(t *testing.T) {
	bus := NewBus()
	bus.Publish(Event{Type: EventProgress, Fraction: 0.1, Message: "a"})
	bus.Publish(Event{Type: EventProgress, Fraction: 0.5, Message: "b"})
	bus.Publish(Event{Type: EventComplete})

	events := bus.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].Message)
	assert.Equal(t, "b", events[1].Message)
	assert.True(t, events[2].IsTerminal())

	assert.Nil(t, bus.Drain(), "second drain is empty")
}

func TestReporterSingleTerminal(t *testing.T) {
	bus := NewBus()
	r := NewReporter(bus)

	r.Progress(0.3, "working")
	r.Complete()
	r.Complete()
	r.Error(errors.New("late"))
	r.Progress(0.9, "after terminal")

	events := bus.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventProgress, events[0].Type)
	assert.Equal(t, EventComplete, events[1].Type)
}

func TestReporterErrorIsTerminal(t *testing.T) {
	bus := NewBus()
	r := NewReporter(bus)

	r.Error(errors.New("boom"))
	r.Complete()

	events := bus.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
	assert.Equal(t, "boom", events[0].Message)
}

// All progress events queued before a poll must be applied in order, with
// the terminal outcome reported only after they land.
func TestJobPollAppliesAllProgressBeforeTerminal(t *testing.T) {
	job := &Job{Kind: KindTranscribe, bus: NewBus()}
	job.bus.Publish(Event{Type: EventProgress, Fraction: 0.2, Message: "two"})
	job.bus.Publish(Event{Type: EventProgress, Fraction: 0.8, Message: "eight"})
	job.bus.Publish(Event{Type: EventComplete})

	outcome := job.Poll()
	assert.Equal(t, OutcomeComplete, outcome)
	assert.Equal(t, "eight", job.Message, "last progress message wins")
	assert.Equal(t, 1.0, job.Progress)
	assert.True(t, job.Done())
}

func TestJobPollError(t *testing.T) {
	job := &Job{Kind: KindBurnOverlay, bus: NewBus()}
	job.bus.Publish(Event{Type: EventProgress, Fraction: 0.4, Message: "encoding"})
	job.bus.Publish(Event{Type: EventError, Message: "ffmpeg failed"})

	assert.Equal(t, OutcomeError, job.Poll())
	assert.Equal(t, "ffmpeg failed", job.LastErr)
	assert.Equal(t, "encoding", job.Message)
	assert.True(t, job.Done())
}

func TestStartRunsWorker(t *testing.T) {
	job := Start(context.Background(), KindExtractAudio, func(_ context.Context, r *Reporter) error {
		r.Progress(0.5, "halfway")
		return nil
	})

	require.Eventually(t, func() bool {
		return job.Poll() == OutcomeComplete
	}, time.Second, 5*time.Millisecond)
}

func TestStartConvertsErrorToTerminalEvent(t *testing.T) {
	job := Start(context.Background(), KindExtractAudio, func(_ context.Context, _ *Reporter) error {
		return errors.New("tool missing")
	})

	require.Eventually(t, func() bool {
		return job.Poll() == OutcomeError
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "tool missing", job.LastErr)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "transcribe", KindTranscribe.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
