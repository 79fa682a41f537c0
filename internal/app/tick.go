package app

import (
	"fmt"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/preview"
	"github.com/tmih06/auto-subs/internal/subtitle"
	"github.com/tmih06/auto-subs/pkg/log"
)

// Tick advances the session by one poll interval: checks whether a live
// preview player is still up, drains the in-flight job's events, and
// applies the state transition its terminal event calls for. It never
// blocks.
func (a *App) Tick() {
	a.pollPreview()
	a.pollJob()
}

func (a *App) pollPreview() {
	if !a.PreviewActive || a.previewHandle == nil {
		return
	}
	switch status, code := a.previewHandle.Poll(); status {
	case preview.StatusRunning:
	case preview.StatusClosed:
		a.PreviewActive = false
		a.previewHandle = nil
		a.Message = "Preview closed"
	case preview.StatusCrashed:
		a.PreviewActive = false
		a.previewHandle = nil
		a.ErrMsg = fmt.Sprintf("Preview exited with error (code %d). Check if mpv is installed.", code)
	}
}

func (a *App) pollJob() {
	if a.job == nil {
		return
	}

	outcome := a.job.Poll()
	a.Progress = a.job.Progress
	if a.job.Message != "" {
		a.Message = a.job.Message
	}

	switch outcome {
	case jobs.OutcomeRunning:
	case jobs.OutcomeComplete:
		a.onJobComplete()
	case jobs.OutcomeError:
		a.onJobError()
	}
}

func (a *App) onJobComplete() {
	kind := a.job.Kind
	a.job = nil

	switch a.State {
	case StateExtractingAudio:
		a.State = StateTranscribing
		a.dispatch(jobs.KindTranscribe, a.workers.Transcribe(a.AudioPath, a.TrackPath))
	case StateTranscribing:
		a.RemoveIntermediateAudio()
		track, err := subtitle.ParseFile(a.TrackPath)
		if err != nil {
			a.ErrMsg = fmt.Sprintf("Failed to load generated subtitles: %v", err)
			return
		}
		a.adoptTrack(track)
		a.State = StateEditing
	case StateBurningSubtitles:
		a.State = StateDone
	case StateExtractingOverlay:
		a.State = StateEditing
	case StatePreviewing:
		if a.pendingStart != nil {
			if h := a.pendingStart.take(); h != nil {
				a.previewHandle = h
				a.PreviewActive = true
				w, ht := h.Dims()
				a.Message = fmt.Sprintf("Preview started (%dx%d). Adjust the overlay to update it live.", w, ht)
			}
			a.pendingStart = nil
		}
		a.State = StateEditing
	default:
		a.discardPendingPreview()
		log.Warn("job %s completed in unexpected state %s", kind, a.State)
	}
}

func (a *App) onJobError() {
	a.ErrMsg = a.job.LastErr
	if a.ErrMsg == "" {
		a.ErrMsg = "operation failed"
	}
	a.job = nil

	// A failed preview launch has nothing to show; drop back to the
	// editor so the user can retry. Other failures keep their progress
	// screen up with the error on it.
	if a.State == StatePreviewing {
		a.discardPendingPreview()
		a.State = StateEditing
	}
}
