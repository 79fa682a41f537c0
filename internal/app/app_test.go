package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/internal/preview"
	"github.com/tmih06/auto-subs/internal/subtitle"
)

type fakeHandle struct {
	mu     sync.Mutex
	status preview.Status
	code   int
}

func (h *fakeHandle) Poll() (preview.Status, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.code
}

func (h *fakeHandle) Dims() (int, int) { return 1920, 1080 }

func (h *fakeHandle) exit(status preview.Status, code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.code = code
}

type fakePreviewer struct {
	mu        sync.Mutex
	startErr  error
	startGate chan struct{}
	handle    *fakeHandle
	starts    int
	stops     int
	restarts  int
}

func (p *fakePreviewer) Start(_ context.Context, _, _ string, _ overlay.Settings) (PreviewHandle, error) {
	if p.startGate != nil {
		<-p.startGate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts++
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.handle = &fakeHandle{}
	return p.handle, nil
}

func (p *fakePreviewer) Stop(PreviewHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func (p *fakePreviewer) Restart(_ context.Context, _ PreviewHandle, _, _ string, _ overlay.Settings) (PreviewHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restarts++
	p.handle = &fakeHandle{}
	return p.handle, nil
}

func (p *fakePreviewer) counts() (int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts, p.stops, p.restarts
}

func okWorker(_ context.Context, _ *jobs.Reporter) error { return nil }

func noopWorkers() Workers {
	return Workers{
		ExtractAudio: func(_, _ string) jobs.WorkerFunc { return okWorker },
		Transcribe:   func(_, _ string) jobs.WorkerFunc { return okWorker },
		Burn: func(_, _, _ string, _ overlay.Settings) jobs.WorkerFunc {
			return okWorker
		},
		ExtractOverlay: func(_, _, _ string, _ overlay.Settings) jobs.WorkerFunc {
			return okWorker
		},
	}
}

func tickUntil(t *testing.T, a *App, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		a.Tick()
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func writeText(path, s string) error {
	return os.WriteFile(path, []byte(s), 0o644)
}

func sampleTrack() subtitle.Track {
	return subtitle.Track{
		{Index: 1, Start: 0, End: 1500, Text: "Hello there."},
		{Index: 2, Start: 1500, End: 3000, Text: "General greeting."},
	}
}

// editingApp builds an app sitting in the editor with a real track file
// on disk.
func editingApp(t *testing.T, workers Workers, previewer Previewer) *App {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	srt := filepath.Join(dir, "clip.srt")
	require.NoError(t, subtitle.WriteFile(srt, sampleTrack()))

	a := New(workers, previewer)
	require.NoError(t, a.LoadTrack(video, srt))
	require.Equal(t, StateEditing, a.State)
	return a
}

func TestChooseVideoRunsExtractThenTranscribe(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "talk.mp4")

	workers := noopWorkers()
	workers.Transcribe = func(_, srtPath string) jobs.WorkerFunc {
		return func(_ context.Context, r *jobs.Reporter) error {
			r.Progress(0.9, "Generating subtitles...")
			return subtitle.WriteFile(srtPath, sampleTrack())
		}
	}

	a := New(workers, &fakePreviewer{})
	a.StartFileSelection()
	require.Equal(t, StateSelectingFile, a.State)

	a.ChooseVideo(video)
	require.Equal(t, StateExtractingAudio, a.State)
	require.Equal(t, filepath.Join(dir, "talk.wav"), a.AudioPath)
	require.Equal(t, filepath.Join(dir, "talk.srt"), a.TrackPath)

	tickUntil(t, a, func() bool { return a.State == StateEditing })
	require.Len(t, a.Track, 2)
	require.Equal(t, 0, a.Selected)
}

func TestBurnCompletesToDone(t *testing.T) {
	var burnOut string
	workers := noopWorkers()
	workers.Burn = func(_, _, outPath string, _ overlay.Settings) jobs.WorkerFunc {
		burnOut = outPath
		return func(_ context.Context, r *jobs.Reporter) error {
			r.Progress(0.6, "Compositing overlay onto video...")
			return nil
		}
	}

	a := editingApp(t, workers, &fakePreviewer{})
	a.StartBurn()
	require.Equal(t, StateBurningSubtitles, a.State)
	require.Contains(t, burnOut, "clip_subtitled.mp4")

	tickUntil(t, a, func() bool { return a.State == StateDone })
	require.Equal(t, burnOut, a.OutputPath)
	require.InDelta(t, 1.0, a.Progress, 0.001)

	a.RestartSession()
	require.Equal(t, StateHome, a.State)
	require.Empty(t, a.VideoPath)
	require.Empty(t, a.Track)
}

func TestBurnErrorStaysOnProgressScreen(t *testing.T) {
	workers := noopWorkers()
	workers.Burn = func(_, _, _ string, _ overlay.Settings) jobs.WorkerFunc {
		return func(_ context.Context, _ *jobs.Reporter) error {
			return errors.New("ffmpeg exploded")
		}
	}

	a := editingApp(t, workers, &fakePreviewer{})
	a.StartBurn()
	tickUntil(t, a, func() bool { return a.ErrMsg != "" })

	require.Equal(t, StateBurningSubtitles, a.State)
	require.Contains(t, a.ErrMsg, "ffmpeg exploded")

	// the next user action clears the transient error
	a.ReturnHome()
	require.Empty(t, a.ErrMsg)
	require.Equal(t, StateHome, a.State)
}

func TestRenderRefusedForEmptyTrack(t *testing.T) {
	a := editingApp(t, noopWorkers(), &fakePreviewer{})
	a.Track = subtitle.Track{}

	a.StartBurn()
	require.Equal(t, StateEditing, a.State)
	require.Equal(t, "No subtitles to render", a.ErrMsg)

	a.ErrMsg = ""
	a.TogglePreview()
	require.Equal(t, StateEditing, a.State)
	require.Equal(t, "No subtitles to render", a.ErrMsg)
}

func TestEditingCommands(t *testing.T) {
	a := editingApp(t, noopWorkers(), &fakePreviewer{})

	a.MoveSelection(5)
	require.Equal(t, 1, a.Selected)
	a.MoveSelection(-5)
	require.Equal(t, 0, a.Selected)

	a.SetSelectedText("Rewritten line")
	require.Equal(t, "Rewritten line", a.Track[0].Text)

	a.AppendCaption()
	require.Len(t, a.Track, 3)
	require.Equal(t, 2, a.Selected)
	require.Equal(t, 3, a.Track[2].Index)

	a.DeleteSelected()
	require.Len(t, a.Track, 2)
	require.Equal(t, 1, a.Selected)
	for i, c := range a.Track {
		require.Equal(t, i+1, c.Index)
	}

	start := a.Track[1].Start
	a.NudgeSelectedStart(-100)
	require.Equal(t, start-100, a.Track[1].Start)
	end := a.Track[1].End
	a.NudgeSelectedEnd(100)
	require.Equal(t, end+100, a.Track[1].End)

	a.SaveTrack()
	require.Empty(t, a.ErrMsg)
	require.Contains(t, a.Message, "Saved to")
	onDisk, err := subtitle.ParseFile(a.TrackPath)
	require.NoError(t, err)
	require.Equal(t, a.Track, onDisk)
}

func TestDeleteLastCaptionMovesSelectionBack(t *testing.T) {
	a := editingApp(t, noopWorkers(), &fakePreviewer{})
	a.MoveSelection(1)
	a.DeleteSelected()
	require.Len(t, a.Track, 1)
	require.Equal(t, 0, a.Selected)
}

func TestOverlayExtractionReturnsToEditor(t *testing.T) {
	var overlayOut string
	workers := noopWorkers()
	workers.ExtractOverlay = func(_, _, outPath string, _ overlay.Settings) jobs.WorkerFunc {
		overlayOut = outPath
		return okWorker
	}

	a := editingApp(t, workers, &fakePreviewer{})
	a.StartOverlayExtraction()
	require.Equal(t, StateExtractingOverlay, a.State)
	require.Contains(t, overlayOut, "clip_overlay.mov")

	tickUntil(t, a, func() bool { return a.State == StateEditing })
}

func TestPreviewLifecycle(t *testing.T) {
	pv := &fakePreviewer{}
	a := editingApp(t, noopWorkers(), pv)

	a.TogglePreview()
	require.Equal(t, StatePreviewing, a.State)
	tickUntil(t, a, func() bool { return a.State == StateEditing })
	require.True(t, a.PreviewActive)

	a.GrowOverlayHeight()
	require.Equal(t, 210, a.Settings.Height)
	require.Contains(t, a.Message, "Updating preview")
	_, _, restarts := pv.counts()
	require.Equal(t, 1, restarts)

	pv.handle.exit(preview.StatusCrashed, 2)
	tickUntil(t, a, func() bool { return !a.PreviewActive })
	require.Contains(t, a.ErrMsg, "code 2")
}

func TestPreviewToggleOffStopsPlayer(t *testing.T) {
	pv := &fakePreviewer{}
	a := editingApp(t, noopWorkers(), pv)

	a.TogglePreview()
	tickUntil(t, a, func() bool { return a.PreviewActive })

	a.TogglePreview()
	require.False(t, a.PreviewActive)
	require.Equal(t, "Preview stopped", a.Message)
	_, stops, _ := pv.counts()
	require.Equal(t, 1, stops)
}

func TestPreviewCleanCloseClearsQuietly(t *testing.T) {
	pv := &fakePreviewer{}
	a := editingApp(t, noopWorkers(), pv)

	a.TogglePreview()
	tickUntil(t, a, func() bool { return a.PreviewActive })

	pv.handle.exit(preview.StatusClosed, 0)
	tickUntil(t, a, func() bool { return !a.PreviewActive })
	require.Empty(t, a.ErrMsg)
	require.Equal(t, "Preview closed", a.Message)
}

func TestPreviewStartFailureReturnsToEditor(t *testing.T) {
	pv := &fakePreviewer{startErr: errors.New("mpv not found")}
	a := editingApp(t, noopWorkers(), pv)

	a.TogglePreview()
	tickUntil(t, a, func() bool { return a.State == StateEditing && a.ErrMsg != "" })
	require.False(t, a.PreviewActive)
	require.Contains(t, a.ErrMsg, "mpv not found")
}

// Leaving for home mid-job must detach that job: the new session's
// dispatch goes through, and the abandoned worker's terminal event never
// advances the new session's state machine.
func TestCancelThenNewSessionDetachesStaleJob(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	gates := map[string]chan error{}
	var transcribed []string

	workers := noopWorkers()
	workers.ExtractAudio = func(videoPath, _ string) jobs.WorkerFunc {
		gate := make(chan error, 1)
		gates[filepath.Base(videoPath)] = gate
		return func(_ context.Context, _ *jobs.Reporter) error { return <-gate }
	}
	workers.Transcribe = func(wavPath, srtPath string) jobs.WorkerFunc {
		mu.Lock()
		transcribed = append(transcribed, wavPath)
		mu.Unlock()
		return func(_ context.Context, _ *jobs.Reporter) error {
			return subtitle.WriteFile(srtPath, sampleTrack())
		}
	}

	a := New(workers, &fakePreviewer{})
	a.StartFileSelection()
	a.ChooseVideo(filepath.Join(dir, "a.mp4"))
	require.Equal(t, StateExtractingAudio, a.State)

	a.ReturnHome()
	require.Equal(t, StateHome, a.State)
	require.Nil(t, a.job)

	a.StartFileSelection()
	a.ChooseVideo(filepath.Join(dir, "b.mp4"))
	require.Equal(t, StateExtractingAudio, a.State)
	require.NotNil(t, a.job)

	// the abandoned extract for a.mp4 finishing must not move this session
	gates["a.mp4"] <- nil
	time.Sleep(50 * time.Millisecond)
	a.Tick()
	require.Equal(t, StateExtractingAudio, a.State)
	mu.Lock()
	require.Empty(t, transcribed)
	mu.Unlock()

	gates["b.mp4"] <- nil
	tickUntil(t, a, func() bool { return a.State == StateEditing })
	mu.Lock()
	require.Equal(t, []string{filepath.Join(dir, "b.wav")}, transcribed)
	mu.Unlock()
}

// A preview launch abandoned before the player comes up is torn down by
// the launch worker instead of being delivered to nobody.
func TestAbandonedPreviewLaunchStopsPlayer(t *testing.T) {
	pv := &fakePreviewer{startGate: make(chan struct{})}
	a := editingApp(t, noopWorkers(), pv)

	a.TogglePreview()
	require.Equal(t, StatePreviewing, a.State)

	a.ReturnHome()
	require.Equal(t, StateHome, a.State)
	require.Nil(t, a.job)

	close(pv.startGate)
	require.Eventually(t, func() bool {
		a.Tick()
		_, stops, _ := pv.counts()
		return stops == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, StateHome, a.State)
	require.False(t, a.PreviewActive)
	require.Nil(t, a.previewHandle)
}

func TestOverlayAdjustmentsWithoutPreview(t *testing.T) {
	a := editingApp(t, noopWorkers(), &fakePreviewer{})

	a.ShrinkOverlayHeight()
	require.Equal(t, 190, a.Settings.Height)
	a.NudgeOverlayX(1)
	require.Equal(t, 10, a.Settings.XOffset)
	a.NudgeOverlayY(-1)
	require.Equal(t, -10, a.Settings.YOffset)

	a.ResetOverlay()
	require.Equal(t, overlay.DefaultSettings(), a.Settings)
	require.Equal(t, "Overlay reset to defaults", a.Message)
}

func TestLoadTrackRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.srt")
	require.NoError(t, writeText(bad, "1\nnot a timestamp\noops\n"))

	a := New(noopWorkers(), &fakePreviewer{})
	err := a.LoadTrack(filepath.Join(dir, "v.mp4"), bad)
	require.Error(t, err)
	require.Equal(t, StateHome, a.State)
	require.Contains(t, a.ErrMsg, "Failed to load subtitles")
}

func TestScreenMapping(t *testing.T) {
	a := New(noopWorkers(), &fakePreviewer{})
	require.Equal(t, ScreenHome, a.Screen())

	a.State = StateTranscribing
	require.Equal(t, ScreenProgress, a.Screen())
	require.Equal(t, "Generating Subtitles", a.State.Title())

	a.State = StateEditing
	require.Equal(t, ScreenEditor, a.Screen())
	a.State = StateDone
	require.Equal(t, ScreenDone, a.Screen())
}
