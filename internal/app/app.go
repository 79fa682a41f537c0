package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/language"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/internal/preview"
	"github.com/tmih06/auto-subs/internal/subtitle"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

// PreviewHandle is a live player session the orchestrator can poll.
type PreviewHandle interface {
	Poll() (preview.Status, int)
	Dims() (int, int)
}

// Previewer starts and stops live preview sessions.
type Previewer interface {
	Start(ctx context.Context, videoPath, subtitlePath string, settings overlay.Settings) (PreviewHandle, error)
	Stop(h PreviewHandle)
	Restart(ctx context.Context, h PreviewHandle, videoPath, subtitlePath string, settings overlay.Settings) (PreviewHandle, error)
}

// App owns the whole session: the state machine, the subtitle track
// being edited, the single background job in flight, and the live
// preview session if one is running. All methods must be called from
// one goroutine; workers communicate back only through the job's bus.
type App struct {
	State      State
	ShouldQuit bool

	VideoPath  string
	AudioPath  string
	TrackPath  string
	OutputPath string

	Track    subtitle.Track
	Language language.Tag
	Selected int

	Settings overlay.Settings

	Progress float64
	Message  string
	ErrMsg   string

	PreviewActive bool

	job           *jobs.Job
	previewHandle PreviewHandle
	pendingStart  *previewStart

	ctx       context.Context
	workers   Workers
	previewer Previewer
}

func New(workers Workers, previewer Previewer) *App {
	return &App{
		State:    StateHome,
		Language: language.Und,
		Settings: overlay.DefaultSettings(),
		ctx:      context.Background(),

		workers:   workers,
		previewer: previewer,
	}
}

func (a *App) clearError() {
	a.ErrMsg = ""
}

// Quit stops the preview session if one is live and marks the app done.
func (a *App) Quit() {
	if a.PreviewActive && a.previewHandle != nil {
		a.previewer.Stop(a.previewHandle)
		a.previewHandle = nil
		a.PreviewActive = false
	}
	a.discardPendingPreview()
	a.ShouldQuit = true
}

// StartFileSelection moves from the home screen to the file picker.
func (a *App) StartFileSelection() {
	a.clearError()
	if a.State != StateHome {
		return
	}
	a.State = StateSelectingFile
}

// ReturnHome aborts the current flow and goes back to the home screen.
// An in-flight job is abandoned: its worker runs on detached and its
// terminal event is never applied to the fresh session. A live preview
// keeps playing; it is only torn down on Quit or toggle.
func (a *App) ReturnHome() {
	a.clearError()
	a.detachJob()
	a.State = StateHome
	a.Message = ""
}

// ChooseVideo accepts the picked video and kicks off audio extraction.
func (a *App) ChooseVideo(path string) {
	a.clearError()
	if a.State != StateSelectingFile && a.State != StateHome {
		return
	}
	a.VideoPath = path
	a.AudioPath = file.ReplaceExt(path, ".wav")
	a.TrackPath = file.ReplaceExt(path, ".srt")
	a.State = StateExtractingAudio
	a.dispatch(jobs.KindExtractAudio, a.workers.ExtractAudio(a.VideoPath, a.AudioPath))
}

// LoadTrack opens an existing subtitle file straight into the editor.
func (a *App) LoadTrack(videoPath, trackPath string) error {
	a.clearError()
	track, err := subtitle.ParseFile(trackPath)
	if err != nil {
		a.ErrMsg = fmt.Sprintf("Failed to load subtitles: %v", err)
		return err
	}
	a.VideoPath = videoPath
	a.TrackPath = trackPath
	a.adoptTrack(track)
	a.State = StateEditing
	return nil
}

func (a *App) adoptTrack(track subtitle.Track) {
	a.Track = track
	a.Selected = 0
	a.Language = subtitle.DetectLanguage(track)
}

// SelectedCaption returns the caption under the cursor, or nil when the
// track is empty.
func (a *App) SelectedCaption() *subtitle.Caption {
	if a.Selected < 0 || a.Selected >= len(a.Track) {
		return nil
	}
	return &a.Track[a.Selected]
}

// MoveSelection moves the editor cursor, clamped to the track bounds.
func (a *App) MoveSelection(delta int) {
	a.clearError()
	if a.State != StateEditing || len(a.Track) == 0 {
		return
	}
	a.Selected += delta
	if a.Selected < 0 {
		a.Selected = 0
	}
	if a.Selected >= len(a.Track) {
		a.Selected = len(a.Track) - 1
	}
}

// SetSelectedText replaces the text of the caption under the cursor.
func (a *App) SetSelectedText(text string) {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	if c := a.SelectedCaption(); c != nil {
		c.Text = text
	}
}

// AppendCaption adds a new caption after the last one and selects it.
func (a *App) AppendCaption() {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	a.Track = a.Track.AppendNew()
	a.Selected = len(a.Track) - 1
}

// DeleteSelected removes the caption under the cursor and renumbers.
func (a *App) DeleteSelected() {
	a.clearError()
	if a.State != StateEditing || len(a.Track) == 0 {
		return
	}
	a.Track = a.Track.Delete(a.Selected)
	if a.Selected >= len(a.Track) && a.Selected > 0 {
		a.Selected = len(a.Track) - 1
	}
}

// NudgeSelectedStart shifts the selected caption's start time.
func (a *App) NudgeSelectedStart(deltaMS int) {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	if c := a.SelectedCaption(); c != nil {
		c.NudgeStart(deltaMS)
	}
}

// NudgeSelectedEnd shifts the selected caption's end time.
func (a *App) NudgeSelectedEnd(deltaMS int) {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	if c := a.SelectedCaption(); c != nil {
		c.NudgeEnd(deltaMS)
	}
}

// SaveTrack writes the current track back to its subtitle file.
func (a *App) SaveTrack() {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	if err := subtitle.WriteFile(a.TrackPath, a.Track); err != nil {
		a.ErrMsg = fmt.Sprintf("Failed to save subtitles: %v", err)
		return
	}
	a.Message = fmt.Sprintf("Saved to %s", a.TrackPath)
}

func (a *App) saveForRender() bool {
	if len(a.Track) == 0 {
		a.ErrMsg = "No subtitles to render"
		return false
	}
	if err := subtitle.WriteFile(a.TrackPath, a.Track); err != nil {
		a.ErrMsg = fmt.Sprintf("Failed to save subtitles: %v", err)
		return false
	}
	return true
}

// StartBurn saves the track and dispatches the burn pipeline. The
// output lands next to the source video with a _subtitled suffix.
func (a *App) StartBurn() {
	a.clearError()
	if a.State != StateEditing || !a.saveForRender() {
		return
	}
	a.OutputPath = file.WithSuffix(a.VideoPath, "_subtitled")
	a.State = StateBurningSubtitles
	a.dispatch(jobs.KindBurnOverlay, a.workers.Burn(a.VideoPath, a.TrackPath, a.OutputPath, a.Settings))
}

// StartOverlayExtraction renders the transparent overlay clip on its
// own, without compositing it onto the video.
func (a *App) StartOverlayExtraction() {
	a.clearError()
	if a.State != StateEditing || !a.saveForRender() {
		return
	}
	out := filepath.Join(filepath.Dir(a.VideoPath), file.Stem(a.VideoPath)+"_overlay.mov")
	a.State = StateExtractingOverlay
	a.dispatch(jobs.KindExtractOverlayOnly, a.workers.ExtractOverlay(a.VideoPath, a.TrackPath, out, a.Settings))
}

// TogglePreview starts a live preview session, or stops the running one.
func (a *App) TogglePreview() {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	if a.PreviewActive {
		if a.previewHandle != nil {
			a.previewer.Stop(a.previewHandle)
			a.previewHandle = nil
		}
		a.PreviewActive = false
		a.Message = "Preview stopped"
		return
	}
	if !a.saveForRender() {
		return
	}
	a.State = StatePreviewing
	a.Message = "Launching preview..."
	a.pendingStart = a.dispatchPreviewStart(a.VideoPath, a.TrackPath, a.Settings)
}

// previewStart carries the session handle from the launch worker back
// to the orchestrator goroutine. If the orchestrator abandons the
// launch before the handle arrives, the worker tears the player down
// itself instead of delivering it.
type previewStart struct {
	mu        sync.Mutex
	handle    PreviewHandle
	abandoned bool
}

func (p *previewStart) deliver(h PreviewHandle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.abandoned {
		return false
	}
	p.handle = h
	return true
}

// take claims the delivered handle and marks the launch finished; any
// later deliver is refused.
func (p *previewStart) take() PreviewHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abandoned = true
	h := p.handle
	p.handle = nil
	return h
}

func (a *App) dispatchPreviewStart(videoPath, trackPath string, settings overlay.Settings) *previewStart {
	pending := &previewStart{}
	previewer := a.previewer
	a.dispatch(jobs.KindPreview, func(ctx context.Context, r *jobs.Reporter) error {
		r.Progress(0.2, "Starting preview player...")
		h, err := previewer.Start(ctx, videoPath, trackPath, settings)
		if err != nil {
			return err
		}
		if !pending.deliver(h) {
			previewer.Stop(h)
			return nil
		}
		r.Progress(1.0, "Preview running")
		return nil
	})
	return pending
}

// discardPendingPreview finishes an abandoned preview launch: a handle
// that already arrived is stopped, one still in flight will be stopped
// by its worker once deliver is refused.
func (a *App) discardPendingPreview() {
	if a.pendingStart == nil {
		return
	}
	if h := a.pendingStart.take(); h != nil {
		a.previewer.Stop(h)
	}
	a.pendingStart = nil
}

// detachJob abandons the in-flight job, if any. The worker keeps
// running detached and publishes into a bus nothing drains; its
// terminal event must never reach a later session.
func (a *App) detachJob() {
	a.job = nil
	a.discardPendingPreview()
}

func (a *App) dispatch(kind jobs.Kind, fn jobs.WorkerFunc) {
	if a.job != nil {
		log.Error("job %s requested while %s still in flight", kind, a.job.Kind)
		return
	}
	a.Progress = 0
	a.Message = ""
	a.job = jobs.Start(a.ctx, kind, fn)
}

// restartPreview pushes the current overlay settings into the live
// player by relaunching it. The player needs a short settle between
// stop and start or the IPC socket path collides.
func (a *App) restartPreview() {
	if !a.PreviewActive || a.previewHandle == nil {
		return
	}
	h, err := a.previewer.Restart(a.ctx, a.previewHandle, a.VideoPath, a.TrackPath, a.Settings)
	if err != nil {
		a.previewHandle = nil
		a.PreviewActive = false
		a.ErrMsg = fmt.Sprintf("Failed to update preview: %v", err)
		return
	}
	a.previewHandle = h
}

// Overlay adjustment commands. Each tweaks the settings, reports the
// new value, and relaunches the preview player when one is live.

func (a *App) GrowOverlayHeight() {
	a.adjustOverlay(func() { a.Settings.GrowHeight() }, func() string {
		return fmt.Sprintf("Overlay height: %dpx", a.Settings.Height)
	})
}

func (a *App) ShrinkOverlayHeight() {
	a.adjustOverlay(func() { a.Settings.ShrinkHeight() }, func() string {
		return fmt.Sprintf("Overlay height: %dpx", a.Settings.Height)
	})
}

func (a *App) GrowOverlayWidth() {
	a.adjustOverlay(func() { a.Settings.GrowWidth() }, func() string {
		return fmt.Sprintf("Overlay width: %dpx", a.Settings.Width)
	})
}

func (a *App) ShrinkOverlayWidth() {
	a.adjustOverlay(func() { a.Settings.ShrinkWidth() }, func() string {
		return fmt.Sprintf("Overlay width: %dpx", a.Settings.Width)
	})
}

func (a *App) NudgeOverlayX(dir int) {
	a.adjustOverlay(func() { a.Settings.NudgeX(dir) }, func() string {
		return fmt.Sprintf("Overlay X offset: %dpx", a.Settings.XOffset)
	})
}

func (a *App) NudgeOverlayY(dir int) {
	a.adjustOverlay(func() { a.Settings.NudgeY(dir) }, func() string {
		return fmt.Sprintf("Overlay Y offset: %dpx", a.Settings.YOffset)
	})
}

func (a *App) ResetOverlay() {
	a.adjustOverlay(func() { a.Settings.Reset() }, func() string {
		return "Overlay reset to defaults"
	})
}

func (a *App) adjustOverlay(apply func(), describe func() string) {
	a.clearError()
	if a.State != StateEditing {
		return
	}
	apply()
	a.Message = describe()
	if a.PreviewActive {
		a.Message = "Updating preview... " + describe()
		a.restartPreview()
	}
}

// RestartSession resets everything from the done screen back to home.
func (a *App) RestartSession() {
	if a.State != StateDone {
		return
	}
	fresh := New(a.workers, a.previewer)
	fresh.ctx = a.ctx
	*a = *fresh
}

// RemoveIntermediateAudio deletes the extracted wav once it is no
// longer needed. Failures are only logged.
func (a *App) RemoveIntermediateAudio() {
	if a.AudioPath == "" {
		return
	}
	if err := os.Remove(a.AudioPath); err != nil && !os.IsNotExist(err) {
		log.Debug("could not remove %s: %v", a.AudioPath, err)
	}
}
