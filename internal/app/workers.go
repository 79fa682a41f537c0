package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/internal/preview"
	"github.com/tmih06/auto-subs/internal/transcribe"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

// Workers builds the job bodies the orchestrator dispatches. Each
// factory captures its inputs up front so the returned func touches no
// app state.
type Workers struct {
	ExtractAudio   func(videoPath, wavPath string) jobs.WorkerFunc
	Transcribe     func(wavPath, srtPath string) jobs.WorkerFunc
	Burn           func(videoPath, srtPath, outPath string, settings overlay.Settings) jobs.WorkerFunc
	ExtractOverlay func(videoPath, srtPath, outPath string, settings overlay.Settings) jobs.WorkerFunc
}

// NewWorkers wires the production pipelines on top of the media toolset
// and the transcription engine.
func NewWorkers(tools media.Toolset, engine *transcribe.Engine) Workers {
	return Workers{
		ExtractAudio: func(videoPath, wavPath string) jobs.WorkerFunc {
			return func(ctx context.Context, r *jobs.Reporter) error {
				r.Progress(0.1, "Starting FFmpeg...")
				r.Progress(0.2, fmt.Sprintf("Extracting audio from %s", filepath.Base(videoPath)))
				if err := tools.ExtractAudio(ctx, videoPath, wavPath); err != nil {
					return err
				}
				r.Progress(1.0, "Audio extraction complete!")
				return nil
			}
		},

		Transcribe: func(wavPath, srtPath string) jobs.WorkerFunc {
			return func(ctx context.Context, r *jobs.Reporter) error {
				return engine.Transcribe(ctx, wavPath, srtPath, r)
			}
		},

		Burn: func(videoPath, srtPath, outPath string, settings overlay.Settings) jobs.WorkerFunc {
			return func(ctx context.Context, r *jobs.Reporter) error {
				r.Progress(0.1, "Probing video...")
				info, err := tools.Probe(ctx, videoPath)
				if err != nil {
					return err
				}
				layout := overlay.Compute(info.Width, info.Height, settings)

				clipPath := filepath.Join(os.TempDir(), file.Stem(outPath)+"_overlay.mov")
				defer func() {
					if err := os.Remove(clipPath); err != nil && !os.IsNotExist(err) {
						log.Debug("could not remove %s: %v", clipPath, err)
					}
				}()

				r.Progress(0.25, "Rendering subtitle overlay...")
				if err := tools.RenderOverlayClip(ctx, srtPath, layout, info, clipPath); err != nil {
					return err
				}

				r.Progress(0.6, "Compositing overlay onto video...")
				if err := tools.Composite(ctx, videoPath, clipPath, outPath, layout.X, layout.Y); err != nil {
					return err
				}

				r.Progress(1.0, fmt.Sprintf("Output saved to: %s", outPath))
				return nil
			}
		},

		ExtractOverlay: func(videoPath, srtPath, outPath string, settings overlay.Settings) jobs.WorkerFunc {
			return func(ctx context.Context, r *jobs.Reporter) error {
				r.Progress(0.1, "Probing video...")
				info, err := tools.Probe(ctx, videoPath)
				if err != nil {
					return err
				}
				layout := overlay.Compute(info.Width, info.Height, settings)

				r.Progress(0.3, "Rendering subtitle overlay...")
				if err := tools.RenderOverlayClip(ctx, srtPath, layout, info, outPath); err != nil {
					return err
				}

				r.Progress(1.0, fmt.Sprintf("Overlay saved to: %s", outPath))
				return nil
			}
		},
	}
}

// controllerPreviewer adapts the concrete preview controller to the
// orchestrator's Previewer interface.
type controllerPreviewer struct {
	c *preview.Controller
}

func NewPreviewer(c *preview.Controller) Previewer {
	return controllerPreviewer{c: c}
}

func (p controllerPreviewer) Start(ctx context.Context, videoPath, subtitlePath string, settings overlay.Settings) (PreviewHandle, error) {
	return p.c.Start(ctx, videoPath, subtitlePath, settings)
}

func (p controllerPreviewer) Stop(h PreviewHandle) {
	if s, ok := h.(*preview.Session); ok {
		p.c.Stop(s)
	}
}

func (p controllerPreviewer) Restart(ctx context.Context, h PreviewHandle, videoPath, subtitlePath string, settings overlay.Settings) (PreviewHandle, error) {
	s, _ := h.(*preview.Session)
	return p.c.Restart(ctx, s, videoPath, subtitlePath, settings)
}
