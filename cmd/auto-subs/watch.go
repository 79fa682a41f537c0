package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/app"
	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/internal/watch"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

func newWatchCmd(opts *globalOpts) *cobra.Command {
	var (
		model   string
		lang    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Watch a directory and subtitle every new video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if info, err := os.Stat(dir); err != nil {
				return err
			} else if !info.IsDir() {
				return &os.PathError{Op: "watch", Path: dir, Err: os.ErrInvalid}
			}

			engine, err := newEngine(opts.cfg, model, lang)
			if err != nil {
				return err
			}
			pipeline := app.NewWorkers(media.NewToolset(), engine)

			w := watch.New(dir, func(ctx context.Context, video string) error {
				out := outputFor(opts.cfg, video)
				if _, err := os.Stat(out); err == nil && !opts.yes && !opts.cfg.Behavior.AutoOverwrite {
					log.Warn("skipping %s: %s exists", video, out)
					return nil
				}

				wav := file.ReplaceExt(video, ".wav")
				srt := file.ReplaceExt(video, ".srt")
				if err := runJob(ctx, jobs.KindExtractAudio, pipeline.ExtractAudio(video, wav)); err != nil {
					return err
				}
				if err := runJob(ctx, jobs.KindTranscribe, pipeline.Transcribe(wav, srt)); err != nil {
					return err
				}
				if err := runJob(ctx, jobs.KindBurnOverlay, pipeline.Burn(video, srt, out, overlay.DefaultSettings())); err != nil {
					return err
				}
				if !opts.cfg.Behavior.KeepFiles {
					if err := os.Remove(wav); err != nil && !os.IsNotExist(err) {
						log.Debug("could not remove %s: %v", wav, err)
					}
				}
				return nil
			})
			if workers > 0 {
				w.Workers = workers
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "whisper model (tiny, base, small, medium, large)")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "spoken language code, or auto")
	cmd.Flags().IntVar(&workers, "workers", 0, "max videos processed at once")
	return cmd
}
