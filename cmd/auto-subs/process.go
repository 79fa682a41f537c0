package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/app"
	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

func newProcessCmd(opts *globalOpts) *cobra.Command {
	var (
		output        string
		model         string
		lang          string
		overlayHeight int
		keep          bool
	)

	cmd := &cobra.Command{
		Use:   "process VIDEO",
		Short: "Run the full pipeline: extract, transcribe, burn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			video := args[0]
			ctx := cmd.Context()

			out := output
			if out == "" {
				out = outputFor(opts.cfg, video)
			}
			ok, err := confirmOverwrite(opts, out)
			if err != nil {
				return err
			}
			if !ok {
				log.Warn("not overwriting %s", out)
				return nil
			}

			engine, err := newEngine(opts.cfg, model, lang)
			if err != nil {
				return err
			}
			workers := app.NewWorkers(media.NewToolset(), engine)

			wav := file.ReplaceExt(video, ".wav")
			srt := file.ReplaceExt(video, ".srt")
			settings := overlay.DefaultSettings()
			if overlayHeight > 0 {
				settings.Height = overlayHeight
			}

			if err := runJob(ctx, jobs.KindExtractAudio, workers.ExtractAudio(video, wav)); err != nil {
				return err
			}
			if err := runJob(ctx, jobs.KindTranscribe, workers.Transcribe(wav, srt)); err != nil {
				return err
			}
			if err := runJob(ctx, jobs.KindBurnOverlay, workers.Burn(video, srt, out, settings)); err != nil {
				return err
			}

			if !keep && !opts.cfg.Behavior.KeepFiles {
				if err := os.Remove(wav); err != nil && !os.IsNotExist(err) {
					log.Debug("could not remove %s: %v", wav, err)
				}
			}
			log.Info("done: %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output video path")
	cmd.Flags().StringVarP(&model, "model", "m", "", "whisper model (tiny, base, small, medium, large)")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "spoken language code, or auto")
	cmd.Flags().IntVar(&overlayHeight, "overlay-height", 0, "subtitle overlay strip height in pixels")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the intermediate wav file")
	return cmd
}
