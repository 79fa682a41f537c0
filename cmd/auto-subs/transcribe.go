package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

func newTranscribeCmd(opts *globalOpts) *cobra.Command {
	var (
		output string
		model  string
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "transcribe AUDIO",
		Short: "Transcribe a wav file into an SRT subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wav := args[0]
			out := output
			if out == "" {
				out = file.ReplaceExt(wav, ".srt")
			}
			ok, err := confirmOverwrite(opts, out)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			engine, err := newEngine(opts.cfg, model, lang)
			if err != nil {
				return err
			}
			err = runJob(cmd.Context(), jobs.KindTranscribe, func(ctx context.Context, r *jobs.Reporter) error {
				return engine.Transcribe(ctx, wav, out, r)
			})
			if err != nil {
				return err
			}
			log.Info("subtitles written to %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SRT path")
	cmd.Flags().StringVarP(&model, "model", "m", "", "whisper model (tiny, base, small, medium, large)")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "spoken language code, or auto")
	return cmd
}
