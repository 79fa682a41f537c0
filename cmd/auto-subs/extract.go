package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/pkg/file"
)

func newExtractCmd(opts *globalOpts) *cobra.Command {
	var (
		output     string
		sampleRate int
		channels   int
	)

	cmd := &cobra.Command{
		Use:   "extract VIDEO",
		Short: "Extract a video's audio track to a wav file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			video := args[0]
			out := output
			if out == "" {
				out = file.ReplaceExt(video, ".wav")
			}
			ok, err := confirmOverwrite(opts, out)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			rate := sampleRate
			if rate == 0 {
				rate = opts.cfg.Audio.SampleRate
			}
			ch := channels
			if ch == 0 {
				ch = opts.cfg.Audio.Channels
			}

			tools := media.NewToolset()
			return runJob(cmd.Context(), jobs.KindExtractAudio, func(ctx context.Context, r *jobs.Reporter) error {
				r.Progress(0.2, fmt.Sprintf("Extracting audio to %s", out))
				if err := tools.ExtractAudioAs(ctx, video, out, rate, ch); err != nil {
					return err
				}
				r.Progress(1.0, "Audio extraction complete!")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output wav path")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", 0, "sample rate in Hz")
	cmd.Flags().IntVar(&channels, "channels", 0, "channel count")
	return cmd
}
