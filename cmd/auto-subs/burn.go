package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/app"
	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/pkg/log"
)

func newBurnCmd(opts *globalOpts) *cobra.Command {
	var (
		output        string
		direct        bool
		overlayHeight int
		overlayWidth  int
		xOffset       int
		yOffset       int
	)

	cmd := &cobra.Command{
		Use:   "burn VIDEO SRT",
		Short: "Burn an SRT file onto a video",
		Long: `Burn renders the subtitles as a positioned overlay strip and
composites it onto the video. With --direct the captions are instead
drawn straight onto the frames by FFmpeg's subtitles filter, styled
from the [subtitles] and [video] config sections.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			video, srt := args[0], args[1]
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

			tools := media.NewToolset()
			if direct {
				style := burnStyle(opts)
				return runJob(cmd.Context(), jobs.KindBurnOverlay, func(ctx context.Context, r *jobs.Reporter) error {
					r.Progress(0.2, "Burning subtitles...")
					if err := tools.Burn(ctx, video, srt, out, style); err != nil {
						return err
					}
					r.Progress(1.0, "Output saved to: "+out)
					return nil
				})
			}

			settings := overlay.DefaultSettings()
			if overlayHeight > 0 {
				settings.Height = overlayHeight
			}
			settings.Width = overlayWidth
			settings.XOffset = xOffset
			settings.YOffset = yOffset

			workers := app.NewWorkers(tools, nil)
			return runJob(cmd.Context(), jobs.KindBurnOverlay, workers.Burn(video, srt, out, settings))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output video path")
	cmd.Flags().BoolVar(&direct, "direct", false, "burn with the subtitles filter instead of the overlay pipeline")
	cmd.Flags().IntVar(&overlayHeight, "overlay-height", 0, "overlay strip height in pixels")
	cmd.Flags().IntVar(&overlayWidth, "overlay-width", 0, "overlay strip width in pixels (0 matches the video)")
	cmd.Flags().IntVar(&xOffset, "x-offset", 0, "horizontal overlay offset from center")
	cmd.Flags().IntVar(&yOffset, "y-offset", 0, "vertical overlay offset from the bottom anchor")
	return cmd
}

func burnStyle(opts *globalOpts) media.BurnStyle {
	style := media.DefaultBurnStyle()
	cfg := opts.cfg
	if cfg.Subtitles.FontSize > 0 {
		style.FontSize = cfg.Subtitles.FontSize
	}
	if cfg.Subtitles.FontColor != "" {
		style.FontColor = cfg.Subtitles.FontColor
	}
	if cfg.Subtitles.OutlineColor != "" {
		style.OutlineColor = cfg.Subtitles.OutlineColor
	}
	if cfg.Video.Codec != "" {
		style.Codec = cfg.Video.Codec
	}
	if cfg.Video.CRF > 0 {
		style.CRF = cfg.Video.CRF
	}
	if cfg.Video.Preset != "" {
		style.Preset = cfg.Video.Preset
	}
	return style
}
