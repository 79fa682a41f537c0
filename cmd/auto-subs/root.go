package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/config"
	"github.com/tmih06/auto-subs/pkg/log"
)

// globalOpts holds the flags and loaded configuration shared by every
// subcommand.
type globalOpts struct {
	verbose    int
	quiet      bool
	yes        bool
	no         bool
	configPath string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	cmd := &cobra.Command{
		Use:   "auto-subs",
		Short: "Automatic video subtitling with Whisper and FFmpeg",
		Long: `auto-subs extracts a video's audio, transcribes it with whisper.cpp,
and burns the resulting subtitles back onto the video as a positioned
overlay. Run a subcommand for one pipeline stage, "process" for the
whole thing, or "edit" for the interactive editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log.InitLogger(log.LevelFromVerbosity(opts.verbose, opts.quiet))
			if opts.yes && opts.no {
				return errors.New("--yes and --no cannot be combined")
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "overwrite existing output files without asking")
	flags.BoolVarP(&opts.no, "no", "n", false, "never overwrite existing output files")
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	cmd.AddCommand(
		newProcessCmd(opts),
		newExtractCmd(opts),
		newTranscribeCmd(opts),
		newBurnCmd(opts),
		newEditCmd(opts),
		newConfigCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}
