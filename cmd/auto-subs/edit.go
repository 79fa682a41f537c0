package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/tmih06/auto-subs/internal/app"
	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/preview"
	"github.com/tmih06/auto-subs/internal/subtitle"
	"github.com/tmih06/auto-subs/pkg/file"
)

func newEditCmd(opts *globalOpts) *cobra.Command {
	var videoPath string

	cmd := &cobra.Command{
		Use:   "edit SRT",
		Short: "Edit subtitles interactively, with live preview and burn",
		Long: `Edit opens an SRT file in a line-oriented editor session. Type
"help" for the command list. Burning and previewing need the source
video, given with --video or found as a sibling of the SRT file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srt := args[0]
			video := videoPath
			if video == "" {
				video = siblingVideo(srt)
			}

			engine, err := newEngine(opts.cfg, "", "")
			if err != nil {
				return err
			}
			tools := media.NewToolset()
			a := app.New(app.NewWorkers(tools, engine), app.NewPreviewer(preview.NewController(tools)))
			if err := a.LoadTrack(video, srt); err != nil {
				return err
			}

			input := make(chan app.Command)
			go readCommands(os.Stdin, os.Stdout, input)
			return a.Run(cmd.Context(), newRenderer(os.Stdout), input)
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "source video for burn and preview")
	return cmd
}

// siblingVideo looks for a video file next to the SRT with the same stem.
func siblingVideo(srtPath string) string {
	for _, ext := range []string{".mp4", ".mkv", ".mov", ".avi", ".webm"} {
		candidate := file.ReplaceExt(srtPath, ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return file.ReplaceExt(srtPath, ".mp4")
}

// newRenderer prints the session state whenever it changes.
func newRenderer(out io.Writer) func(*app.App) {
	last := ""
	return func(a *app.App) {
		frame := renderFrame(a)
		if frame == last {
			return
		}
		last = frame
		fmt.Fprint(out, frame)
	}
}

func renderFrame(a *app.App) string {
	var b strings.Builder

	switch a.Screen() {
	case app.ScreenProgress:
		fmt.Fprintf(&b, "%s... %3.0f%%", a.State.Title(), a.Progress*100)
		if a.Message != "" {
			fmt.Fprintf(&b, "  %s", a.Message)
		}
		b.WriteString("\n")
	case app.ScreenEditor:
		if c := a.SelectedCaption(); c != nil {
			fmt.Fprintf(&b, "[%d/%d] %s --> %s\n  %s\n",
				a.Selected+1, len(a.Track),
				subtitle.FormatTime(c.Start), subtitle.FormatTime(c.End), c.Text)
		} else {
			b.WriteString("(no subtitles; \"a\" adds one)\n")
		}
		if a.Language != language.Und {
			fmt.Fprintf(&b, "  language: %s\n", display.English.Languages().Name(a.Language))
		}
		if a.PreviewActive {
			b.WriteString("  preview: live\n")
		}
		if a.Message != "" {
			fmt.Fprintf(&b, "  %s\n", a.Message)
		}
	case app.ScreenDone:
		fmt.Fprintf(&b, "Done! Output: %s  (\"r\" to start over, \"q\" to quit)\n", a.OutputPath)
	case app.ScreenHome:
		b.WriteString("Home. \"load VIDEO\" starts a new session, \"q\" quits.\n")
	case app.ScreenFilePicker:
		b.WriteString("Pick a file with \"load VIDEO\".\n")
	}

	if a.ErrMsg != "" {
		fmt.Fprintf(&b, "  error: %s\n", a.ErrMsg)
	}
	return b.String()
}

const editorHelp = `commands:
  j / k           next / previous subtitle
  t TEXT          replace the selected subtitle's text
  a               add a subtitle after the last one
  d               delete the selected subtitle
  [ / ]           shift start time -100ms / +100ms
  { / }           shift end time -100ms / +100ms
  s               save the SRT file
  b               burn subtitles onto the video
  o               extract the overlay clip only
  p               toggle live preview (mpv)
  + / -           grow / shrink overlay height
  > / <           grow / shrink overlay width
  x N, y N        nudge overlay by N steps (negative allowed)
  reset           reset overlay settings
  load VIDEO      start a new session from a video (extract + transcribe)
  esc             abandon the current flow and return home
  r               start over (from the done screen)
  q               quit
`

// readCommands turns stdin lines into app commands. The channel closes
// on EOF so the session winds down when input ends.
func readCommands(in io.Reader, out io.Writer, ch chan<- app.Command) {
	defer close(ch)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "help" || line == "?" {
			fmt.Fprint(out, editorHelp)
			continue
		}
		cmd, ok := parseCommand(line)
		if !ok {
			fmt.Fprintf(out, "unknown command %q (\"help\" lists commands)\n", line)
			continue
		}
		ch <- cmd
		if line == "q" || line == "quit" {
			return
		}
	}
}

func parseCommand(line string) (app.Command, bool) {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "q", "quit":
		return (*app.App).Quit, true
	case "j", "next":
		return func(a *app.App) { a.MoveSelection(1) }, true
	case "k", "prev":
		return func(a *app.App) { a.MoveSelection(-1) }, true
	case "t", "text":
		return func(a *app.App) { a.SetSelectedText(rest) }, true
	case "a", "add":
		return (*app.App).AppendCaption, true
	case "d", "delete":
		return (*app.App).DeleteSelected, true
	case "[":
		return func(a *app.App) { a.NudgeSelectedStart(-100) }, true
	case "]":
		return func(a *app.App) { a.NudgeSelectedStart(100) }, true
	case "{":
		return func(a *app.App) { a.NudgeSelectedEnd(-100) }, true
	case "}":
		return func(a *app.App) { a.NudgeSelectedEnd(100) }, true
	case "s", "save":
		return (*app.App).SaveTrack, true
	case "b", "burn":
		return (*app.App).StartBurn, true
	case "o", "overlay":
		return (*app.App).StartOverlayExtraction, true
	case "p", "preview":
		return (*app.App).TogglePreview, true
	case "+":
		return (*app.App).GrowOverlayHeight, true
	case "-":
		return (*app.App).ShrinkOverlayHeight, true
	case ">":
		return (*app.App).GrowOverlayWidth, true
	case "<":
		return (*app.App).ShrinkOverlayWidth, true
	case "x":
		return nudgeCommand(rest, (*app.App).NudgeOverlayX)
	case "y":
		return nudgeCommand(rest, (*app.App).NudgeOverlayY)
	case "reset":
		return (*app.App).ResetOverlay, true
	case "start":
		return (*app.App).StartFileSelection, true
	case "esc", "home":
		return (*app.App).ReturnHome, true
	case "load":
		if rest == "" {
			return nil, false
		}
		return func(a *app.App) { a.ChooseVideo(rest) }, true
	case "r", "restart":
		return (*app.App).RestartSession, true
	}
	return nil, false
}

func nudgeCommand(arg string, nudge func(*app.App, int)) (app.Command, bool) {
	steps := 1
	if arg != "" {
		if _, err := fmt.Sscanf(arg, "%d", &steps); err != nil {
			return nil, false
		}
	}
	dir := 1
	if steps < 0 {
		dir = -1
		steps = -steps
	}
	return func(a *app.App) {
		for i := 0; i < steps; i++ {
			nudge(a, dir)
		}
	}, true
}
