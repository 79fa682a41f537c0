package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmih06/auto-subs/internal/config"
	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/transcribe"
	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

const pollInterval = 100 * time.Millisecond

// runJob dispatches a worker and drains its progress events to the log
// until the terminal event arrives.
func runJob(ctx context.Context, kind jobs.Kind, fn jobs.WorkerFunc) error {
	job := jobs.Start(ctx, kind, fn)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lastMsg := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		outcome := job.Poll()
		if job.Message != "" && job.Message != lastMsg {
			log.Info("[%3.0f%%] %s", job.Progress*100, job.Message)
			lastMsg = job.Message
		}

		switch outcome {
		case jobs.OutcomeComplete:
			return nil
		case jobs.OutcomeError:
			return errors.New(job.LastErr)
		}
	}
}

// confirmOverwrite applies the overwrite policy for an output path:
// -n always refuses, -y or behavior.auto_overwrite always allow, and
// otherwise the user is asked on the terminal.
func confirmOverwrite(opts *globalOpts, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}

	if opts.no {
		return false, nil
	}
	if opts.yes || opts.cfg.Behavior.AutoOverwrite {
		return true, nil
	}

	fmt.Fprintf(os.Stderr, "%s already exists. Overwrite? [y/N] ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// outputFor derives the default output path for a video: a _subtitled
// sibling, relocated into paths.output_dir when one is configured.
func outputFor(cfg config.Config, videoPath string) string {
	out := file.WithSuffix(videoPath, "_subtitled")
	if cfg.Paths.OutputDir != "" && cfg.Paths.OutputDir != "." {
		out = filepath.Join(cfg.Paths.OutputDir, filepath.Base(out))
	}
	return out
}

func newEngine(cfg config.Config, model, lang string) (*transcribe.Engine, error) {
	if model == "" {
		model = cfg.Whisper.Model
	}
	if lang == "" {
		lang = cfg.Whisper.Language
	}
	return transcribe.NewEngine(model, lang, cfg.Whisper.ModelDir)
}
