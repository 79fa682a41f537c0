package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/tmih06/auto-subs/pkg/file"
	"github.com/tmih06/auto-subs/pkg/log"
)

const (
	defaultSettle  = 500 * time.Millisecond
	defaultWorkers = 2
)

var videoExts = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".avi":  {},
	".webm": {},
}

// IsVideo reports whether the path has a recognized video extension.
func IsVideo(path string) bool {
	_, ok := videoExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Handler processes one newly arrived video file.
type Handler func(ctx context.Context, path string) error

// Watcher runs a pipeline over every video file dropped into a
// directory. Files still being written are waited out until their size
// stops changing, and each file is processed at most once per arrival.
type Watcher struct {
	Dir     string
	Settle  time.Duration
	Workers int

	handler Handler

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(dir string, handler Handler) *Watcher {
	return &Watcher{
		Dir:      dir,
		Settle:   defaultSettle,
		Workers:  defaultWorkers,
		handler:  handler,
		inFlight: make(map[string]bool),
	}
}

// Run watches the directory until the context is cancelled. Handler
// failures are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return err
	}
	log.Info("watching %s for new videos", w.Dir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.Workers)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case event, ok := <-fw.Events:
			if !ok {
				break loop
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if !w.wants(path) || !w.claim(path) {
				continue
			}
			g.Go(func() error {
				defer w.release(path)
				w.process(gctx, path)
				return nil
			})
		case err, ok := <-fw.Errors:
			if !ok {
				break loop
			}
			log.Warn("watch error: %v", err)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// wants filters out non-video files and our own output artifacts, which
// would otherwise re-trigger the pipeline forever.
func (w *Watcher) wants(path string) bool {
	if !IsVideo(path) {
		return false
	}
	stem := file.Stem(path)
	return !strings.HasSuffix(stem, "_subtitled") && !strings.HasSuffix(stem, "_overlay")
}

func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[path] {
		return false
	}
	w.inFlight[path] = true
	return true
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, path)
}

func (w *Watcher) process(ctx context.Context, path string) {
	if err := w.awaitStable(ctx, path); err != nil {
		log.Debug("skipping %s: %v", path, err)
		return
	}
	log.Info("processing %s", filepath.Base(path))
	if err := w.handler(ctx, path); err != nil {
		log.Error("failed to process %s: %v", path, err)
		return
	}
	log.Info("finished %s", filepath.Base(path))
}

// awaitStable waits until the file's size has stopped changing for one
// settle interval, so half-copied files are not fed to the pipeline.
func (w *Watcher) awaitStable(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.Settle):
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}
