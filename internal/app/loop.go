package app

import (
	"context"
	"time"
)

const tickInterval = 100 * time.Millisecond

// Command is one user action applied to the app on its own goroutine.
type Command func(*App)

// Run drives the session loop: user commands are applied as they
// arrive, the machine ticks every 100ms, and the renderer redraws after
// every change. Run returns when the app quits, the input channel
// closes, or the context is cancelled.
func (a *App) Run(ctx context.Context, render func(*App), input <-chan Command) error {
	a.ctx = ctx

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	if render != nil {
		render(a)
	}
	for {
		select {
		case <-ctx.Done():
			a.Quit()
			return ctx.Err()
		case cmd, ok := <-input:
			if !ok {
				a.Quit()
				return nil
			}
			cmd(a)
		case <-ticker.C:
			a.Tick()
		}
		if render != nil {
			render(a)
		}
		if a.ShouldQuit {
			return nil
		}
	}
}
