package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tmih06/auto-subs/internal/media"
	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/pkg/log"
)

// ErrPlayerNotFound marks the preview player binary missing from PATH.
var ErrPlayerNotFound = errors.New("preview player not found")

const (
	socketName    = "auto-subs-preview.sock"
	settleDelay   = 200 * time.Millisecond
	removeRetries = 5
	removeBackoff = 50 * time.Millisecond
)

// Controller runs the external preview player and owns its process and
// control endpoint for the session's lifetime. Settings changes have no
// incremental path: the player is stopped, the endpoint released, and a new
// process started, so every adjustment restarts playback from the top.
type Controller struct {
	playerCmd string
	socketDir string
	tools     media.Toolset
}

// NewController creates a controller using mpv from PATH.
func NewController(tools media.Toolset) *Controller {
	return &Controller{
		playerCmd: "mpv",
		socketDir: os.TempDir(),
		tools:     tools,
	}
}

// Start probes the video, computes the overlay rectangle, and launches the
// player showing the track plus a drawbox marking the overlay region.
func (c *Controller) Start(ctx context.Context, videoPath, srtPath string, settings overlay.Settings) (*Session, error) {
	playerPath, err := exec.LookPath(c.playerCmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, c.playerCmd)
	}

	info, err := c.tools.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	layout := overlay.Compute(info.Width, info.Height, settings)

	socketPath := filepath.Join(c.socketDir, socketName)
	// a previous session may have left its endpoint behind
	_ = os.Remove(socketPath)

	cmd := exec.Command(playerPath, playerArgs(videoPath, srtPath, socketPath, layout)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch preview player: %w", err)
	}

	session := &Session{
		cmd:         cmd,
		SocketPath:  socketPath,
		VideoWidth:  info.Width,
		VideoHeight: info.Height,
		waitCh:      make(chan error, 1),
	}
	go func() {
		session.waitCh <- cmd.Wait()
	}()

	log.Debug("Preview started (pid %d, socket %s)", cmd.Process.Pid, socketPath)
	return session, nil
}

// Stop kills the player, waits for it to exit so no zombie remains, and
// removes the control endpoint. The OS can hold the socket briefly after
// process death, so removal is retried a few times; giving up is logged,
// not fatal.
func (c *Controller) Stop(session *Session) {
	if session == nil {
		return
	}

	if session.cmd.Process != nil {
		_ = session.cmd.Process.Kill()
	}
	session.awaitExit()

	removed := false
	for i := 0; i < removeRetries; i++ {
		if err := os.Remove(session.SocketPath); err == nil || os.IsNotExist(err) {
			removed = true
			break
		}
		time.Sleep(removeBackoff)
	}
	if !removed {
		log.Warn("Could not remove preview socket %s", session.SocketPath)
	}
}

// Restart applies changed settings by stopping the player, letting the OS
// release the control endpoint, and starting over.
func (c *Controller) Restart(ctx context.Context, session *Session, videoPath, srtPath string, settings overlay.Settings) (*Session, error) {
	c.Stop(session)
	time.Sleep(settleDelay)
	return c.Start(ctx, videoPath, srtPath, settings)
}

func playerArgs(videoPath, srtPath, socketPath string, layout overlay.Layout) []string {
	return []string{
		videoPath,
		"--sub-file=" + srtPath,
		"--input-ipc-server=" + socketPath,
		fmt.Sprintf("--vf=lavfi=[drawbox=x=%d:y=%d:w=%d:h=%d:color=yellow@0.8:t=4]",
			layout.X, layout.Y, layout.Width, layout.Height),
	}
}
