package preview

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmih06/auto-subs/internal/overlay"
)

func TestPlayerArgs(t *testing.T) {
	layout := overlay.Layout{Width: 1920, Height: 200, X: 0, Y: 880}
	args := playerArgs("/v/in.mp4", "/v/in.srt", "/tmp/p.sock", layout)
	joined := strings.Join(args, " ")

	assert.Equal(t, "/v/in.mp4", args[0])
	assert.Contains(t, joined, "--sub-file=/v/in.srt")
	assert.Contains(t, joined, "--input-ipc-server=/tmp/p.sock")
	assert.Contains(t, joined, "drawbox=x=0:y=880:w=1920:h=200")
}

func startSession(t *testing.T, name string, args ...string) *Session {
	t.Helper()
	cmd := exec.Command(name, args...)
	require.NoError(t, cmd.Start())

	s := &Session{cmd: cmd, waitCh: make(chan error, 1)}
	go func() { s.waitCh <- cmd.Wait() }()
	return s
}

func TestSessionPollRunningThenClosed(t *testing.T) {
	s := startSession(t, "sleep", "0.2")

	status, _ := s.Poll()
	assert.Equal(t, StatusRunning, status)

	require.Eventually(t, func() bool {
		st, _ := s.Poll()
		return st == StatusClosed
	}, 2*time.Second, 10*time.Millisecond)

	// terminal status is sticky
	st, code := s.Poll()
	assert.Equal(t, StatusClosed, st)
	assert.Equal(t, 0, code)
}

func TestSessionPollCrash(t *testing.T) {
	s := startSession(t, "sh", "-c", "exit 2")

	require.Eventually(t, func() bool {
		st, _ := s.Poll()
		return st == StatusCrashed
	}, 2*time.Second, 10*time.Millisecond)

	_, code := s.Poll()
	assert.Equal(t, 2, code)
}

func TestStopKillsAndRemovesSocket(t *testing.T) {
	dir := t.TempDir()
	socketPath := dir + "/preview.sock"
	require.NoError(t, os.WriteFile(socketPath, nil, 0644))

	s := startSession(t, "sleep", "30")
	s.SocketPath = socketPath

	c := &Controller{playerCmd: "mpv", socketDir: dir}
	done := make(chan struct{})
	go func() {
		c.Stop(s)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return; process was not reaped")
	}

	_, err := os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "socket should be removed")
}
