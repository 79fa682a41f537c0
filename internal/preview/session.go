package preview

import (
	"errors"
	"os/exec"
)

// Session is one running preview player instance, exclusively owned by the
// controller that created it.
type Session struct {
	SocketPath  string
	VideoWidth  int
	VideoHeight int

	cmd    *exec.Cmd
	waitCh chan error
	waited bool
	clean  bool
	code   int
}

// Status is the result of one liveness poll.
type Status int

const (
	StatusRunning Status = iota
	StatusClosed         // exited with status 0, a normal user close
	StatusCrashed        // exited non-zero or with an unknown status
)

// Dims reports the probed video dimensions this session plays at.
func (s *Session) Dims() (int, int) {
	return s.VideoWidth, s.VideoHeight
}

// Poll checks process liveness without blocking. Once the process has
// exited, polls keep returning the terminal status.
func (s *Session) Poll() (Status, int) {
	if s.waited {
		return s.exitStatus()
	}

	select {
	case err := <-s.waitCh:
		s.waited = true
		s.recordExit(err)
		return s.exitStatus()
	default:
		return StatusRunning, 0
	}
}

func (s *Session) awaitExit() {
	if s.waited {
		return
	}
	err := <-s.waitCh
	s.waited = true
	s.recordExit(err)
}

var exitCodeOf = func(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

func (s *Session) recordExit(err error) {
	if err == nil {
		s.code = 0
		s.clean = true
		return
	}
	if code, ok := exitCodeOf(err); ok {
		s.code = code
		s.clean = false
		return
	}
	s.code = -1
	s.clean = false
}

func (s *Session) exitStatus() (Status, int) {
	if s.clean {
		return StatusClosed, 0
	}
	return StatusCrashed, s.code
}
