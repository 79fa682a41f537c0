package media

import (
	"errors"
	"fmt"
)

// ErrToolNotFound marks a required external binary missing from PATH.
var ErrToolNotFound = errors.New("tool not found")

// ToolError reports a non-zero exit of an external tool with its captured
// diagnostic output.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
