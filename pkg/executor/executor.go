package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments. Stdout and
// stderr are always captured in the result, even on failure, so callers can
// surface tool diagnostics.
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		stderrStr := strings.TrimSpace(result.Stderr)
		if stderrStr != "" {
			return result, fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return result, fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return result, nil
}
