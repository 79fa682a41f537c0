package executor

import "context"

// Result captures one external command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (Result, error)
}
