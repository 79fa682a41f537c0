package executor

import (
	"context"
	"strings"
	"testing"
)

func TestExecuteCapturesStdout(t *testing.T) {
	e := New()
	res, err := e.Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("unexpected stdout: %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("unexpected exit code: %d", res.ExitCode)
	}
}

func TestExecuteMissingCommand(t *testing.T) {
	e := New()
	_, err := e.Execute(context.Background(), "definitely-not-a-real-command-xyz")
	if err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	e := New()
	res, err := e.Execute(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("unexpected exit code: %d", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Errorf("stderr not captured: %q", res.Stderr)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error should carry stderr: %v", err)
	}
}
