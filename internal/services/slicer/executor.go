package slicer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var commandContext = exec.CommandContext

// Result captures the outcome of one host invocation. Output is buffered in
// full rather than streamed; callers decide what to log and at which level.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// Executor abstracts host process execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

// CommandExecutor runs the host via os/exec, honoring the context deadline.
type CommandExecutor struct{}

// Run launches binary with args and blocks until it exits or the context
// deadline fires. A deadline kill is reported through Result.TimedOut, not as
// an error; a non-zero exit lands in Result.ExitCode. The returned error is
// reserved for launch and plumbing failures.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("run %s: %w", binary, err)
	}

	return result, nil
}

var _ Executor = CommandExecutor{}
