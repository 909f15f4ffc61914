package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit statuses are the machine-readable batch signal: 0 all cases
// succeeded or were skipped, 1 at least one case failed, 2 a precondition
// (config, host executable, atlas) failed before any case started, 3
// discovery found no inputs.
const (
	exitCaseFailure  = 1
	exitPrecondition = 2
	exitNoInputs     = 3
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var coded *exitError
	if errors.As(err, &coded) {
		return coded.code
	}
	return 1
}

// exitError carries a specific process exit status alongside the message.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}
