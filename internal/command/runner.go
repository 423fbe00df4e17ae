// Package command runs external search tools behind a small capability
// interface so that argument construction and result mapping can be tested
// without the tools installed.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result is the outcome of a process that was started successfully.
type Result struct {
	ExitCode int
	Stdout   []byte
}

// Runner executes an argument vector and reports its exit status and
// standard output. A non-zero exit status is not an error; an error means
// the process could not be run at all.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// ExecRunner runs commands with os/exec. Standard error is discarded and
// no shell is involved.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("empty argument vector")
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0, Stdout: stdout.Bytes()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		return Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.Bytes()}, nil
	}
	return Result{}, fmt.Errorf("failed to run %s: %w", argv[0], err)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, argv []string) (Result, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, argv []string) (Result, error) {
	return f(ctx, argv)
}
