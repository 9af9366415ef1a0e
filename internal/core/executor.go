package core

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the wall-clock budget for one host execution.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Wait lingers on open pipes after the child
// has been killed.
const waitDelay = 2 * time.Second

// Shell is the host command interpreter a command string is handed to.
type Shell struct {
	Path string
	Flag string
}

// Executor runs command strings through the host shell.
type Executor struct {
	shell   Shell
	timeout time.Duration
}

// NewExecutor creates a new executor. A zero shell selects DefaultShell.
func NewExecutor(timeout time.Duration, shell Shell) *Executor {
	if shell.Path == "" {
		shell = DefaultShell()
	}
	return &Executor{
		shell:   shell,
		timeout: timeout,
	}
}

// Result represents one host execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set when the process could not be started or waited on.
	Err      error
	TimedOut bool
	Canceled bool
}

// Execute runs command in dir and waits for it, the timeout or ctx.
func (e *Executor) Execute(ctx context.Context, command string, dir string) *Result {
	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	execCmd := e.shell.command(execCtx, command)
	execCmd.Dir = dir
	execCmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()
	if err == nil {
		return &Result{
			Stdout: decodeOutput(stdout.Bytes()),
			Stderr: decodeOutput(stderr.Bytes()),
		}
	}

	// Output of an interrupted process is discarded.
	switch {
	case ctx.Err() != nil:
		return &Result{Canceled: true, ExitCode: -1, Err: ctx.Err()}
	case execCtx.Err() != nil:
		return &Result{TimedOut: true, ExitCode: -1, Err: execCtx.Err()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{
			Stdout:   decodeOutput(stdout.Bytes()),
			Stderr:   decodeOutput(stderr.Bytes()),
			ExitCode: exitErr.ExitCode(),
		}
	}

	return &Result{ExitCode: -1, Err: err}
}

func decodeOutput(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
