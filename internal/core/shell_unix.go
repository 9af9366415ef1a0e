//go:build !windows

package core

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// DefaultShell returns the POSIX shell used for host execution.
func DefaultShell() Shell {
	return Shell{Path: findShell(), Flag: "-c"}
}

func findShell() string {
	shells := []string{"/bin/sh", "/usr/bin/sh", "/bin/bash", "/usr/bin/bash"}
	for _, shell := range shells {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "sh"
}

// command runs the shell in its own process group so that a kill on
// timeout also reaches its children.
func (s Shell) command(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.Path, s.Flag, command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return cmd
}
