//go:build windows

package core

import (
	"context"
	"os/exec"
	"syscall"
)

// DefaultShell returns cmd.exe, the interpreter used for host execution.
func DefaultShell() Shell {
	return Shell{Path: "cmd.exe", Flag: "/C"}
}

// command passes the raw text through untouched; cmd.exe does its own
// parsing of the command line.
func (s Shell) command(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.Path)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: syscall.EscapeArg(s.Path) + " " + s.Flag + " " + command,
	}
	return cmd
}
