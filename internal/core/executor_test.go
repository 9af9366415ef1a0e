package core

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell syntax")
	}
}

func TestExecute_SimpleCommand(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(5*time.Second, Shell{})

	result := executor.Execute(context.Background(), "echo hello world", t.TempDir())

	require.NoError(t, result.Err)
	assert.Equal(t, "hello world\n", result.Stdout)
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.TimedOut)
}

func TestExecute_RunsInDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	executor := NewExecutor(5*time.Second, Shell{})

	result := executor.Execute(context.Background(), "pwd -P", dir)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved+"\n", result.Stdout)
}

func TestExecute_ExitCode(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(5*time.Second, Shell{})

	result := executor.Execute(context.Background(), "echo partial; echo broken >&2; exit 3", t.TempDir())

	assert.NoError(t, result.Err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "partial\n", result.Stdout)
	assert.Equal(t, "broken\n", result.Stderr)
}

func TestExecute_Timeout(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(200*time.Millisecond, Shell{})

	start := time.Now()
	result := executor.Execute(context.Background(), "sleep 5", t.TempDir())

	assert.True(t, result.TimedOut)
	assert.Equal(t, -1, result.ExitCode)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecute_TimeoutKillsChildren(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(200*time.Millisecond, Shell{})

	// The backgrounded sleep inherits stdout; without a group kill Wait
	// would block until it exits.
	start := time.Now()
	result := executor.Execute(context.Background(), "sleep 5 & sleep 5", t.TempDir())

	assert.True(t, result.TimedOut)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecute_Canceled(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(5*time.Second, Shell{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	result := executor.Execute(ctx, "sleep 5", t.TempDir())

	assert.True(t, result.Canceled)
	assert.False(t, result.TimedOut)
}

func TestExecute_LaunchFailure(t *testing.T) {
	executor := NewExecutor(5*time.Second, Shell{})

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	result := executor.Execute(context.Background(), "echo hi", missing)

	assert.Error(t, result.Err)
	assert.False(t, result.TimedOut)
	assert.False(t, result.Canceled)
}

func TestExecute_InvalidUTF8Replaced(t *testing.T) {
	skipOnWindows(t)
	executor := NewExecutor(5*time.Second, Shell{})

	result := executor.Execute(context.Background(), `printf 'a\377b'`, t.TempDir())

	assert.Equal(t, "a�b", result.Stdout)
}
