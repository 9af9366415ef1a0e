package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_ExecutesCommand(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()

	out := g.Evaluate(context.Background(), "echo Hello World", t.TempDir())

	assert.True(t, out.Succeeded)
	assert.Equal(t, KindExecuted, out.Kind)
	assert.Equal(t, "Hello World", out.Message)
	assert.Empty(t, out.NewWorkingDirectory)
}

func TestGate_BlocksDangerousCommands(t *testing.T) {
	g := NewGate()

	for _, raw := range []string{
		"rm -rf /",
		"RM -RF /home",
		"cd / && rm   -rf  /",
		"format c:",
		"git log --format=%H",
		"del /f /s /q c:\\",
		"rmdir /s /q C:\\Windows",
	} {
		t.Run(raw, func(t *testing.T) {
			out := g.Evaluate(context.Background(), raw, t.TempDir())

			assert.False(t, out.Succeeded)
			assert.Equal(t, KindBlocked, out.Kind)
			assert.Equal(t, security.BlockedMessage, out.Message)
			assert.Empty(t, out.NewWorkingDirectory)
		})
	}
}

func TestGate_PolicyAdditions(t *testing.T) {
	checker, err := security.NewDangerousCommandChecker(&security.SecurityPolicy{
		BlockedCommands: []string{"Shutdown"},
	})
	require.NoError(t, err)
	g := NewGate(WithChecker(checker))

	out := g.Evaluate(context.Background(), "shutdown -h now", t.TempDir())
	assert.Equal(t, KindBlocked, out.Kind)

	out = g.Evaluate(context.Background(), "rm -rf /", t.TempDir())
	assert.Equal(t, KindBlocked, out.Kind)
}

func TestGate_ChangeDirectory(t *testing.T) {
	base := t.TempDir()
	child := filepath.Join(base, "child")
	spaced := filepath.Join(base, "my dir")
	require.NoError(t, os.Mkdir(child, 0755))
	require.NoError(t, os.Mkdir(spaced, 0755))

	g := NewGate()
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
		dir  string
		want string
	}{
		{"parent", "cd ..", child, base},
		{"relative", "cd child", base, child},
		{"chdir verb", "chdir child", base, child},
		{"uppercase verb", "CD child", base, child},
		{"absolute", "cd " + child, base, child},
		{"unquoted spaces", "cd my dir", base, spaced},
		{"double quoted", `cd "my dir"`, base, spaced},
		{"single quoted", `cd 'my dir'`, base, spaced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := g.Evaluate(ctx, tt.raw, tt.dir)

			require.True(t, out.Succeeded, out.Message)
			assert.Equal(t, KindDirectoryChanged, out.Kind)
			assert.Equal(t, tt.want, out.NewWorkingDirectory)
			assert.Equal(t, "Changed directory to: "+tt.want, out.Message)
		})
	}
}

func TestGate_ChangeDirectoryNotFound(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	g := NewGate()

	out := g.Evaluate(context.Background(), "cd missing", base)
	assert.False(t, out.Succeeded)
	assert.Equal(t, KindNotFound, out.Kind)
	assert.Equal(t, "The system cannot find the path specified: missing", out.Message)
	assert.Empty(t, out.NewWorkingDirectory)

	out = g.Evaluate(context.Background(), "cd notes.txt", base)
	assert.Equal(t, KindNotFound, out.Kind)
}

func TestGate_BareChangeDirectory(t *testing.T) {
	dir := t.TempDir()
	g := NewGate()

	out := g.Evaluate(context.Background(), "  cd  ", dir)

	assert.True(t, out.Succeeded)
	assert.Equal(t, KindDirectoryQuery, out.Kind)
	assert.Equal(t, dir, out.Message)
	_, changed := out.DirectoryChange()
	assert.False(t, changed)
}

func TestGate_DirectoryStackUnimplemented(t *testing.T) {
	g := NewGate()

	for _, verb := range []string{"pushd", "popd"} {
		out := g.Evaluate(context.Background(), verb+" /tmp", t.TempDir())

		assert.False(t, out.Succeeded)
		assert.Equal(t, KindUnimplemented, out.Kind)
		assert.Equal(t, "Command "+verb+" not fully implemented.", out.Message)
	}
}

func TestGate_ExitKeywords(t *testing.T) {
	g := NewGate()

	for _, raw := range []string{"exit", "QUIT", "  Exit  "} {
		out := g.Evaluate(context.Background(), raw, t.TempDir())

		assert.True(t, out.Succeeded)
		assert.Equal(t, KindExitNotice, out.Kind)
		assert.Equal(t, exitNotice, out.Message)
	}
}

func TestGate_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()

	out := g.Evaluate(context.Background(), "echo oops >&2; exit 3", t.TempDir())
	assert.False(t, out.Succeeded)
	assert.Equal(t, KindNonZeroExit, out.Kind)
	assert.Equal(t, "Error: oops", out.Message)
	assert.Equal(t, 3, out.ExitCode)

	// Not a bare keyword, so it goes to the shell.
	out = g.Evaluate(context.Background(), "exit 1", t.TempDir())
	assert.Equal(t, KindNonZeroExit, out.Kind)
	assert.Equal(t, 1, out.ExitCode)
}

func TestGate_UnbalancedQuotesGoToShell(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()

	out := g.Evaluate(context.Background(), `cd "unterminated`, t.TempDir())

	assert.False(t, out.Succeeded)
	assert.Equal(t, KindNonZeroExit, out.Kind)
}

func TestGate_EmptyCommand(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()

	out := g.Evaluate(context.Background(), "", t.TempDir())

	assert.True(t, out.Succeeded)
	assert.Equal(t, KindExecuted, out.Kind)
	assert.Empty(t, out.Message)
}

func TestGate_LaunchFailure(t *testing.T) {
	g := NewGate()
	missing := filepath.Join(t.TempDir(), "gone")

	out := g.Evaluate(context.Background(), "echo hi", missing)

	assert.False(t, out.Succeeded)
	assert.Equal(t, KindLaunchFailure, out.Kind)
	assert.Contains(t, out.Message, "Failed to execute command: ")
}

func TestGate_Timeout(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()
	g.executor.timeout = 200 * time.Millisecond

	start := time.Now()
	out := g.Evaluate(context.Background(), "sleep 5", t.TempDir())

	assert.False(t, out.Succeeded)
	assert.Equal(t, KindTimeout, out.Kind)
	assert.Equal(t, "Command timed out after 200ms", out.Message)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestFormatTimeout(t *testing.T) {
	assert.Equal(t, "30 seconds", formatTimeout(DefaultTimeout))
	assert.Equal(t, "1 second", formatTimeout(time.Second))
	assert.Equal(t, "1.5s", formatTimeout(1500*time.Millisecond))
	assert.Equal(t, "200ms", formatTimeout(200*time.Millisecond))
}

func TestGate_DefaultTimeout(t *testing.T) {
	g := NewGate()
	assert.Equal(t, 30*time.Second, g.executor.timeout)
	assert.NotNil(t, g.checker)
}

func TestGate_Canceled(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := g.Evaluate(ctx, "echo hi", t.TempDir())

	assert.False(t, out.Succeeded)
	assert.Equal(t, KindCanceled, out.Kind)
}

func TestGate_ConcurrentEvaluate(t *testing.T) {
	skipOnWindows(t)
	g := NewGate()
	dir := t.TempDir()

	var wg sync.WaitGroup
	results := make([]Outcome, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Evaluate(context.Background(), "echo ok", dir)
		}(i)
	}
	wg.Wait()

	for _, out := range results {
		assert.True(t, out.Succeeded)
		assert.Equal(t, "ok", out.Message)
	}
}
