package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core/security"
	"github.com/rs/zerolog"
)

const exitNotice = "Exit is handled by the shell itself: type /quit or press Ctrl+C to leave."

// directoryCommands are the verbs routed to the directory handler.
var directoryCommands = map[string]bool{
	"cd":    true,
	"chdir": true,
	"pushd": true,
	"popd":  true,
}

// Gate classifies command strings and runs the ones that pass.
// It keeps no state between calls and is safe for concurrent use.
type Gate struct {
	checker  *security.DangerousCommandChecker
	executor *Executor
	logger   zerolog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithChecker replaces the built-in safety checker.
func WithChecker(checker *security.DangerousCommandChecker) GateOption {
	return func(g *Gate) {
		g.checker = checker
	}
}

// WithShell selects the host shell.
func WithShell(shell Shell) GateOption {
	return func(g *Gate) {
		g.executor = NewExecutor(DefaultTimeout, shell)
	}
}

// WithLogger sets the logger used for classification decisions.
func WithLogger(logger zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger.With().Str("component", "gate").Logger()
	}
}

// NewGate creates a gate with the built-in blocklist and the default shell.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		checker:  security.NewBuiltinChecker(),
		executor: NewExecutor(DefaultTimeout, Shell{}),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate classifies raw and produces exactly one Outcome. It never
// panics; every failure is reported through Succeeded=false.
//
// Order: safety check, directory change, exit keyword, host execution.
func (g *Gate) Evaluate(ctx context.Context, raw string, workingDir string) (out Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = failure(KindLaunchFailure, fmt.Sprintf("Failed to execute command: %v", r))
		}
		g.logger.Debug().
			Str("kind", string(out.Kind)).
			Bool("succeeded", out.Succeeded).
			Str("dir", workingDir).
			Dur("elapsed", time.Since(start)).
			Msg("command evaluated")
	}()

	if check := g.checker.Check(raw); check.Blocked {
		g.logger.Warn().Str("rule", check.Rule).Str("command", raw).Msg("command blocked")
		return failure(KindBlocked, security.BlockedMessage)
	}

	if tokens, ok := g.directoryTokens(raw); ok {
		return changeDirectory(tokens, workingDir)
	}

	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "exit" || trimmed == "quit" {
		return Outcome{Message: exitNotice, Succeeded: true, Kind: KindExitNotice}
	}

	return g.execute(ctx, raw, workingDir)
}

// directoryTokens returns the tokens of raw when its first token is a
// directory verb. Unbalanced quotes are left for the host shell to reject.
func (g *Gate) directoryTokens(raw string) ([]string, bool) {
	tokens, err := splitCommand(raw)
	if err != nil {
		g.logger.Debug().Err(err).Msg("tokenize failed")
		return nil, false
	}
	if len(tokens) == 0 {
		return nil, false
	}
	return tokens, directoryCommands[strings.ToLower(tokens[0])]
}

func (g *Gate) execute(ctx context.Context, raw string, workingDir string) Outcome {
	result := g.executor.Execute(ctx, raw, workingDir)

	switch {
	case result.Canceled:
		return failure(KindCanceled, "Command canceled")
	case result.TimedOut:
		return failure(KindTimeout, "Command timed out after "+formatTimeout(g.executor.timeout))
	case result.Err != nil:
		g.logger.Error().Err(result.Err).Str("command", raw).Msg("launch failed")
		return failure(KindLaunchFailure, fmt.Sprintf("Failed to execute command: %v", result.Err))
	case result.ExitCode != 0:
		out := failure(KindNonZeroExit, "Error: "+strings.TrimSpace(result.Stderr))
		out.ExitCode = result.ExitCode
		return out
	}

	return Outcome{
		Message:   strings.TrimSpace(result.Stdout),
		Succeeded: true,
		Kind:      KindExecuted,
	}
}

// formatTimeout renders whole seconds as "30 seconds" and anything else
// as a Duration.
func formatTimeout(d time.Duration) string {
	if d == time.Second {
		return "1 second"
	}
	if d > time.Second && d%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
	return d.String()
}
