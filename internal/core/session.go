package core

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Evaluator is the contract the session drives. *Gate implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, raw string, workingDir string) Outcome
}

// State is the caller-owned record of the working directory.
type State struct {
	WorkingDirectory string
}

// Apply records the directory change carried by out, if any.
func (s *State) Apply(out Outcome) bool {
	dir, ok := out.DirectoryChange()
	if !ok {
		return false
	}
	s.WorkingDirectory = dir
	return true
}

// Session owns one State and serializes evaluations against it: the
// working directory is read before and written after each call.
// Readers of the directory only wait for the snapshot or the apply,
// never for a running evaluation.
type Session struct {
	ID string

	submitMu  sync.Mutex
	stateMu   sync.RWMutex
	state     State
	evaluator Evaluator
	logger    zerolog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWorkingDirectory sets the initial directory instead of os.Getwd.
func WithWorkingDirectory(dir string) SessionOption {
	return func(s *Session) {
		s.state.WorkingDirectory = dir
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session starting in the process's directory.
func NewSession(evaluator Evaluator, opts ...SessionOption) (*Session, error) {
	s := &Session{
		ID:        uuid.New().String(),
		evaluator: evaluator,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.state.WorkingDirectory == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		s.state.WorkingDirectory = dir
	}

	s.logger = s.logger.With().
		Str("component", "session").
		Str("session", s.ID).
		Logger()
	s.logger.Info().Str("dir", s.state.WorkingDirectory).Msg("session started")

	return s, nil
}

// WorkingDirectory returns the current directory of the session.
func (s *Session) WorkingDirectory() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.WorkingDirectory
}

// Submit evaluates raw in the current directory and applies any
// directory change. Concurrent calls run one at a time.
func (s *Session) Submit(ctx context.Context, raw string) Outcome {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	out := s.evaluator.Evaluate(ctx, raw, s.WorkingDirectory())

	s.stateMu.Lock()
	changed := s.state.Apply(out)
	dir := s.state.WorkingDirectory
	s.stateMu.Unlock()

	if changed {
		s.logger.Info().Str("dir", dir).Msg("working directory changed")
	}
	return out
}
