package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/rs/zerolog"
)

// ErrQuitAll stops the remaining candidates of a batch.
var ErrQuitAll = errors.New("quit all commands")

// ConfirmFunc is asked before each candidate runs. Returning false skips
// the candidate; returning ErrQuitAll stops the batch.
type ConfirmFunc func(command string) (bool, error)

// Step is one candidate of a processed query.
type Step struct {
	Command string
	Outcome Outcome
	Skipped bool
}

// Engine orchestrates the AI workflow
type Engine struct {
	translator ai.Translator
	session    *Session
	logger     zerolog.Logger
}

// NewEngine creates a new engine
func NewEngine(translator ai.Translator, session *Session, logger zerolog.Logger) *Engine {
	return &Engine{
		translator: translator,
		session:    session,
		logger:     logger.With().Str("component", "engine").Logger(),
	}
}

// Translate returns the candidate commands for query without running them.
func (e *Engine) Translate(ctx context.Context, query string) ([]string, error) {
	if e.translator == nil {
		return nil, ai.NewError("engine", ai.ErrConfig, errors.New("no translator configured"))
	}

	commands, err := e.translator.Translate(ctx, query, e.session.WorkingDirectory())
	if err != nil {
		e.logger.Error().Err(err).Str("kind", string(ai.KindOf(err))).Msg("translation failed")
		return nil, fmt.Errorf("failed to translate query: %w", err)
	}

	e.logger.Info().Int("candidates", len(commands)).Msg("query translated")
	return commands, nil
}

// Process handles a user request from input to output. Candidates run in
// order through the session; a failed candidate does not stop the rest.
// onStep, if set, is called after every candidate.
func (e *Engine) Process(ctx context.Context, query string, confirm ConfirmFunc, onStep func(Step)) ([]Step, error) {
	commands, err := e.Translate(ctx, query)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(commands))
	report := func(step Step) {
		steps = append(steps, step)
		if onStep != nil {
			onStep(step)
		}
	}

	for i, command := range commands {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		if confirm != nil {
			ok, err := confirm(command)
			if errors.Is(err, ErrQuitAll) {
				e.logger.Info().Int("remaining", len(commands)-i).Msg("batch stopped by user")
				return steps, ErrQuitAll
			}
			if err != nil {
				return steps, err
			}
			if !ok {
				report(Step{Command: command, Skipped: true})
				continue
			}
		}

		out := e.session.Submit(ctx, command)
		e.logger.Debug().
			Int("index", i).
			Str("kind", string(out.Kind)).
			Bool("succeeded", out.Succeeded).
			Msg("candidate evaluated")
		report(Step{Command: command, Outcome: out})
	}

	return steps, nil
}
