package tui

import (
	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

// OutcomeMsg is sent when a submitted command has been evaluated
type OutcomeMsg struct {
	Command string
	Outcome core.Outcome
	// Dir is the session directory after the evaluation.
	Dir string
}

// StepMsg is sent after each candidate of an AI query
type StepMsg struct {
	Index int
	Step  core.Step
	Dir   string
}

// ConfirmMsg asks the user whether a candidate should run. The answer
// goes back on reply.
type ConfirmMsg struct {
	Command string
	reply   chan confirmReply
}

type confirmReply struct {
	run bool
	err error
}

// ProcessedMsg is sent when an AI query has been translated and run
type ProcessedMsg struct {
	Query string
	Steps []core.Step
	Err   error
	Dir   string
}

// TranscribedMsg is sent when a voice recording has been transcribed
type TranscribedMsg struct {
	Path string
	Text string
	Err  error
}

// Model is the interface for the TUI model
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
}
