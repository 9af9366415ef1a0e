package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
	"github.com/charmbracelet/lipgloss"
)

var (
	errNoEngine      = errors.New("AI mode is not available: no translator configured")
	errNoTranscriber = errors.New("voice input is not available: no transcriber configured")
)

// StyleConfig defines visual styles
type StyleConfig struct {
	TitleColor   lipgloss.Color
	SubtleColor  lipgloss.Color
	ErrorColor   lipgloss.Color
	SuccessColor lipgloss.Color
	WarningColor lipgloss.Color
	PromptColor  lipgloss.Color
	BorderColor  lipgloss.Color
}

// DefaultStyleConfig returns the default style configuration
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		TitleColor:   lipgloss.Color("10"),  // Green
		SubtleColor:  lipgloss.Color("241"), // Grey
		ErrorColor:   lipgloss.Color("9"),   // Red
		SuccessColor: lipgloss.Color("10"),  // Green
		WarningColor: lipgloss.Color("11"),  // Yellow
		PromptColor:  lipgloss.Color("12"),  // Blue
		BorderColor:  lipgloss.Color("8"),   // Dark grey
	}
}

var defaultStyle = DefaultStyleConfig()

// Styles
var (
	titleStyle     = lipgloss.NewStyle().Foreground(defaultStyle.TitleColor).Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(defaultStyle.SubtleColor)
	errorStyle     = lipgloss.NewStyle().Foreground(defaultStyle.ErrorColor)
	busyStyle      = lipgloss.NewStyle().Foreground(defaultStyle.WarningColor)
	promptStyle    = lipgloss.NewStyle().Foreground(defaultStyle.PromptColor).Bold(true)
	modeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(defaultStyle.WarningColor).Padding(0, 1)
	commandStyle   = lipgloss.NewStyle().Foreground(defaultStyle.TitleColor)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(defaultStyle.BorderColor)
)

// View renders the UI
func (m model) View() string {
	var s strings.Builder

	// Header
	header := titleStyle.Render(" aicmd ")
	if m.aiMode {
		header += " " + modeStyle.Render("AI")
	}
	header += " " + subtleStyle.Render(m.cwd)
	s.WriteString(header + "\n\n")

	s.WriteString(m.viewport.View() + "\n\n")

	help := m.keys.Help().View()
	switch {
	case m.pending != nil:
		s.WriteString(busyStyle.Render("Run ") + commandStyle.Render(m.pending.Command) + busyStyle.Render("?"))
		help = m.keys.Help().ConfirmView()
	case m.busy:
		s.WriteString(m.spinner.View() + busyStyle.Render(" running..."))
	default:
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	s.WriteString(statusBarStyle.Render(help))
	return s.String()
}

// helpText lists the slash commands and key bindings.
func helpText(keys keyMap) string {
	lines := []string{
		titleStyle.Render("Commands"),
		"  /ai                switch to AI mode",
		"  /cmd               switch to command mode",
		"  /pwd               print the working directory",
		"  /voice <file.wav>  transcribe a recording and run it as an AI query",
		"  /clear             clear the output",
		"  /exit, /quit       leave",
		titleStyle.Render("Keys"),
		"  " + keys.Help().String(),
	}
	return strings.Join(lines, "\n")
}

// renderOutcome formats one evaluation for the output pane.
func renderOutcome(out core.Outcome) string {
	if out.Succeeded {
		return out.Message
	}
	return errorStyle.Render(out.Message)
}

// renderStep formats one candidate of an AI query.
func renderStep(index int, step core.Step) string {
	line := fmt.Sprintf("%s %s",
		subtleStyle.Render(fmt.Sprintf("[%d]", index)),
		commandStyle.Render(step.Command))
	if step.Skipped {
		return line + "\n" + subtleStyle.Render("skipped")
	}
	if msg := renderOutcome(step.Outcome); msg != "" {
		return line + "\n" + msg
	}
	return line
}

// renderProcessed formats how an AI query ended. It is empty when every
// candidate was offered.
func renderProcessed(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrQuitAll):
		return subtleStyle.Render("Cancelled remaining commands")
	case ai.KindOf(err) != ai.ErrUnknown:
		return errorStyle.Render(fmt.Sprintf("AI request failed (%s): %v", ai.KindOf(err), err))
	}
	return errorStyle.Render(err.Error())
}
