package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines key bindings for the TUI
type keyMap struct {
	Submit     key.Binding
	ToggleMode key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Clear      key.Binding
	Quit       key.Binding

	// Answers to a confirmation prompt.
	Approve   key.Binding
	Skip      key.Binding
	CancelAll key.Binding
}

// shortHelp returns key bindings for the status bar
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleMode, k.ScrollUp, k.Clear, k.Quit}
}

// confirmHelp returns the bindings shown while a prompt is open
func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Skip, k.CancelAll}
}

// fullHelp returns all key bindings
func (k keyMap) fullHelp() []key.Binding {
	return []key.Binding{
		k.Submit, k.ToggleMode,
		k.ScrollUp, k.ScrollDown,
		k.Clear, k.Quit,
	}
}

// Help generates the help view
func (k keyMap) Help() helpWrapper {
	return helpWrapper{
		keyMap: k,
	}
}

// helpWrapper wraps the keyMap for help display
type helpWrapper struct {
	keyMap keyMap
}

// String returns the help text
func (h helpWrapper) String() string {
	var parts []string
	for _, b := range h.keyMap.fullHelp() {
		if b.Help().Desc != "" {
			parts = append(parts, b.Help().Key+" "+b.Help().Desc)
		}
	}
	return strings.Join(parts, "  ")
}

// View returns the short help line
func (h helpWrapper) View() string {
	return bindingLine(h.keyMap.shortHelp())
}

// ConfirmView returns the help line for a confirmation prompt
func (h helpWrapper) ConfirmView() string {
	return bindingLine(h.keyMap.confirmHelp())
}

func bindingLine(bindings []key.Binding) string {
	var s string
	for _, b := range bindings {
		s += "[" + b.Help().Key + "] " + b.Help().Desc + "  "
	}
	return strings.TrimSpace(s)
}

// defaultKeyMap creates the default key bindings
func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "toggle AI"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Approve: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "run"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "S", "n", "N"),
			key.WithHelp("s", "skip"),
		),
		CancelAll: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("q", "cancel all"),
		),
	}
}
