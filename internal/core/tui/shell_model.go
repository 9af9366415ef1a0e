package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Layout rows outside the viewport: title, input and status bar.
const chromeHeight = 6

// Options configures the shell model.
type Options struct {
	// AIMode starts the input in natural-language mode.
	AIMode bool
	// Confirm asks y/s/q before each AI candidate runs.
	Confirm bool
	// Transcriber backs /voice. It may be nil.
	Transcriber ai.Transcriber
	// Context bounds every evaluation started from the UI.
	Context context.Context
}

// model is the Bubble Tea model for the interactive shell
type model struct {
	session     *core.Session
	engine      *core.Engine
	transcriber ai.Transcriber
	ctx         context.Context
	confirm     bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	keys     keyMap

	lines  []string
	aiMode bool
	// cwd mirrors the session directory; it is refreshed from result
	// messages so rendering never touches the session.
	cwd string
	// busy is set while an evaluation runs in the background; input is
	// refused until its result arrives.
	busy bool
	// events carries the progress of the running AI query.
	events  chan tea.Msg
	pending *ConfirmMsg
	width   int
	height  int
}

// NewModel creates a new shell model in command mode
func NewModel(session *core.Session, engine *core.Engine) Model {
	return NewModelWithOptions(session, engine, Options{})
}

// NewModelWithOptions creates a new shell model. engine may be nil, in
// which case AI mode reports that no translator is configured.
func NewModelWithOptions(session *core.Session, engine *core.Engine, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "$ "
	ti.Placeholder = "Type a command..."
	ti.CharLimit = 4096
	ti.Width = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	m := model{
		session:     session,
		engine:      engine,
		transcriber: opts.Transcriber,
		ctx:         opts.Context,
		confirm:     opts.Confirm,
		input:       ti,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		keys:        defaultKeyMap(),
		cwd:         session.WorkingDirectory(),
	}
	m.setMode(opts.AIMode)
	m.appendLines(subtleStyle.Render("Session " + session.ID + " in " + m.cwd))
	return m
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.WindowSize(),
	)
}

// Update handles messages
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OutcomeMsg:
		m.busy = false
		m.cwd = msg.Dir
		m.appendLines(renderOutcome(msg.Outcome))
		return m, nil

	case StepMsg:
		m.cwd = msg.Dir
		m.appendLines(renderStep(msg.Index, msg.Step))
		return m, waitForEvent(m.events)

	case ConfirmMsg:
		m.pending = &msg
		return m, nil

	case ProcessedMsg:
		m.busy = false
		m.events = nil
		m.pending = nil
		m.cwd = msg.Dir
		if line := renderProcessed(msg.Err); line != "" {
			m.appendLines(line)
		}
		return m, nil

	case TranscribedMsg:
		m.busy = false
		if msg.Err != nil {
			m.appendLines(errorStyle.Render(fmt.Sprintf("Transcription failed (%s): %v", ai.KindOf(msg.Err), msg.Err)))
			return m, nil
		}
		m.appendLines(subtleStyle.Render("🎤 Recognized: ") + msg.Text)
		return m.startQuery(msg.Text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.pending != nil {
			m.pending.reply <- confirmReply{err: core.ErrQuitAll}
			m.pending = nil
		}
		return m, tea.Quit
	}

	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.Approve):
			return m.answer(confirmReply{run: true})
		case key.Matches(msg, m.keys.Skip):
			return m.answer(confirmReply{})
		case key.Matches(msg, m.keys.CancelAll):
			return m.answer(confirmReply{err: core.ErrQuitAll})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		m.setMode(!m.aiMode)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.lines = nil
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// answer resolves the open confirmation prompt and waits for the next
// event of the query.
func (m model) answer(reply confirmReply) (tea.Model, tea.Cmd) {
	m.pending.reply <- reply
	m.pending = nil
	return m, waitForEvent(m.events)
}

// submit starts evaluation of the current input line.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}
	m.input.Reset()

	if isSlashCommand(value) {
		return m.slashCommand(value)
	}

	m.appendLines(promptStyle.Render(m.input.Prompt) + value)

	if m.aiMode {
		return m.startQuery(value)
	}
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.evaluate(value))
}

// isSlashCommand reports whether input names a shell command such as
// /help rather than an absolute path such as /bin/ls.
func isSlashCommand(input string) bool {
	if !strings.HasPrefix(input, "/") {
		return false
	}
	word := strings.Fields(input)[0]
	return !strings.Contains(word[1:], "/")
}

func (m model) slashCommand(value string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(value)

	switch strings.ToLower(parts[0]) {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/ai":
		m.setMode(true)
	case "/cmd":
		m.setMode(false)
	case "/clear":
		m.lines = nil
		m.refresh()
	case "/pwd":
		m.appendLines(m.cwd)
	case "/help":
		m.appendLines(helpText(m.keys))
	case "/voice":
		if len(parts) < 2 {
			m.appendLines(subtleStyle.Render("Usage: /voice <file.wav>"))
			return m, nil
		}
		if m.transcriber == nil {
			m.appendLines(errorStyle.Render(errNoTranscriber.Error()))
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.transcribe(strings.Join(parts[1:], " ")))
	default:
		m.appendLines(errorStyle.Render(fmt.Sprintf("Unknown command: %s (try /help)", parts[0])))
	}
	return m, nil
}

// startQuery runs query through the engine and listens for its events.
func (m model) startQuery(query string) (tea.Model, tea.Cmd) {
	if m.engine == nil {
		m.appendLines(errorStyle.Render(errNoEngine.Error()))
		return m, nil
	}

	m.busy = true
	m.events = make(chan tea.Msg)
	return m, tea.Batch(m.spinner.Tick, m.process(query, m.events), waitForEvent(m.events))
}

// evaluate runs raw through the session off the UI goroutine.
func (m model) evaluate(raw string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		out := session.Submit(ctx, raw)
		return OutcomeMsg{Command: raw, Outcome: out, Dir: session.WorkingDirectory()}
	}
}

// process runs an AI query through the engine off the UI goroutine. Steps,
// prompts and the final result are all delivered on events, in order,
// and events is closed when the query is done.
func (m model) process(query string, events chan<- tea.Msg) tea.Cmd {
	engine, session, ctx, confirmOn := m.engine, m.session, m.ctx, m.confirm
	return func() tea.Msg {
		defer close(events)

		send := func(msg tea.Msg) bool {
			select {
			case events <- msg:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var confirm core.ConfirmFunc
		if confirmOn {
			confirm = func(command string) (bool, error) {
				reply := make(chan confirmReply, 1)
				if !send(ConfirmMsg{Command: command, reply: reply}) {
					return false, ctx.Err()
				}
				select {
				case r := <-reply:
					return r.run, r.err
				case <-ctx.Done():
					return false, ctx.Err()
				}
			}
		}

		index := 0
		steps, err := engine.Process(ctx, query, confirm, func(step core.Step) {
			index++
			send(StepMsg{Index: index, Step: step, Dir: session.WorkingDirectory()})
		})
		send(ProcessedMsg{Query: query, Steps: steps, Err: err, Dir: session.WorkingDirectory()})
		return nil
	}
}

// waitForEvent delivers the next message of a running query.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// transcribe reads a recording and turns it into text off the UI goroutine.
func (m model) transcribe(path string) tea.Cmd {
	transcriber, ctx := m.transcriber, m.ctx
	return func() tea.Msg {
		audio, err := os.ReadFile(path)
		if err != nil {
			return TranscribedMsg{Path: path, Err: fmt.Errorf("failed to read audio: %w", err)}
		}
		text, err := transcriber.Transcribe(ctx, audio)
		return TranscribedMsg{Path: path, Text: text, Err: err}
	}
}

func (m *model) setMode(aiMode bool) {
	m.aiMode = aiMode
	if aiMode {
		m.input.Prompt = "ai> "
		m.input.Placeholder = "Describe what you want to do..."
	} else {
		m.input.Prompt = "$ "
		m.input.Placeholder = "Type a command..."
	}
}

func (m *model) appendLines(s string) {
	m.lines = append(m.lines, s)
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// Run starts the interactive shell on the terminal.
func Run(session *core.Session, engine *core.Engine, opts Options) error {
	p := tea.NewProgram(NewModelWithOptions(session, engine, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
