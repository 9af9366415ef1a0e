package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
)

// ErrUserExit signals that the user asked to leave the REPL.
var ErrUserExit = errors.New("user requested exit")

const helpText = `# aicmd

Type a shell command and press enter. In AI mode, describe what you want
and the generated commands run one after another.

| Command | Action |
|---------|--------|
| /help | Show this help |
| /ai | Switch to AI mode |
| /cmd | Switch to command mode |
| /pwd | Print the working directory |
| /voice <file.wav> | Transcribe a recording and run it as an AI query |
| /clear | Clear the screen |
| /exit, /quit | Leave |
`

// REPL is the line-oriented front end.
type REPL struct {
	session     *core.Session
	engine      *core.Engine
	transcriber ai.Transcriber
	renderer    *Renderer

	in  *bufio.Reader
	out io.Writer

	aiMode  bool
	confirm bool
}

// NewREPL creates a REPL. engine and transcriber may be nil; the features
// that need them then report that they are not configured.
func NewREPL(session *core.Session, engine *core.Engine, transcriber ai.Transcriber, in io.Reader, out io.Writer) *REPL {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &REPL{
		session:     session,
		engine:      engine,
		transcriber: transcriber,
		in:          asBufioReader(in),
		out:         out,
	}
}

// SetRenderer sets the markdown renderer used for help.
func (r *REPL) SetRenderer(renderer *Renderer) {
	r.renderer = renderer
}

// SetAIMode selects whether plain input is an AI query.
func (r *REPL) SetAIMode(on bool) {
	r.aiMode = on
}

// SetConfirm enables a y/s/q prompt before each AI command runs.
func (r *REPL) SetConfirm(on bool) {
	r.confirm = on
}

// Prompt returns the input prompt for the current mode.
func (r *REPL) Prompt() string {
	if r.aiMode {
		return fmt.Sprintf("[%s] ai> ", r.session.WorkingDirectory())
	}
	return fmt.Sprintf("[%s] $ ", r.session.WorkingDirectory())
}

// ProcessInput handles one line of user input.
func (r *REPL) ProcessInput(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if isSlashCommand(input) {
		shouldExit, err := r.HandleCommand(ctx, input)
		if err != nil {
			return err
		}
		if shouldExit {
			return ErrUserExit
		}
		return nil
	}

	if r.aiMode {
		return r.processQuery(ctx, input)
	}

	r.printOutcome(r.session.Submit(ctx, input))
	return nil
}

// isSlashCommand reports whether input names a REPL command such as
// /help rather than an absolute path such as /bin/ls.
func isSlashCommand(input string) bool {
	if !strings.HasPrefix(input, "/") {
		return false
	}
	word := strings.Fields(input)[0]
	return !strings.Contains(word[1:], "/")
}

// HandleCommand handles a slash command. It reports whether the REPL
// should exit.
func (r *REPL) HandleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch strings.ToLower(parts[0]) {
	case "/exit", "/quit":
		fmt.Fprintln(r.out, "👋 Bye")
		return true, nil

	case "/help":
		r.DisplayHelp()
		return false, nil

	case "/ai":
		r.aiMode = true
		fmt.Fprintln(r.out, "✓ AI mode: describe what you want to do")
		return false, nil

	case "/cmd":
		r.aiMode = false
		fmt.Fprintln(r.out, "✓ Command mode")
		return false, nil

	case "/pwd":
		fmt.Fprintln(r.out, r.session.WorkingDirectory())
		return false, nil

	case "/clear":
		fmt.Fprint(r.out, "\033[H\033[2J")
		return false, nil

	case "/voice":
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: /voice <file.wav>")
			return false, nil
		}
		return false, r.processVoice(ctx, strings.Join(parts[1:], " "))

	default:
		fmt.Fprintf(r.out, "Unknown command: %s (try /help)\n", parts[0])
		return false, nil
	}
}

// DisplayHelp shows the help text
func (r *REPL) DisplayHelp() {
	if r.renderer != nil {
		fmt.Fprint(r.out, r.renderer.Render(helpText))
		return
	}
	fmt.Fprint(r.out, helpText)
}

func (r *REPL) processQuery(ctx context.Context, query string) error {
	if r.engine == nil {
		fmt.Fprintln(r.out, "❌ AI mode is not available: no translator configured")
		return nil
	}

	var confirm core.ConfirmFunc
	if r.confirm {
		confirm = func(command string) (bool, error) {
			return ConfirmWithIO(command, r.in, r.out)
		}
	}

	fmt.Fprintln(r.out, "🧠 Thinking...")
	index := 0
	_, err := r.engine.Process(ctx, query, confirm, func(step core.Step) {
		index++
		fmt.Fprintf(r.out, "\n🔧 [%d] %s\n", index, step.Command)
		if step.Skipped {
			return
		}
		r.printOutcome(step.Outcome)
	})

	switch {
	case errors.Is(err, ErrQuitAll):
		return nil
	case err != nil:
		fmt.Fprintf(r.out, "❌ AI request failed (%s): %v\n", ai.KindOf(err), err)
	}
	return nil
}

func (r *REPL) processVoice(ctx context.Context, path string) error {
	if r.transcriber == nil {
		fmt.Fprintln(r.out, "❌ Voice input is not available: no transcriber configured")
		return nil
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.out, "❌ Failed to read audio: %v\n", err)
		return nil
	}

	fmt.Fprintln(r.out, "🎤 Transcribing...")
	text, err := r.transcriber.Transcribe(ctx, audio)
	if err != nil {
		fmt.Fprintf(r.out, "❌ Transcription failed (%s): %v\n", ai.KindOf(err), err)
		return nil
	}

	fmt.Fprintf(r.out, "🎤 Recognized: %s\n", text)
	return r.processQuery(ctx, text)
}

func (r *REPL) printOutcome(out core.Outcome) {
	if out.Message == "" {
		return
	}
	if out.Succeeded {
		fmt.Fprintln(r.out, out.Message)
		return
	}
	fmt.Fprintf(r.out, "❌ %s\n", out.Message)
}

// Run reads lines until EOF or an exit command.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.out, r.Prompt())
		line, err := r.in.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := r.ProcessInput(ctx, line); err != nil {
			if errors.Is(err, ErrUserExit) {
				return nil
			}
			return err
		}
	}
}
