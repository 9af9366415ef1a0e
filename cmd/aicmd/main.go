package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/Lin-Jiong-HDU/aicmd/internal/ai/elevenlabs"
	"github.com/Lin-Jiong-HDU/aicmd/internal/ai/openai"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core/security"
	"github.com/Lin-Jiong-HDU/aicmd/internal/core/tui"
	"github.com/Lin-Jiong-HDU/aicmd/internal/logging"
	"github.com/Lin-Jiong-HDU/aicmd/internal/storage"
	"github.com/Lin-Jiong-HDU/aicmd/internal/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds what every subcommand needs once config is loaded.
type app struct {
	cfg    *storage.Config
	logger *logging.Logger
	gate   *core.Gate

	plain   bool
	aiMode  bool
	confirm bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "aicmd",
		Short: "AI-assisted command terminal",
		Long: `aicmd - a command terminal with an AI assistant.

Type shell commands directly, or switch to AI mode and describe what you
want; the generated commands run one after another. Destructive commands
are blocked.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level to stderr")
	cmd.Flags().BoolVar(&a.plain, "plain", false, "Use the line-based REPL even on a terminal")
	cmd.Flags().BoolVar(&a.aiMode, "ai", false, "Start in AI mode")
	cmd.Flags().BoolVar(&a.confirm, "confirm", false, "Ask before each AI command runs")

	cmd.AddCommand(
		getExecCommand(a),
		getAskCommand(a),
		getTranscribeCommand(a),
		getConfigCommand(a),
	)

	return cmd
}

func (a *app) setup() error {
	if err := storage.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := storage.InitConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.Config{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: cfg.Log.Console}
	if a.verbose {
		logCfg.Level = "debug"
		logCfg.Console = true
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger

	checker, err := security.NewDangerousCommandChecker(&cfg.Security)
	if err != nil {
		return err
	}
	opts := []core.GateOption{
		core.WithChecker(checker),
		core.WithLogger(logger.Zerolog()),
	}
	if cfg.Shell.Path != "" {
		opts = append(opts, core.WithShell(core.Shell{Path: cfg.Shell.Path, Flag: cfg.Shell.Flag}))
	}
	a.gate = core.NewGate(opts...)

	return nil
}

func (a *app) close() error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

func (a *app) newSession() (*core.Session, error) {
	return core.NewSession(a.gate, core.WithSessionLogger(a.logger.Zerolog()))
}

// newEngine returns nil when no translator key is configured.
func (a *app) newEngine(session *core.Session) *core.Engine {
	if a.cfg.AI.APIKey == "" {
		return nil
	}
	client := openai.NewClient(a.cfg.AI.APIKey, a.cfg.AI.Model, a.cfg.AI.BaseURL, openai.Options{
		Referer: a.cfg.AI.Referer,
		Title:   a.cfg.AI.Title,
		Timeout: time.Duration(a.cfg.AI.Timeout) * time.Second,
		Logger:  a.logger.Component("translator"),
	})
	return core.NewEngine(client, session, a.logger.Zerolog())
}

// newTranscriber returns nil when no speech-to-text key is configured.
func (a *app) newTranscriber() ai.Transcriber {
	if a.cfg.Voice.APIKey == "" {
		return nil
	}
	return elevenlabs.NewClient(a.cfg.Voice.APIKey, a.cfg.Voice.BaseURL, elevenlabs.Options{
		Model:   a.cfg.Voice.Model,
		Timeout: time.Duration(a.cfg.Voice.Timeout) * time.Second,
		Logger:  a.logger.Component("transcriber"),
	})
}

func (a *app) runInteractive(cmd *cobra.Command) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}
	engine := a.newEngine(session)

	confirm := a.confirm || a.cfg.AI.Confirm
	transcriber := a.newTranscriber()

	if !a.plain && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.Run(session, engine, tui.Options{
			AIMode:      a.aiMode,
			Confirm:     confirm,
			Transcriber: transcriber,
			Context:     cmd.Context(),
		})
	}

	repl := terminal.NewREPL(session, engine, transcriber, cmd.InOrStdin(), cmd.OutOrStdout())
	if renderer, err := terminal.NewRenderer(80); err == nil {
		repl.SetRenderer(renderer)
	}
	repl.SetAIMode(a.aiMode)
	repl.SetConfirm(confirm)

	fmt.Fprintln(cmd.OutOrStdout(), "💬 Type a command, /help for help, /exit to leave")
	return repl.Run(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
