package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
	"github.com/Lin-Jiong-HDU/aicmd/internal/terminal"
	"github.com/spf13/cobra"
)

var errNoTranslator = errors.New("AI API key not configured: set OPENROUTER_API_KEY or ai.api_key in ~/.aicmd/config.yaml")

// getAskCommand returns the ask command
func getAskCommand(a *app) *cobra.Command {
	var (
		dryRun  bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "ask <query...>",
		Short: "Translate a request into commands and run them",
		Long: `Ask the AI for the commands that carry out a natural-language request,
then run them one after another in the current directory.

A failed command does not stop the ones after it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ask(cmd, strings.Join(args, " "), dryRun, confirm || a.cfg.AI.Confirm)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print the generated commands")
	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Ask before each command runs")

	return cmd
}

func (a *app) ask(cmd *cobra.Command, query string, dryRun, confirm bool) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}
	engine := a.newEngine(session)
	if engine == nil {
		return errNoTranslator
	}

	out := cmd.OutOrStdout()

	if dryRun {
		commands, err := engine.Translate(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, c := range commands {
			fmt.Fprintln(out, c)
		}
		return nil
	}

	var confirmFn core.ConfirmFunc
	if confirm {
		in := bufio.NewReader(cmd.InOrStdin())
		confirmFn = func(command string) (bool, error) {
			return terminal.ConfirmWithIO(command, in, out)
		}
	}

	failed := 0
	steps, err := engine.Process(cmd.Context(), query, confirmFn, func(step core.Step) {
		fmt.Fprintf(out, "🔧 %s\n", step.Command)
		switch {
		case step.Skipped:
		case step.Outcome.Succeeded:
			if step.Outcome.Message != "" {
				fmt.Fprintln(out, step.Outcome.Message)
			}
		default:
			failed++
			fmt.Fprintf(out, "❌ %s\n", step.Outcome.Message)
		}
	})
	if err != nil && !errors.Is(err, core.ErrQuitAll) {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d commands failed", failed, len(steps))
	}
	return nil
}
