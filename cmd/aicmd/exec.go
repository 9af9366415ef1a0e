package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// getExecCommand returns the exec command
func getExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run one command through the safety gate",
		Long: `Run a single command in the current directory.

The command goes through the same checks as interactive input: destructive
commands are blocked, cd is validated, and everything else is handed to the
host shell with a 30 second timeout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.newSession()
			if err != nil {
				return err
			}

			out := session.Submit(cmd.Context(), strings.Join(args, " "))
			if out.Succeeded {
				if out.Message != "" {
					fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				}
				return nil
			}

			fmt.Fprintln(cmd.ErrOrStderr(), out.Message)
			return fmt.Errorf("command failed (%s)", out.Kind)
		},
	}
}
