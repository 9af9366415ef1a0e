package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var errNoTranscriber = errors.New("speech-to-text API key not configured: set ELEVENLABS_API_KEY or voice.api_key in ~/.aicmd/config.yaml")

// getTranscribeCommand returns the transcribe command
func getTranscribeCommand(a *app) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "transcribe <file.wav>",
		Short: "Turn a voice recording into text",
		Long: `Send a WAV recording to the speech-to-text service and print the text.

With --run the text is treated as an AI request, the same as 'aicmd ask'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcriber := a.newTranscriber()
			if transcriber == nil {
				return errNoTranscriber
			}

			audio, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}

			text, err := transcriber.Transcribe(cmd.Context(), audio)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if !run {
				return nil
			}
			return a.ask(cmd, text, false, a.cfg.AI.Confirm)
		},
	}

	cmd.Flags().BoolVarP(&run, "run", "r", false, "Run the recognized text as an AI request")

	return cmd
}
