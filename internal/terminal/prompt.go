package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core"
)

// ErrQuitAll is returned by Confirm when the user cancels the batch.
var ErrQuitAll = core.ErrQuitAll

// Confirm prompts the user for command confirmation
// Returns true if approved, false if skipped, ErrQuitAll if quit all
func Confirm(command string) (bool, error) {
	return ConfirmWithIO(command, nil, nil)
}

// ConfirmWithIO prompts the user with provided IO (for testing)
func ConfirmWithIO(command string, input io.Reader, output io.Writer) (bool, error) {
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}

	fmt.Fprintf(output, "\n⚠️  Run this command?\n\n")
	fmt.Fprintf(output, "Command: %s\n", command)
	fmt.Fprintf(output, "\n[y] run  [s] skip  [q] cancel all\n> ")

	reader := asBufioReader(input)
	for {
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			fmt.Fprintln(output, "✓ Approved")
			return true, nil
		case "s":
			fmt.Fprintln(output, "⊘ Skipped")
			return false, nil
		case "q":
			fmt.Fprintln(output, "✗ Cancelled remaining commands")
			return false, ErrQuitAll
		default:
			fmt.Fprintf(output, "Invalid choice, enter y/s/q: ")
		}
	}
}

// asBufioReader reuses r when it is already buffered so that a shared
// reader does not lose bytes to a second buffer.
func asBufioReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
