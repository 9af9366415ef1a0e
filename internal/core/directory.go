package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// changeDirectory handles cd/chdir and reports pushd/popd as unsupported.
// tokens[0] is the verb.
func changeDirectory(tokens []string, workingDir string) Outcome {
	verb := strings.ToLower(tokens[0])

	if verb != "cd" && verb != "chdir" {
		// No directory stack is kept.
		return failure(KindUnimplemented, fmt.Sprintf("Command %s not fully implemented.", verb))
	}

	if len(tokens) == 1 {
		return Outcome{Message: workingDir, Succeeded: true, Kind: KindDirectoryQuery}
	}

	// Tokenizing split unquoted paths on spaces; put them back together.
	target := stripQuotes(strings.Join(tokens[1:], " "))

	newDir := target
	if !filepath.IsAbs(target) {
		newDir = filepath.Join(workingDir, target)
	}

	info, err := os.Stat(newDir)
	if err != nil || !info.IsDir() {
		return failure(KindNotFound, fmt.Sprintf("The system cannot find the path specified: %s", target))
	}

	return Outcome{
		Message:             fmt.Sprintf("Changed directory to: %s", newDir),
		Succeeded:           true,
		NewWorkingDirectory: newDir,
		Kind:                KindDirectoryChanged,
	}
}
