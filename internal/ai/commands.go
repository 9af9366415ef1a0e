package ai

import (
	"fmt"
	"strings"
)

// SystemPrompt builds the instructions sent ahead of every translation.
func SystemPrompt(currentDirectory, goos string) string {
	shell := "POSIX sh"
	if goos == "windows" {
		shell = "Windows CMD"
	}

	return fmt.Sprintf(`You are an AI assistant built into a command-line shell. Convert the user's natural language request into valid %[1]s commands.

Guidelines:
1. Return ONLY the exact command(s) to execute.
2. Put each command on its own line when several are needed.
3. No explanations, no markdown, no other text.
4. Break multi-step tasks into separate commands.
5. If the task cannot be done with %[1]s commands, return: echo Cannot complete this task with shell commands.

The current working directory is: %[2]s
The operating system is: %[3]s`, shell, currentDirectory, goos)
}

// ExtractCommands pulls command lines out of a model reply. A surrounding
// code fence, blank lines and comment lines are dropped; order is kept.
func ExtractCommands(response string) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")

	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}

	var commands []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		commands = append(commands, line)
	}
	return commands
}
