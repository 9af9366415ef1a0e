package ai

import "context"

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// Translator turns a natural-language request into shell commands.
type Translator interface {
	// Translate returns candidate commands in execution order. Each is
	// meant to be fed to the command gate on its own.
	Translate(ctx context.Context, query string, currentDirectory string) ([]string, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	// Transcribe accepts a WAV container. Empty audio is rejected before
	// any network call.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
