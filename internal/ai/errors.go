package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies collaborator failures.
type ErrorKind string

const (
	ErrConfig       ErrorKind = "config"        // Missing API key or endpoint
	ErrInvalidInput ErrorKind = "invalid_input" // Rejected before any request
	ErrTransport    ErrorKind = "transport"     // Request could not be sent or read
	ErrStatus       ErrorKind = "status"        // Non-200 response
	ErrDecode       ErrorKind = "decode"        // Response body did not parse
	ErrEmpty        ErrorKind = "empty"         // Parsed fine but nothing usable
	ErrUnknown      ErrorKind = "unknown"
)

// Error is returned by every Translator and Transcriber in this module.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error for provider.
func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// KindOf returns the kind of err, or ErrUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return ErrUnknown
}
