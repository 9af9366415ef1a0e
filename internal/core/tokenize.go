package core

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnclosedQuote is returned by splitCommand for unbalanced quotes.
var ErrUnclosedQuote = errors.New("no closing quotation")

// splitCommand splits s on whitespace, keeping quoted runs together.
//
// Quote characters stay in the tokens and backslashes are ordinary
// characters, so Windows paths survive. A quote opening a token ends the
// token at its closing quote. A quote inside a word is kept as a literal.
// Nothing is expanded.
func splitCommand(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		inWord  bool
	)

	flush := func() {
		tokens = append(tokens, current.String())
		current.Reset()
		inWord = false
	}

	for _, ch := range s {
		switch {
		case quote != 0:
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
				flush()
			}
		case unicode.IsSpace(ch):
			if inWord {
				flush()
			}
		case !inWord && (ch == '"' || ch == '\''):
			quote = ch
			current.WriteRune(ch)
		default:
			inWord = true
			current.WriteRune(ch)
		}
	}

	if quote != 0 {
		return nil, ErrUnclosedQuote
	}
	if inWord {
		flush()
	}

	return tokens, nil
}

// stripQuotes removes one quote character from each end of s.
func stripQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return s
}
