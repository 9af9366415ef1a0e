// Package security provides the safety filter applied to every command
// before the gate classifies it.
//
// The filter is a fixed blocklist checked against the lowercased command
// text:
//
//   - Literal substrings (recursive delete of a root, disk format, forced
//     mass deletion)
//   - Regular expressions matching dangerous command shapes regardless of
//     exact spacing or drive letter
//
// Configuration may append entries. The built-in entries always apply.
// This is best-effort pattern matching, not a sandbox: indirection through
// pipes, variables or equivalent commands is not detected.
package security
