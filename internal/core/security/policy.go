package security

// SecurityPolicy defines the user-configurable part of the blocklist.
type SecurityPolicy struct {
	// BlockedCommands are extra literal substrings. Matching is
	// case-insensitive.
	BlockedCommands []string `mapstructure:"blocked_commands" yaml:"blocked_commands"`

	// BlockedPatterns are extra regular expressions, matched against the
	// lowercased command.
	BlockedPatterns []string `mapstructure:"blocked_patterns" yaml:"blocked_patterns"`
}

// BlockedMessage is returned for every command rejected by the filter.
const BlockedMessage = "Command blocked for safety reasons. Please use a less destructive alternative."

// builtinLiterals are always checked, whatever the policy says.
var builtinLiterals = []string{
	"rm -rf /",
	"rmdir /s /q c:",
	"format",
	"del /f /s /q",
}

// builtinPatterns match dangerous shapes the literals miss.
var builtinPatterns = []string{
	`rm\s+-rf\s+[/\\]`,            // rm -rf / or similar
	`rmdir\s+/s\s+/q\s+[c-zC-Z]:`, // rmdir /s /q drive:
	`format\s+[c-zC-Z]:`,          // format drive:
	`del\s+/[fFqQsS]+\s+[/\\]`,    // del with force/quiet/subdir flags at a root
}

// DefaultPolicy returns a policy with no additions.
func DefaultPolicy() *SecurityPolicy {
	return &SecurityPolicy{
		BlockedCommands: []string{},
		BlockedPatterns: []string{},
	}
}
