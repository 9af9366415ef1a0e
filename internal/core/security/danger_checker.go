package security

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckResult represents the result of a safety check.
type CheckResult struct {
	Blocked bool
	// Rule is the literal or pattern that matched.
	Rule   string
	Reason string
}

// DangerousCommandChecker detects destructive commands.
type DangerousCommandChecker struct {
	dangerousCommands []string
	dangerousPatterns []*regexp.Regexp
}

// builtinRegexps are compiled once; a bad built-in pattern panics at init.
var builtinRegexps = compilePatterns(builtinPatterns)

func compilePatterns(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// NewBuiltinChecker creates a checker with only the built-in blocklist.
func NewBuiltinChecker() *DangerousCommandChecker {
	return &DangerousCommandChecker{
		dangerousCommands: append([]string(nil), builtinLiterals...),
		dangerousPatterns: append([]*regexp.Regexp(nil), builtinRegexps...),
	}
}

// NewDangerousCommandChecker creates a checker with the built-in blocklist
// plus the additions from policy. A nil policy means no additions.
func NewDangerousCommandChecker(policy *SecurityPolicy) (*DangerousCommandChecker, error) {
	dc := NewBuiltinChecker()
	if policy == nil {
		return dc, nil
	}

	for _, lit := range policy.BlockedCommands {
		lit = strings.ToLower(strings.TrimSpace(lit))
		if lit == "" {
			continue
		}
		dc.dangerousCommands = append(dc.dangerousCommands, lit)
	}
	for _, p := range policy.BlockedPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked pattern %q: %w", p, err)
		}
		dc.dangerousPatterns = append(dc.dangerousPatterns, re)
	}

	return dc, nil
}

// Check tests the raw command text against the blocklist.
func (dc *DangerousCommandChecker) Check(raw string) *CheckResult {
	cmdLower := strings.ToLower(raw)

	for _, blocked := range dc.dangerousCommands {
		if strings.Contains(cmdLower, blocked) {
			return &CheckResult{
				Blocked: true,
				Rule:    blocked,
				Reason:  "matches blocked command",
			}
		}
	}

	for _, re := range dc.dangerousPatterns {
		if re.MatchString(cmdLower) {
			return &CheckResult{
				Blocked: true,
				Rule:    re.String(),
				Reason:  "matches dangerous pattern",
			}
		}
	}

	return &CheckResult{Blocked: false}
}

// IsDangerous reports whether raw would be blocked.
func (dc *DangerousCommandChecker) IsDangerous(raw string) bool {
	return dc.Check(raw).Blocked
}
