package authguard

import (
	"regexp"
	"strings"
)

var (
	controlCharPattern = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	jsSchemePattern    = regexp.MustCompile(`(?i)javascript:`)
)

const defaultSanitizeCap = 1000

// SanitizePolicy caps free-text auth inputs.
//
// SanitizePolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SanitizePolicy struct {
	MaxLength int
}

// DefaultSanitizePolicy returns the policy applied by [SanitizeInput].
func DefaultSanitizePolicy() SanitizePolicy {
	return SanitizePolicy{MaxLength: defaultSanitizeCap}
}

// Sanitize strips ASCII control characters, script blocks, and
// javascript: scheme prefixes, trims surrounding whitespace, and caps
// the result at MaxLength runes. It always returns a string and is
// idempotent: removals run to a fixpoint so stripped fragments cannot
// recombine into a new match.
func (p SanitizePolicy) Sanitize(input string) string {
	out := input
	for {
		next := controlCharPattern.ReplaceAllString(out, "")
		next = scriptBlockPattern.ReplaceAllString(next, "")
		next = jsSchemePattern.ReplaceAllString(next, "")
		if next == out {
			break
		}
		out = next
	}
	out = strings.TrimSpace(out)

	limit := p.MaxLength
	if limit <= 0 {
		limit = defaultSanitizeCap
	}
	if runes := []rune(out); len(runes) > limit {
		out = strings.TrimSpace(string(runes[:limit]))
	}
	return out
}

// SanitizeInput sanitizes input with [DefaultSanitizePolicy].
func SanitizeInput(input string) string {
	return DefaultSanitizePolicy().Sanitize(input)
}
