package authguard

import "strings"

// Issue strings returned by [SlugPolicy.Evaluate].
const (
	IssueSlugReserved           = "Slug cannot use reserved words"
	IssueSlugBoundarySpecial    = "Slug cannot start or end with special characters"
	IssueSlugConsecutiveSpecial = "Slug cannot contain consecutive special characters"
)

// SlugValidation is the result of one workspace slug evaluation.
type SlugValidation struct {
	Valid  bool
	Issues []string
}

// SlugPolicy holds the reserved-word denylist for tenant slugs.
//
// SlugPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SlugPolicy struct {
	ReservedWords []string
}

// DefaultSlugPolicy returns the policy used by [EvaluateSlug].
func DefaultSlugPolicy() SlugPolicy {
	return SlugPolicy{
		ReservedWords: []string{
			"admin",
			"api",
			"www",
			"app",
			"dashboard",
			"settings",
			"auth",
			"login",
			"logout",
			"signup",
			"workspace",
			"billing",
			"support",
			"docs",
			"status",
			"root",
			"system",
		},
	}
}

// Evaluate checks slug against the reserved-word denylist and boundary
// rules. Violations accumulate; an empty slug passes every check.
func (p SlugPolicy) Evaluate(slug string) SlugValidation {
	result := SlugValidation{}

	for _, word := range p.ReservedWords {
		if strings.EqualFold(slug, word) {
			result.Issues = append(result.Issues, IssueSlugReserved)
			break
		}
	}

	if len(slug) > 0 {
		if isSlugSpecial(rune(slug[0])) || isSlugSpecial(rune(slug[len(slug)-1])) {
			result.Issues = append(result.Issues, IssueSlugBoundarySpecial)
		}
	}

	var prevSpecial bool
	for _, r := range slug {
		special := isSlugSpecial(r)
		if special && prevSpecial {
			result.Issues = append(result.Issues, IssueSlugConsecutiveSpecial)
			break
		}
		prevSpecial = special
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func isSlugSpecial(r rune) bool {
	return r == '-' || r == '_' || r == '.'
}

// EvaluateSlug evaluates slug with [DefaultSlugPolicy].
func EvaluateSlug(slug string) SlugValidation {
	return DefaultSlugPolicy().Evaluate(slug)
}
