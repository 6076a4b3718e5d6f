package password

import (
	"strings"
	"unicode"
)

// Issue and feedback strings surfaced to callers. These are stable API:
// UIs key inline rendering off them.
const (
	IssueTooShort   = "Password must be at least 8 characters long"
	IssueDictionary = "Avoid common dictionary words"

	FeedbackAddLowercase = "Add lowercase letters"
	FeedbackAddUppercase = "Add uppercase letters"
	FeedbackAddNumbers   = "Add numbers"
	FeedbackAddSpecial   = "Add special characters"
)

// Strength is the result of scoring one password. Score is always in
// [0,4]. Strong requires Score >= the policy threshold and an empty
// CriticalIssues list.
type Strength struct {
	Score          int
	Strong         bool
	CriticalIssues []string
	Feedback       []string
}

// Policy holds strength scoring parameters.
//
// Policy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Policy struct {
	MinLength   int
	BonusLength int
	LongLength  int
	StrongScore int
	Denylist    []string
}

// Default returns the policy used when callers do not configure one.
func Default() Policy {
	return Policy{
		MinLength:   8,
		BonusLength: 12,
		LongLength:  16,
		StrongScore: 2,
		Denylist: []string{
			"password",
			"admin",
			"welcome",
			"secret",
			"login",
			"qwerty",
			"letmein",
			"abc123",
		},
	}
}

// Evaluate scores password against the policy. It never fails; empty
// and whitespace-only inputs simply score zero with the length issue.
func (p Policy) Evaluate(password string) Strength {
	result := Strength{}
	length := len([]rune(password))

	if length >= p.MinLength {
		result.Score++
	} else {
		result.CriticalIssues = append(result.CriticalIssues, IssueTooShort)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			if !unicode.IsSpace(r) {
				hasSpecial = true
			}
		}
	}

	if hasLower && hasUpper {
		result.Score++
	}
	if !hasLower {
		result.Feedback = append(result.Feedback, FeedbackAddLowercase)
	}
	if !hasUpper {
		result.Feedback = append(result.Feedback, FeedbackAddUppercase)
	}
	if !hasDigit {
		result.Feedback = append(result.Feedback, FeedbackAddNumbers)
	}
	if !hasSpecial {
		result.Feedback = append(result.Feedback, FeedbackAddSpecial)
	}

	classes := 0
	for _, has := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if has {
			classes++
		}
	}
	if length >= p.MinLength && classes >= 3 {
		result.Score++
	}
	if length >= p.BonusLength {
		result.Score++
	}
	if length >= p.LongLength {
		result.Score++
	}

	if p.matchesDenylist(password) {
		result.CriticalIssues = append(result.CriticalIssues, IssueDictionary)
		// A dictionary hit voids the diversity and length bonuses; only
		// the base length point survives.
		base := 0
		if length >= p.MinLength {
			base = 1
		}
		if result.Score > base {
			result.Score = base
		}
	}

	if result.Score > 4 {
		result.Score = 4
	}
	if result.Score < 0 {
		result.Score = 0
	}

	result.Strong = result.Score >= p.StrongScore && len(result.CriticalIssues) == 0

	return result
}

func (p Policy) matchesDenylist(password string) bool {
	lowered := strings.ToLower(password)
	for _, word := range p.Denylist {
		if word == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// Evaluate scores password with [Default] policy.
func Evaluate(password string) Strength {
	return Default().Evaluate(password)
}
