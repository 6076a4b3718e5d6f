package authguard

import (
	"regexp"
	"strings"
)

// Issue strings returned by [EmailPolicy.Evaluate].
const (
	IssueEmailInvalidFormat = "Invalid email format"
	IssueEmailSuspicious    = "Email contains suspicious patterns"
	IssueEmailDisposable    = "Temporary email domains are not allowed"
	IssueEmailTooLong       = "Email address is too long"
)

var emailFormatPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// EmailSecurity is the result of one email evaluation. Valid means the
// format is acceptable; Secure means the format is valid and no
// heuristic red flag fired.
type EmailSecurity struct {
	Valid  bool
	Secure bool
	Issues []string
}

// EmailPolicy holds email heuristics configuration.
//
// EmailPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EmailPolicy struct {
	MaxLength          int
	FlagPlusAddressing bool
	DisposableDomains  []string
}

// DefaultEmailPolicy returns the policy used by [EvaluateEmail].
func DefaultEmailPolicy() EmailPolicy {
	return EmailPolicy{
		MaxLength:          254,
		FlagPlusAddressing: true,
		DisposableDomains: []string{
			"10minutemail.com",
			"tempmail.org",
			"guerrillamail.com",
			"mailinator.com",
			"throwaway.email",
			"yopmail.com",
			"trashmail.com",
		},
	}
}

// Evaluate validates format and runs heuristic checks over email.
// Format failure short-circuits with exactly one issue.
func (p EmailPolicy) Evaluate(email string) EmailSecurity {
	if !emailFormatPattern.MatchString(email) {
		return EmailSecurity{
			Valid:  false,
			Secure: false,
			Issues: []string{IssueEmailInvalidFormat},
		}
	}

	result := EmailSecurity{Valid: true}

	at := strings.LastIndex(email, "@")
	local := email[:at]
	domain := strings.ToLower(email[at+1:])

	if p.localPartSuspicious(local) {
		result.Issues = append(result.Issues, IssueEmailSuspicious)
	}
	if p.isDisposable(domain) {
		result.Issues = append(result.Issues, IssueEmailDisposable)
	}

	limit := p.MaxLength
	if limit <= 0 {
		limit = 254
	}
	if len(email) > limit {
		result.Issues = append(result.Issues, IssueEmailTooLong)
	}

	result.Secure = result.Valid && len(result.Issues) == 0
	return result
}

func (p EmailPolicy) localPartSuspicious(local string) bool {
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return true
	}
	if strings.Contains(local, "..") {
		return true
	}
	if p.FlagPlusAddressing && strings.Contains(local, "+") {
		return true
	}
	return false
}

func (p EmailPolicy) isDisposable(domain string) bool {
	for _, d := range p.DisposableDomains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

// EvaluateEmail evaluates email with [DefaultEmailPolicy].
func EvaluateEmail(email string) EmailSecurity {
	return DefaultEmailPolicy().Evaluate(email)
}
