package authguard

import (
	"strings"
	"testing"
)

func TestEvaluateEmailInvalidFormat(t *testing.T) {
	cases := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"missing-domain@",
		"no-tld@domain",
		"spaces in@local.com",
		"double@@example.com",
	}
	for _, email := range cases {
		got := EvaluateEmail(email)
		if got.Valid {
			t.Fatalf("expected %q to be invalid", email)
		}
		if got.Secure {
			t.Fatalf("expected %q to be insecure", email)
		}
		if len(got.Issues) != 1 || got.Issues[0] != IssueEmailInvalidFormat {
			t.Fatalf("expected single format issue for %q, got %v", email, got.Issues)
		}
	}
}

func TestEvaluateEmailCleanAddress(t *testing.T) {
	got := EvaluateEmail("alice@example.com")
	if !got.Valid || !got.Secure {
		t.Fatalf("expected clean address to be valid and secure, got %+v", got)
	}
	if len(got.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", got.Issues)
	}
}

func TestEvaluateEmailDisposableDomainCaseInsensitive(t *testing.T) {
	cases := []string{
		"user@tempmail.org",
		"user@TEMPMAIL.ORG",
		"user@Mailinator.Com",
		"user@10minutemail.com",
	}
	for _, email := range cases {
		got := EvaluateEmail(email)
		if !got.Valid {
			t.Fatalf("expected %q to be format-valid", email)
		}
		if got.Secure {
			t.Fatalf("expected %q to be insecure", email)
		}
		if !containsIssue(got.Issues, IssueEmailDisposable) {
			t.Fatalf("expected disposable issue for %q, got %v", email, got.Issues)
		}
	}
}

func TestEvaluateEmailSuspiciousLocalPart(t *testing.T) {
	cases := []string{
		"user..name@example.com",
		".leading@example.com",
		"trailing.@example.com",
		"user+tag@example.com",
	}
	for _, email := range cases {
		got := EvaluateEmail(email)
		if !got.Valid {
			t.Fatalf("expected %q to be format-valid", email)
		}
		if got.Secure {
			t.Fatalf("expected %q to be insecure", email)
		}
		if !containsIssue(got.Issues, IssueEmailSuspicious) {
			t.Fatalf("expected suspicious issue for %q, got %v", email, got.Issues)
		}
	}
}

func TestEvaluateEmailPlusAddressingCanBeAllowed(t *testing.T) {
	p := DefaultEmailPolicy()
	p.FlagPlusAddressing = false

	got := p.Evaluate("user+tag@example.com")
	if !got.Secure {
		t.Fatalf("expected plus addressing to pass when disabled, got %v", got.Issues)
	}
}

func TestEvaluateEmailTooLong(t *testing.T) {
	email := strings.Repeat("a", 250) + "@example.com"
	got := EvaluateEmail(email)

	if !got.Valid {
		t.Fatal("expected long address to be format-valid")
	}
	if got.Secure {
		t.Fatal("expected long address to be insecure")
	}
	if !containsIssue(got.Issues, IssueEmailTooLong) {
		t.Fatalf("expected length issue, got %v", got.Issues)
	}
}

func TestEvaluateEmailAccumulatesIssues(t *testing.T) {
	got := EvaluateEmail("..user+tag@mailinator.com")
	if len(got.Issues) < 2 {
		t.Fatalf("expected multiple issues, got %v", got.Issues)
	}
}

func containsIssue(issues []string, want string) bool {
	for _, issue := range issues {
		if issue == want {
			return true
		}
	}
	return false
}
