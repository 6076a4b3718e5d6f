package authguard

import "testing"

func TestEvaluateSlugReservedWords(t *testing.T) {
	for _, slug := range []string{"admin", "ADMIN", "Api", "dashboard", "Workspace"} {
		got := EvaluateSlug(slug)
		if got.Valid {
			t.Fatalf("expected %q to be invalid", slug)
		}
		if !containsIssue(got.Issues, IssueSlugReserved) {
			t.Fatalf("expected reserved issue for %q, got %v", slug, got.Issues)
		}
	}
}

func TestEvaluateSlugBoundarySpecials(t *testing.T) {
	for _, slug := range []string{"-acme", "acme-", "_acme", "acme.", ".acme"} {
		got := EvaluateSlug(slug)
		if got.Valid {
			t.Fatalf("expected %q to be invalid", slug)
		}
		if !containsIssue(got.Issues, IssueSlugBoundarySpecial) {
			t.Fatalf("expected boundary issue for %q, got %v", slug, got.Issues)
		}
	}
}

func TestEvaluateSlugConsecutiveSpecials(t *testing.T) {
	for _, slug := range []string{"ac--me", "ac__me", "ac-.me", "a..b"} {
		got := EvaluateSlug(slug)
		if got.Valid {
			t.Fatalf("expected %q to be invalid", slug)
		}
		if !containsIssue(got.Issues, IssueSlugConsecutiveSpecial) {
			t.Fatalf("expected consecutive issue for %q, got %v", slug, got.Issues)
		}
	}
}

func TestEvaluateSlugAccumulatesViolations(t *testing.T) {
	got := EvaluateSlug("-admin--")
	if got.Valid {
		t.Fatal("expected -admin-- to be invalid")
	}
	if len(got.Issues) <= 1 {
		t.Fatalf("expected multiple issues, got %v", got.Issues)
	}
}

func TestEvaluateSlugAcceptsCleanSlugs(t *testing.T) {
	for _, slug := range []string{"acme", "acme-corp", "a1-b2.c3", "team_alpha"} {
		got := EvaluateSlug(slug)
		if !got.Valid {
			t.Fatalf("expected %q to be valid, got %v", slug, got.Issues)
		}
	}
}

func TestEvaluateSlugEmptyPassesPatternChecks(t *testing.T) {
	got := EvaluateSlug("")
	if !got.Valid {
		t.Fatalf("expected empty slug to pass pattern checks, got %v", got.Issues)
	}
}

func TestEvaluateSlugReservedWordInsideLongerSlugAllowed(t *testing.T) {
	got := EvaluateSlug("admin-team")
	if !got.Valid {
		t.Fatalf("expected exact-match-only reserved check, got %v", got.Issues)
	}
}
