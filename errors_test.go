package authguard

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyProviderErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind AuthErrorKind
	}{
		{ErrInvalidCredentials, KindInvalidCredentials},
		{ErrEmailUnverified, KindEmailUnverified},
		{ErrPasswordPolicy, KindValidation},
		{ErrEmailPolicy, KindValidation},
		{ErrSlugPolicy, KindValidation},
		{ErrSignInRateLimited, KindRateLimited},
		{ErrSessionExpired, KindSessionExpired},
		{ErrNoSession, KindSessionExpired},
		{ErrProviderUnavailable, KindProviderUnavailable},
		{errors.New("boom"), KindUnknown},
	}

	for _, tc := range cases {
		got := ClassifyProviderError(tc.err)
		if got == nil {
			t.Fatalf("ClassifyProviderError(%v) returned nil", tc.err)
		}
		if got.Kind != tc.kind {
			t.Fatalf("ClassifyProviderError(%v) kind = %d, want %d", tc.err, got.Kind, tc.kind)
		}
	}
}

func TestClassifyProviderErrorNil(t *testing.T) {
	if got := ClassifyProviderError(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestClassifyProviderErrorKeepsSentinel(t *testing.T) {
	wrapped := fmt.Errorf("provider said: %w", ErrInvalidCredentials)

	authErr := ClassifyProviderError(wrapped)
	if !errors.Is(authErr, ErrInvalidCredentials) {
		t.Fatal("classified error lost its sentinel")
	}
}

func TestClassifyProviderErrorPassesThroughAuthError(t *testing.T) {
	original := newAuthError(KindRateLimited, "slow down", ErrSignInRateLimited)

	if got := ClassifyProviderError(original); got != original {
		t.Fatal("AuthError should pass through unchanged")
	}
}
