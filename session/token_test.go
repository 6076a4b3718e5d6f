package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, iat, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	})
	out, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return out
}

func TestTokenIssuedAt(t *testing.T) {
	iat := time.Now().Add(-30 * time.Minute).Truncate(time.Second)
	exp := iat.Add(time.Hour)

	got, err := TokenIssuedAt(signedToken(t, iat, exp))
	if err != nil {
		t.Fatalf("TokenIssuedAt failed: %v", err)
	}
	if !got.Equal(iat) {
		t.Fatalf("expected iat %v, got %v", iat, got)
	}
}

func TestTokenExpiresAt(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	exp := iat.Add(time.Hour)

	got, err := TokenExpiresAt(signedToken(t, iat, exp))
	if err != nil {
		t.Fatalf("TokenExpiresAt failed: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, got)
	}
}

func TestTokenIssuedAtRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := TokenIssuedAt(tok); !errors.Is(err, ErrTokenUnreadable) {
			t.Fatalf("expected ErrTokenUnreadable for %q, got %v", tok, err)
		}
	}
}

func TestIssuedAtPrefersTokenClaim(t *testing.T) {
	iat := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	s := &Session{
		AccessToken: signedToken(t, iat, iat.Add(time.Hour)),
		ExpiresAt:   time.Now().Add(5 * time.Minute).Unix(),
		ExpiresIn:   3600,
	}

	if got := s.IssuedAt(time.Hour); !got.Equal(iat) {
		t.Fatalf("expected issue time from token claim %v, got %v", iat, got)
	}
}

func TestIssuedAtFallsBackToExpiresIn(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	s := &Session{
		AccessToken: "opaque-token",
		ExpiresAt:   exp.Unix(),
		ExpiresIn:   3600,
	}

	want := exp.Add(-time.Hour)
	if got := s.IssuedAt(24 * time.Hour); !got.Equal(want) {
		t.Fatalf("expected fallback issue time %v, got %v", want, got)
	}
}

func TestIssuedAtFallsBackToAssumedLifetime(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	s := &Session{
		AccessToken: "opaque-token",
		ExpiresAt:   exp.Unix(),
	}

	want := exp.Add(-2 * time.Hour)
	if got := s.IssuedAt(2 * time.Hour); !got.Equal(want) {
		t.Fatalf("expected assumed-lifetime issue time %v, got %v", want, got)
	}
}

func TestNilSessionAccessors(t *testing.T) {
	var s *Session
	if !s.Expiry().IsZero() {
		t.Fatal("expected zero expiry for nil session")
	}
	if s.TimeToExpiry(time.Now()) != 0 {
		t.Fatal("expected zero time-to-expiry for nil session")
	}
	if s.Age(time.Now(), time.Hour) != 0 {
		t.Fatal("expected zero age for nil session")
	}
}
