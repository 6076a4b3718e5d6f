package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authguard "github.com/fsdiasv/authguard"
	"github.com/fsdiasv/authguard/session"
)

type stubProvider struct{}

func (stubProvider) SignInWithPassword(context.Context, authguard.Credentials) (*session.Session, error) {
	return nil, nil
}
func (stubProvider) SignUp(context.Context, authguard.SignUpParams) (*session.Session, error) {
	return nil, nil
}
func (stubProvider) SignInWithOAuth(context.Context, authguard.OAuthParams) (string, error) {
	return "", nil
}
func (stubProvider) SignOut(context.Context) error                         { return nil }
func (stubProvider) ResetPasswordForEmail(context.Context, string, string) error { return nil }
func (stubProvider) UpdateUser(context.Context, authguard.UserAttributes) (*session.User, error) {
	return nil, nil
}
func (stubProvider) RefreshSession(context.Context) (*session.Session, error) { return nil, nil }
func (stubProvider) ResendVerification(context.Context, string) error         { return nil }
func (stubProvider) CurrentSession(context.Context) (*session.Session, error) { return nil, nil }
func (stubProvider) OnAuthStateChange(authguard.AuthChangeHandler) authguard.Subscription {
	return nil
}

func newGuardian(t *testing.T) *authguard.Guardian {
	t.Helper()

	cfg := authguard.DefaultConfig()
	cfg.Throttle.Enabled = false

	guardian, err := authguard.New().WithConfig(cfg).WithProvider(stubProvider{}).Build()
	require.NoError(t, err)
	return guardian
}

func liveSession() *session.Session {
	return &session.Session{
		AccessToken: "opaque",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		ExpiresIn:   3600,
		User:        session.User{ID: "user-1", Email: "user@example.com"},
	}
}

func TestRequireSessionRejectsWithoutSession(t *testing.T) {
	guardian := newGuardian(t)

	handler := RequireSession(guardian)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionPassesWithLiveSession(t *testing.T) {
	guardian := newGuardian(t)
	guardian.HandleAuthChange(context.Background(), authguard.AuthSignedIn, liveSession())

	var seen *session.User
	handler := RequireSession(guardian)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "user@example.com", seen.Email)
	require.False(t, guardian.LastActivity().IsZero())
}

func TestRequireSessionRejectsExpiredSession(t *testing.T) {
	guardian := newGuardian(t)
	expired := liveSession()
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	guardian.HandleAuthChange(context.Background(), authguard.AuthSignedIn, expired)

	handler := RequireSession(guardian)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:4242"
	require.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", clientIP(r))
}

func TestPreferredLocale(t *testing.T) {
	require.Equal(t, "pt", preferredLocale("pt-BR,pt;q=0.9,en;q=0.8"))
	require.Equal(t, "en", preferredLocale("en"))
	require.Equal(t, "", preferredLocale("*"))
	require.Equal(t, "", preferredLocale(""))
}
