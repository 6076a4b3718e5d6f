package middleware

import (
	"context"
	"net/http"
	"time"

	authguard "github.com/fsdiasv/authguard"
	"github.com/fsdiasv/authguard/session"
)

type userContextKey struct{}

// UserFromContext returns the user attached by [RequireSession].
func UserFromContext(ctx context.Context) (*session.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*session.User)
	return user, ok
}

// RequireSession returns middleware that rejects requests while the guardian
// holds no live session. Requests that pass mark user activity for the
// inactivity check and carry the current user in their context.
func RequireSession(guardian *authguard.Guardian) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guardian == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sess := guardian.Session()
			if sess == nil || sess.TimeToExpiry(time.Now()) <= 0 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			guardian.Touch()

			ctx := context.WithValue(r.Context(), userContextKey{}, guardian.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
