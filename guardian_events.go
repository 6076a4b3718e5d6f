package authguard

import (
	"context"
	"strings"

	"github.com/fsdiasv/authguard/internal/activity"
	"github.com/fsdiasv/authguard/session"
)

const recoveryQueryValue = "recovery"

// HandleAuthChange applies a provider auth transition to the
// Guardian's state and performs the associated navigation. It is
// normally driven by the provider subscription but is safe to call
// directly, e.g. when replaying events in tests.
func (g *Guardian) HandleAuthChange(ctx context.Context, event AuthChangeEvent, sess *session.Session) {
	if g == nil {
		return
	}

	switch event {
	case AuthSignedIn:
		g.handleSignedIn(ctx, sess)
	case AuthSignedOut:
		g.handleSignedOut(ctx)
	case AuthPasswordRecovery:
		g.handlePasswordRecovery(ctx, sess)
	case AuthUserUpdated:
		g.handleUserUpdated(sess)
	case AuthTokenRefreshed:
		g.handleTokenRefreshed(sess)
	default:
		g.logger.Debug().Str("event", string(event)).Msg("ignoring unknown auth event")
	}
}

func (g *Guardian) handleSignedIn(ctx context.Context, sess *session.Session) {
	if sess == nil {
		return
	}

	g.mu.Lock()
	wasRecovery := g.recoveryFlow
	u := sess.User
	g.state.Session = sess
	g.state.User = &u
	g.state.Err = nil
	g.state.Loading = false
	g.lastActivity = g.clock()
	g.mu.Unlock()

	g.recordActivity(ctx, sess.User.Email, ActionLogin, true)

	if wasRecovery || g.inRecoveryLocation() {
		// Recovery sign-ins must land on the reset form, never the
		// dashboard.
		return
	}

	g.navigate(g.signedInTarget(ctx))
}

func (g *Guardian) handleSignedOut(ctx context.Context) {
	g.mu.Lock()
	manual := g.loggingOut
	g.loggingOut = false
	g.state.Session = nil
	g.state.User = nil
	g.state.Loading = false
	g.recoveryFlow = false
	g.mu.Unlock()

	if manual {
		return
	}
	if g.navigator != nil && g.onAuthPath(g.navigator.Current()) {
		return
	}

	g.navigate(g.localePath(ctx, "/"))
}

func (g *Guardian) handlePasswordRecovery(ctx context.Context, sess *session.Session) {
	g.mu.Lock()
	g.recoveryFlow = true
	if sess != nil {
		u := sess.User
		g.state.Session = sess
		g.state.User = &u
	}
	g.state.Loading = false
	g.mu.Unlock()

	g.navigate(g.localePath(ctx, g.config.Guardian.ResetPasswordPath))
}

func (g *Guardian) handleUserUpdated(sess *session.Session) {
	if sess == nil {
		return
	}

	g.mu.Lock()
	u := sess.User
	g.state.User = &u
	if g.state.Session != nil {
		g.state.Session = sess
	}
	g.mu.Unlock()
}

func (g *Guardian) handleTokenRefreshed(sess *session.Session) {
	if sess == nil {
		return
	}

	g.mu.Lock()
	u := sess.User
	g.state.Session = sess
	g.state.User = &u
	g.mu.Unlock()
}

// signedInTarget resolves the post-sign-in destination: an internal
// redirectTo query parameter when present, the locale dashboard
// otherwise.
func (g *Guardian) signedInTarget(ctx context.Context) string {
	if g.navigator != nil {
		loc := g.navigator.Current()
		if target := loc.Query.Get("redirectTo"); strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
			return target
		}
	}
	return g.localePath(ctx, g.config.Guardian.DashboardPath)
}

func (g *Guardian) inRecoveryLocation() bool {
	if g.navigator == nil {
		return false
	}
	loc := g.navigator.Current()
	if loc.Query.Get("type") == recoveryQueryValue {
		return true
	}
	return strings.Contains(loc.Path, g.config.Guardian.ResetPasswordPath)
}

func (g *Guardian) recordActivity(ctx context.Context, userID, action string, success bool) {
	if g.activity == nil || userID == "" {
		return
	}

	entry := activity.Entry{
		Action:    action,
		Timestamp: g.clock(),
		Success:   success,
	}
	if err := g.activity.Record(ctx, userID, entry); err != nil {
		g.logger.Warn().Err(err).Str("action", action).Msg("activity record failed")
	}
}
