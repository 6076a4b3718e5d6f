package authguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/fsdiasv/authguard/internal/rate"
	"github.com/fsdiasv/authguard/session"
)

// User-facing notification messages.
const (
	NotifySignedIn        = "Signed in successfully"
	NotifySignedOut       = "Signed out successfully"
	NotifySignUp          = "Check your email to confirm your account"
	NotifyResetSent       = "Password reset email sent"
	NotifyPasswordUpdated = "Password updated successfully"
	NotifyEmailUpdated    = "Check your new email to confirm the change"
	NotifyProfileUpdated  = "Profile updated successfully"
	NotifyResendSent      = "Verification email sent"
	NotifyWeakPassword    = "Please choose a stronger password"

	resendActionLabel = "Resend verification email"
)

const (
	actionPasswordUpdate = "password_update"
	actionRefresh        = "refresh"
)

// SignIn authenticates the email/password pair against the identity
// provider. Input is sanitized and format-checked first, the throttle
// consulted when configured. Failures increment the throttle, land in
// the activity log, and surface through the notifier; unverified-email
// failures carry a resend-verification action.
func (g *Guardian) SignIn(ctx context.Context, email, password string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	email = g.sanitizeInput(email)
	if check := g.config.Email.Evaluate(email); !check.Valid {
		g.metricInc(MetricEmailRejected)
		return g.failOperation(newAuthError(KindValidation, IssueEmailInvalidFormat, ErrEmailPolicy), nil)
	}

	ip := clientIPFromContext(ctx)
	if g.limiter != nil {
		if err := g.limiter.CheckSignIn(ctx, email, ip); err != nil {
			g.metricInc(MetricSignInRateLimited)
			g.emitAudit(ctx, auditEventSignInRateLimited, false, "", ErrSignInRateLimited, func() map[string]string {
				return map[string]string{"identifier": email}
			})
			return g.failOperation(ClassifyProviderError(ErrSignInRateLimited), nil)
		}
	}

	sess, err := g.provider.SignInWithPassword(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		if g.limiter != nil {
			if incErr := g.limiter.IncrementSignIn(ctx, email, ip); incErr != nil && !errors.Is(incErr, rate.ErrRateLimited) {
				g.logger.Warn().Err(incErr).Msg("sign-in limiter increment failed")
			}
		}
		g.recordActivity(ctx, email, ActionLogin, false)
		g.metricInc(MetricSignInFailure)

		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventSignInFailure, false, "", authErr, func() map[string]string {
			return map[string]string{"identifier": email}
		})

		var action *NotifyAction
		if authErr.Kind == KindEmailUnverified {
			action = &NotifyAction{
				Label: resendActionLabel,
				Invoke: func() {
					if resendErr := g.ResendVerification(context.Background(), email); resendErr != nil {
						g.logger.Warn().Err(resendErr).Msg("verification resend failed")
					}
				},
			}
		}
		return g.failOperation(authErr, action)
	}

	if sess == nil {
		return g.failOperation(ClassifyProviderError(ErrNoSession), nil)
	}

	if g.limiter != nil {
		if resetErr := g.limiter.ResetSignIn(ctx, email, ip); resetErr != nil {
			g.logger.Warn().Err(resetErr).Msg("sign-in limiter reset failed")
		}
	}

	g.adoptSession(sess)
	g.recordActivity(ctx, email, ActionLogin, true)
	g.metricInc(MetricSignInSuccess)
	g.emitAudit(ctx, auditEventSignInSuccess, true, sess.User.ID, nil, func() map[string]string {
		return map[string]string{"identifier": email}
	})
	g.notifySuccess(NotifySignedIn)

	return nil
}

// SignUp registers a new account. The email must pass the full policy
// (not just the format check) and the password must score as strong
// without critical issues.
func (g *Guardian) SignUp(ctx context.Context, params SignUpParams) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	params.Email = g.sanitizeInput(params.Email)
	params.FullName = g.sanitizeInput(params.FullName)

	if check := g.config.Email.Evaluate(params.Email); !check.Valid || !check.Secure {
		g.metricInc(MetricEmailRejected)
		message := IssueEmailInvalidFormat
		if len(check.Issues) > 0 {
			message = check.Issues[0]
		}
		return g.failOperation(newAuthError(KindValidation, message, ErrEmailPolicy), nil)
	}

	strength := g.config.Password.Evaluate(params.Password)
	if !strength.Strong {
		g.metricInc(MetricPasswordRejected)
		message := NotifyWeakPassword
		if len(strength.CriticalIssues) > 0 {
			message = strength.CriticalIssues[0]
		}
		return g.failOperation(newAuthError(KindValidation, message, ErrPasswordPolicy), nil)
	}

	sess, err := g.provider.SignUp(ctx, params)
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventSignUp, false, "", authErr, func() map[string]string {
			return map[string]string{"identifier": params.Email}
		})
		return g.failOperation(authErr, nil)
	}

	g.metricInc(MetricSignUp)
	userID := ""
	if sess != nil {
		g.adoptSession(sess)
		userID = sess.User.ID
	} else {
		// Email confirmation pending: no session until the user verifies.
		g.setLoading(false)
	}
	g.emitAudit(ctx, auditEventSignUp, true, userID, nil, func() map[string]string {
		return map[string]string{"identifier": params.Email}
	})
	g.notifySuccess(NotifySignUp)

	return nil
}

// SignInWithProvider starts an OAuth flow and navigates to the
// provider's authorization URL.
func (g *Guardian) SignInWithProvider(ctx context.Context, providerName, redirectTo string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	authURL, err := g.provider.SignInWithOAuth(ctx, OAuthParams{Provider: providerName, RedirectTo: redirectTo})
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventOAuthRedirect, false, "", authErr, func() map[string]string {
			return map[string]string{"provider": providerName}
		})
		return g.failOperation(authErr, nil)
	}

	g.emitAudit(ctx, auditEventOAuthRedirect, true, "", nil, func() map[string]string {
		return map[string]string{"provider": providerName}
	})
	g.setLoading(false)
	g.navigate(authURL)

	return nil
}

// SignOut ends the provider session and clears local state. Local
// state clears even when the provider call fails, so a broken backend
// cannot pin a user into a session.
func (g *Guardian) SignOut(ctx context.Context) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}

	g.mu.Lock()
	g.loggingOut = true
	userID := ""
	if g.state.User != nil {
		userID = g.state.User.ID
	}
	g.mu.Unlock()

	err := g.provider.SignOut(ctx)
	g.clearSession()
	g.metricInc(MetricSignOut)
	g.emitAudit(ctx, auditEventSignOut, err == nil, userID, err, nil)
	g.navigate(g.localePath(ctx, "/"))

	if err != nil {
		g.logger.Warn().Err(err).Msg("provider sign-out failed")
		return ClassifyProviderError(err)
	}

	g.notifySuccess(NotifySignedOut)
	return nil
}

// ResetPassword requests a password reset email pointing back at the
// locale-prefixed reset page.
func (g *Guardian) ResetPassword(ctx context.Context, email string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	email = g.sanitizeInput(email)
	if check := g.config.Email.Evaluate(email); !check.Valid {
		g.metricInc(MetricEmailRejected)
		return g.failOperation(newAuthError(KindValidation, IssueEmailInvalidFormat, ErrEmailPolicy), nil)
	}

	redirect := g.localePath(ctx, g.config.Guardian.ResetPasswordPath)
	if err := g.provider.ResetPasswordForEmail(ctx, email, redirect); err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventPasswordReset, false, "", authErr, func() map[string]string {
			return map[string]string{"identifier": email}
		})
		return g.failOperation(authErr, nil)
	}

	g.emitAudit(ctx, auditEventPasswordReset, true, "", nil, func() map[string]string {
		return map[string]string{"identifier": email}
	})
	g.setLoading(false)
	g.notifySuccess(NotifyResetSent)

	return nil
}

// UpdatePassword sets a new password for the signed-in user. The new
// password must score as strong. Completing an update while a recovery
// flow is active ends the flow and lands on the dashboard.
func (g *Guardian) UpdatePassword(ctx context.Context, newPassword string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	strength := g.config.Password.Evaluate(newPassword)
	if !strength.Strong {
		g.metricInc(MetricPasswordRejected)
		message := NotifyWeakPassword
		if len(strength.CriticalIssues) > 0 {
			message = strength.CriticalIssues[0]
		}
		return g.failOperation(newAuthError(KindValidation, message, ErrPasswordPolicy), nil)
	}

	user, err := g.provider.UpdateUser(ctx, UserAttributes{Password: newPassword})
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventPasswordUpdate, false, g.currentUserID(), authErr, nil)
		return g.failOperation(authErr, nil)
	}

	g.mu.Lock()
	wasRecovery := g.recoveryFlow
	g.recoveryFlow = false
	if user != nil {
		g.state.User = user
	}
	g.state.Err = nil
	g.state.Loading = false
	g.mu.Unlock()

	g.recordActivity(ctx, g.currentActivityKey(), actionPasswordUpdate, true)
	g.metricInc(MetricPasswordUpdate)
	g.emitAudit(ctx, auditEventPasswordUpdate, true, g.currentUserID(), nil, nil)
	g.notifySuccess(NotifyPasswordUpdated)

	if wasRecovery {
		g.navigate(g.localePath(ctx, g.config.Guardian.DashboardPath))
	}

	return nil
}

// UpdateEmail changes the account email. The new address must pass the
// full email policy; the provider sends a confirmation to it.
func (g *Guardian) UpdateEmail(ctx context.Context, newEmail string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	newEmail = g.sanitizeInput(newEmail)
	if check := g.config.Email.Evaluate(newEmail); !check.Valid || !check.Secure {
		g.metricInc(MetricEmailRejected)
		message := IssueEmailInvalidFormat
		if len(check.Issues) > 0 {
			message = check.Issues[0]
		}
		return g.failOperation(newAuthError(KindValidation, message, ErrEmailPolicy), nil)
	}

	user, err := g.provider.UpdateUser(ctx, UserAttributes{Email: newEmail})
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventEmailUpdate, false, g.currentUserID(), authErr, nil)
		return g.failOperation(authErr, nil)
	}

	g.mu.Lock()
	if user != nil {
		g.state.User = user
	}
	g.state.Err = nil
	g.state.Loading = false
	g.mu.Unlock()

	g.emitAudit(ctx, auditEventEmailUpdate, true, g.currentUserID(), nil, nil)
	g.notifySuccess(NotifyEmailUpdated)

	return nil
}

// UpdateProfile applies a partial profile update. Free-text fields are
// sanitized before they reach the provider.
func (g *Guardian) UpdateProfile(ctx context.Context, attrs UserAttributes) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}
	g.setLoading(true)

	attrs.FullName = g.sanitizeInput(attrs.FullName)
	// Email and password changes go through their dedicated operations.
	attrs.Email = ""
	attrs.Password = ""

	user, err := g.provider.UpdateUser(ctx, attrs)
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventProfileUpdate, false, g.currentUserID(), authErr, nil)
		return g.failOperation(authErr, nil)
	}

	g.mu.Lock()
	if user != nil {
		g.state.User = user
	}
	g.state.Err = nil
	g.state.Loading = false
	g.mu.Unlock()

	g.emitAudit(ctx, auditEventProfileUpdate, true, g.currentUserID(), nil, nil)
	g.notifySuccess(NotifyProfileUpdated)

	return nil
}

// RefreshSession refreshes the provider session with exponential
// backoff. Failures are logged and returned but never surfaced through
// the notifier.
func (g *Guardian) RefreshSession(ctx context.Context) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}

	sess, err := g.refreshWithRetry(ctx)
	if err != nil {
		g.metricInc(MetricRefreshFailure)
		g.emitAudit(ctx, auditEventRefreshFailure, false, g.currentUserID(), ErrRefreshFailed, nil)
		g.logger.Warn().Err(err).Msg("session refresh failed")
		g.setErr(fmt.Errorf("%w: %v", ErrRefreshFailed, err))
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	g.adoptSession(sess)
	g.recordActivity(ctx, g.currentActivityKey(), actionRefresh, true)
	g.metricInc(MetricRefreshSuccess)
	g.emitAudit(ctx, auditEventRefreshSuccess, true, g.currentUserID(), nil, nil)

	return nil
}

// ResendVerification re-sends the account confirmation email. When a
// resend hook is configured it replaces the provider call.
func (g *Guardian) ResendVerification(ctx context.Context, email string) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}

	email = g.sanitizeInput(email)

	var err error
	if g.onResend != nil {
		err = g.onResend(ctx, email)
	} else {
		err = g.provider.ResendVerification(ctx, email)
	}
	if err != nil {
		authErr := ClassifyProviderError(err)
		g.emitAudit(ctx, auditEventResendRequested, false, "", authErr, func() map[string]string {
			return map[string]string{"identifier": email}
		})
		return authErr
	}

	g.metricInc(MetricResendVerification)
	g.emitAudit(ctx, auditEventResendRequested, true, "", nil, func() map[string]string {
		return map[string]string{"identifier": email}
	})
	g.notifySuccess(NotifyResendSent)

	return nil
}

// ValidateSlug evaluates a workspace slug with the configured policy.
func (g *Guardian) ValidateSlug(slug string) SlugValidation {
	result := g.config.Slug.Evaluate(slug)
	if !result.Valid {
		g.metricInc(MetricSlugRejected)
	}
	return result
}

func (g *Guardian) refreshWithRetry(ctx context.Context) (*session.Session, error) {
	operation := func() (*session.Session, error) {
		sess, err := g.provider.RefreshSession(ctx)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, backoff.Permanent(ErrNoSession)
		}
		return sess, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(g.config.Guardian.RefreshMaxRetries),
	)
}

func (g *Guardian) sanitizeInput(input string) string {
	out := g.config.Sanitize.Sanitize(input)
	if out != input {
		g.metricInc(MetricSanitizerHit)
	}
	return out
}

// failOperation records the failure on state, notifies, and returns it.
func (g *Guardian) failOperation(err *AuthError, action *NotifyAction) error {
	g.setErr(err)
	g.notifyError(err.Message, action)
	return err
}

func (g *Guardian) currentUserID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.User == nil {
		return ""
	}
	return g.state.User.ID
}

// currentActivityKey returns the identifier used for activity log
// entries: the signed-in user's email, matching the key used for
// pre-auth sign-in failures.
func (g *Guardian) currentActivityKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.User == nil {
		return ""
	}
	return g.state.User.Email
}
