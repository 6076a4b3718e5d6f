package authguard

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the guardian.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailUnverified is an exported constant or variable used by the guardian.
	ErrEmailUnverified = errors.New("email not verified")
	// ErrEmailPolicy is an exported constant or variable used by the guardian.
	ErrEmailPolicy = errors.New("email policy violation")
	// ErrPasswordPolicy is an exported constant or variable used by the guardian.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrSlugPolicy is an exported constant or variable used by the guardian.
	ErrSlugPolicy = errors.New("slug policy violation")
	// ErrSignInRateLimited is an exported constant or variable used by the guardian.
	ErrSignInRateLimited = errors.New("sign in rate limited")
	// ErrProviderUnavailable is an exported constant or variable used by the guardian.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	// ErrNoSession is an exported constant or variable used by the guardian.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired is an exported constant or variable used by the guardian.
	ErrSessionExpired = errors.New("session expired")
	// ErrRefreshFailed is an exported constant or variable used by the guardian.
	ErrRefreshFailed = errors.New("session refresh failed")
	// ErrGuardianNotReady is an exported constant or variable used by the guardian.
	ErrGuardianNotReady = errors.New("guardian not initialized")
	// ErrGuardianStopped is an exported constant or variable used by the guardian.
	ErrGuardianStopped = errors.New("guardian stopped")
	// ErrAlreadyStarted is an exported constant or variable used by the guardian.
	ErrAlreadyStarted = errors.New("guardian already started")
)

// AuthErrorKind defines a public type used by authguard APIs.
//
// AuthErrorKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthErrorKind int

const (
	// KindUnknown is an exported constant or variable used by the guardian.
	KindUnknown AuthErrorKind = iota
	// KindInvalidCredentials is an exported constant or variable used by the guardian.
	KindInvalidCredentials
	// KindEmailUnverified is an exported constant or variable used by the guardian.
	KindEmailUnverified
	// KindValidation is an exported constant or variable used by the guardian.
	KindValidation
	// KindRateLimited is an exported constant or variable used by the guardian.
	KindRateLimited
	// KindProviderUnavailable is an exported constant or variable used by the guardian.
	KindProviderUnavailable
	// KindSessionExpired is an exported constant or variable used by the guardian.
	KindSessionExpired
)

// AuthError is the typed rendering of a provider or validation failure.
// Kind carries the stable classification, Message the user-facing text.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	wrapped error
}

func (e *AuthError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.wrapped != nil {
		return e.wrapped.Error()
	}
	return "authentication error"
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.wrapped
}

func newAuthError(kind AuthErrorKind, message string, wrapped error) *AuthError {
	return &AuthError{
		Kind:    kind,
		Message: message,
		wrapped: wrapped,
	}
}

// ClassifyProviderError maps an identity provider failure onto the
// sentinel taxonomy. Unknown failures classify as KindUnknown and keep
// the original error reachable through Unwrap.
func ClassifyProviderError(err error) *AuthError {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return newAuthError(KindInvalidCredentials, "Invalid login credentials", err)
	case errors.Is(err, ErrEmailUnverified):
		return newAuthError(KindEmailUnverified, "Email not confirmed", err)
	case errors.Is(err, ErrEmailPolicy), errors.Is(err, ErrPasswordPolicy), errors.Is(err, ErrSlugPolicy):
		return newAuthError(KindValidation, err.Error(), err)
	case errors.Is(err, ErrSignInRateLimited):
		return newAuthError(KindRateLimited, "Too many attempts, try again later", err)
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNoSession):
		return newAuthError(KindSessionExpired, "Session expired", err)
	case errors.Is(err, ErrProviderUnavailable):
		return newAuthError(KindProviderUnavailable, "Authentication service unavailable", err)
	default:
		return newAuthError(KindUnknown, err.Error(), err)
	}
}
