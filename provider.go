package authguard

import (
	"context"
	"net/url"

	"github.com/fsdiasv/authguard/session"
)

// AuthChangeEvent defines a public type used by authguard APIs.
//
// AuthChangeEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthChangeEvent string

const (
	// AuthSignedIn is an exported constant or variable used by the guardian.
	AuthSignedIn AuthChangeEvent = "SIGNED_IN"
	// AuthSignedOut is an exported constant or variable used by the guardian.
	AuthSignedOut AuthChangeEvent = "SIGNED_OUT"
	// AuthPasswordRecovery is an exported constant or variable used by the guardian.
	AuthPasswordRecovery AuthChangeEvent = "PASSWORD_RECOVERY"
	// AuthUserUpdated is an exported constant or variable used by the guardian.
	AuthUserUpdated AuthChangeEvent = "USER_UPDATED"
	// AuthTokenRefreshed is an exported constant or variable used by the guardian.
	AuthTokenRefreshed AuthChangeEvent = "TOKEN_REFRESHED"
)

// Credentials carries a password sign-in request.
type Credentials struct {
	Email    string
	Password string
}

// SignUpParams carries an account creation request.
type SignUpParams struct {
	Email    string
	Password string
	FullName string
	Locale   string
}

// UserAttributes is a partial user update. Empty fields are left
// unchanged by the provider.
type UserAttributes struct {
	Email    string
	Password string
	FullName string
	Locale   string
	Metadata map[string]any
}

// OAuthParams carries a third-party provider sign-in request.
type OAuthParams struct {
	Provider   string
	RedirectTo string
}

// AuthChangeHandler receives auth state transitions from the provider.
type AuthChangeHandler func(event AuthChangeEvent, sess *session.Session)

// Subscription defines a public type used by authguard APIs.
//
// Subscription instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Subscription interface {
	Unsubscribe()
}

// IdentityProvider is the backend the Guardian drives. Implementations
// wrap a remote auth service; every call takes a context and returns a
// typed error classifiable through ClassifyProviderError.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, creds Credentials) (*session.Session, error)
	SignUp(ctx context.Context, params SignUpParams) (*session.Session, error)
	SignInWithOAuth(ctx context.Context, params OAuthParams) (string, error)
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdateUser(ctx context.Context, attrs UserAttributes) (*session.User, error)
	RefreshSession(ctx context.Context) (*session.Session, error)
	ResendVerification(ctx context.Context, email string) error
	CurrentSession(ctx context.Context) (*session.Session, error)
	OnAuthStateChange(handler AuthChangeHandler) Subscription
}

// Location is the navigator's current position.
type Location struct {
	Path  string
	Query url.Values
}

// Navigator abstracts the host application's routing. The Guardian
// pushes paths on auth transitions and inspects the current location
// to suppress redirects during recovery flows.
type Navigator interface {
	Push(path string)
	Current() Location
}

// NotifyAction is an optional follow-up attached to an error
// notification, e.g. a resend-verification button.
type NotifyAction struct {
	Label  string
	Invoke func()
}

// Notifier abstracts user-facing feedback for operation outcomes.
type Notifier interface {
	Success(message string)
	Error(message string, action *NotifyAction)
}
