package session

import "time"

// User is the provider-owned account record carried inside a [Session].
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID               string
	Email            string
	EmailConfirmedAt *time.Time
	FullName         string
	Locale           string
	Metadata         map[string]string
}

// Session is the identity provider's proof-of-authentication record.
// ExpiresAt is epoch seconds; ExpiresIn, when set, is the lifetime the
// provider granted at issuance and is preferred over any assumed
// lifetime when computing session age.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    int64
	ExpiresIn    int64
	User         User
}

// Expiry returns ExpiresAt as a time.Time.
func (s *Session) Expiry() time.Time {
	if s == nil {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// TimeToExpiry returns the remaining lifetime relative to now.
// Negative values mean the session is already expired.
func (s *Session) TimeToExpiry(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return s.Expiry().Sub(now)
}

// IssuedAt derives the session issue time. It prefers the access
// token's iat claim, falls back to ExpiresAt minus ExpiresIn, and
// finally to ExpiresAt minus assumedLifetime.
func (s *Session) IssuedAt(assumedLifetime time.Duration) time.Time {
	if s == nil {
		return time.Time{}
	}
	if iat, err := TokenIssuedAt(s.AccessToken); err == nil {
		return iat
	}
	if s.ExpiresIn > 0 {
		return time.Unix(s.ExpiresAt-s.ExpiresIn, 0)
	}
	return s.Expiry().Add(-assumedLifetime)
}

// Age returns how long ago the session was issued. See [Session.IssuedAt].
func (s *Session) Age(now time.Time, assumedLifetime time.Duration) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.IssuedAt(assumedLifetime))
}
