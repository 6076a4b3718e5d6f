package authguard

import (
	"net/netip"
	"time"

	"github.com/fsdiasv/authguard/session"
)

// Messages and recommended actions emitted by [SessionPolicy.Evaluate].
const (
	MessageNoSession       = "No valid session found"
	MessageSessionVeryOld  = "Session is very old"
	MessageSessionExpiring = "Session will expire soon"
	MessageSessionAging    = "Session approaching expiry"
	MessageLongInactivity  = "Long period of inactivity detected"
	MessageUnusualAgent    = "Unusual user agent detected"
	MessageInvalidIP       = "Invalid IP address format detected"

	ActionSignInAgain    = "Please sign in again"
	ActionRefreshNow     = "Session refresh required"
	ActionRefreshSoon    = "Consider refreshing session soon"
	ActionRefreshSession = "Consider refreshing your session"
	ActionVerifyActivity = "Verify recent account activity"
)

// SessionPolicy holds the thresholds for session risk classification.
//
// SessionPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionPolicy struct {
	// AssumedLifetime estimates issue time when the access token carries
	// no iat claim and the provider did not report expires_in.
	AssumedLifetime time.Duration

	MaxSessionAge      time.Duration
	ExpiryCritical     time.Duration
	ExpiryWarning      time.Duration
	MaxInactivity      time.Duration
	MaxUserAgentLength int
}

// DefaultSessionPolicy returns the thresholds used by [ValidateSessionSecurity].
func DefaultSessionPolicy() SessionPolicy {
	return SessionPolicy{
		AssumedLifetime:    time.Hour,
		MaxSessionAge:      24 * time.Hour,
		ExpiryCritical:     5 * time.Minute,
		ExpiryWarning:      30 * time.Minute,
		MaxInactivity:      2 * time.Hour,
		MaxUserAgentLength: 500,
	}
}

// CheckInput carries the optional observation context for one
// evaluation. Zero fields skip their checks. Now defaults to the wall
// clock; tests inject it.
type CheckInput struct {
	LastActivity time.Time
	UserAgent    string
	IP           string
	Now          time.Time
}

// Evaluate classifies the risk of sess under the policy. A nil session
// short-circuits with a single medium session_expired event. Risk is
// monotonic in session age and inactivity: older or more idle sessions
// never report lower risk under the same policy.
func (p SessionPolicy) Evaluate(sess *session.Session, in CheckInput) SecurityCheck {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	check := SecurityCheck{}

	if sess == nil {
		event := newSecurityEvent(EventSessionExpired, SeverityMedium, MessageNoSession, now)
		check.Events = append(check.Events, event)
		check.RecommendedActions = append(check.RecommendedActions, ActionSignInAgain)
		check.Risk = SeverityMedium
		return check
	}

	age := sess.Age(now, p.AssumedLifetime)
	timeToExpiry := sess.TimeToExpiry(now)

	if age > p.MaxSessionAge {
		event := newSecurityEvent(EventSessionExpired, SeverityHigh, MessageSessionVeryOld, now)
		event.Metadata = map[string]any{"session_age": age.String()}
		check.Events = append(check.Events, event)
		check.RecommendedActions = append(check.RecommendedActions, ActionRefreshSession)
	}

	switch {
	case timeToExpiry < p.ExpiryCritical:
		event := newSecurityEvent(EventSessionExpired, SeverityHigh, MessageSessionExpiring, now)
		event.Metadata = map[string]any{"time_to_expiry": timeToExpiry.String()}
		check.Events = append(check.Events, event)
		check.RecommendedActions = append(check.RecommendedActions, ActionRefreshNow)
	case timeToExpiry < p.ExpiryWarning:
		event := newSecurityEvent(EventSessionExpired, SeverityMedium, MessageSessionAging, now)
		event.Metadata = map[string]any{"time_to_expiry": timeToExpiry.String()}
		check.Events = append(check.Events, event)
		check.RecommendedActions = append(check.RecommendedActions, ActionRefreshSoon)
	}

	if !in.LastActivity.IsZero() {
		if inactivity := now.Sub(in.LastActivity); inactivity > p.MaxInactivity {
			event := newSecurityEvent(EventSuspiciousActivity, SeverityMedium, MessageLongInactivity, now)
			event.Metadata = map[string]any{"inactivity": inactivity.String()}
			check.Events = append(check.Events, event)
			check.RecommendedActions = append(check.RecommendedActions, ActionVerifyActivity)
		}
	}

	if in.UserAgent != "" && len(in.UserAgent) > p.MaxUserAgentLength {
		event := newSecurityEvent(EventSuspiciousActivity, SeverityLow, MessageUnusualAgent, now)
		event.Metadata = map[string]any{"user_agent_length": len(in.UserAgent)}
		check.Events = append(check.Events, event)
	}

	if in.IP != "" {
		if _, err := netip.ParseAddr(in.IP); err != nil {
			event := newSecurityEvent(EventSuspiciousActivity, SeverityMedium, MessageInvalidIP, now)
			event.Metadata = map[string]any{"ip": in.IP}
			check.Events = append(check.Events, event)
		}
	}

	check.Secure = len(check.Events) == 0
	check.Risk = maxSeverity(check.Events)
	return check
}

func maxSeverity(events []SecurityEvent) Severity {
	risk := SeverityLow
	for _, event := range events {
		if event.Severity > risk {
			risk = event.Severity
		}
	}
	return risk
}

// ValidateSessionSecurity evaluates sess with [DefaultSessionPolicy].
func ValidateSessionSecurity(sess *session.Session, in CheckInput) SecurityCheck {
	return DefaultSessionPolicy().Evaluate(sess, in)
}
