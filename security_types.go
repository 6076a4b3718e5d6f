package authguard

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEventType classifies a detected risk condition.
type SecurityEventType string

const (
	// EventSessionExpired covers absent, aging, and near-expiry sessions.
	EventSessionExpired SecurityEventType = "session_expired"
	// EventSuspiciousActivity covers behavioral anomalies: failed-attempt
	// bursts, abnormal request rates, inactivity, odd client signatures.
	EventSuspiciousActivity SecurityEventType = "suspicious_activity"
)

// Severity orders security events from low to critical. The zero value
// is SeverityLow.
type Severity uint8

const (
	// SeverityLow is an advisory finding.
	SeverityLow Severity = iota
	// SeverityMedium should be surfaced to the user.
	SeverityMedium
	// SeverityHigh requires remediation such as a session refresh.
	SeverityHigh
	// SeverityCritical forces sign-out.
	SeverityCritical
)

// String describes the severity for logs and audit records.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SecurityEvent is one detected risk condition. Events are data, not
// errors: the Guardian reacts to them with explicit remediation paths.
type SecurityEvent struct {
	ID        string
	Type      SecurityEventType
	Severity  Severity
	Message   string
	Timestamp time.Time
	Metadata  map[string]any
}

func newSecurityEvent(eventType SecurityEventType, severity Severity, message string, at time.Time) SecurityEvent {
	return SecurityEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Severity:  severity,
		Message:   message,
		Timestamp: at,
	}
}

// SecurityCheck is the outcome of one session security evaluation.
// Secure is true only when no event fired at all, regardless of
// severity. Risk is the maximum severity across events, SeverityLow
// when none fired.
type SecurityCheck struct {
	Secure             bool
	Risk               Severity
	Events             []SecurityEvent
	RecommendedActions []string
}

// ActionEntry is one caller-supplied entry in the rolling action log
// consumed by the suspicious-activity detector. The caller owns
// retention depth.
type ActionEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}
