package authguard

import "time"

// Messages emitted by [ActivityPolicy.Detect].
const (
	MessageFailedAttempts = "Multiple failed attempts detected"
	MessageHighActivity   = "Unusually high activity detected"
)

// ActionLogin is the action name counted by the failed-attempt check.
const ActionLogin = "login"

// ActivityPolicy holds the suspicious-activity detection windows.
//
// The burst window is a fixed constant rather than a value derived from
// the entries themselves; five minutes at fifteen actions matches the
// calibration data the thresholds were tuned against.
//
// ActivityPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ActivityPolicy struct {
	FailedLoginWindow    time.Duration
	FailedLoginThreshold int
	BurstWindow          time.Duration
	BurstThreshold       int
}

// DefaultActivityPolicy returns the windows used by [DetectSuspiciousActivity].
func DefaultActivityPolicy() ActivityPolicy {
	return ActivityPolicy{
		FailedLoginWindow:    15 * time.Minute,
		FailedLoginThreshold: 5,
		BurstWindow:          5 * time.Minute,
		BurstThreshold:       15,
	}
}

// Detect scans a rolling action log for failed-attempt bursts and
// abnormal request rates. Normal or empty input yields no events.
// A failure count at twice the threshold escalates to critical, which
// the Guardian answers with a forced sign-out.
func (p ActivityPolicy) Detect(entries []ActionEntry, now time.Time) []SecurityEvent {
	if len(entries) == 0 {
		return nil
	}
	if now.IsZero() {
		now = time.Now()
	}

	var events []SecurityEvent

	failedCutoff := now.Add(-p.FailedLoginWindow)
	failures := 0
	for _, entry := range entries {
		if entry.Action == ActionLogin && !entry.Success && entry.Timestamp.After(failedCutoff) {
			failures++
		}
	}
	if p.FailedLoginThreshold > 0 && failures >= p.FailedLoginThreshold {
		severity := SeverityHigh
		if failures >= 2*p.FailedLoginThreshold {
			severity = SeverityCritical
		}
		event := newSecurityEvent(EventSuspiciousActivity, severity, MessageFailedAttempts, now)
		event.Metadata = map[string]any{"failure_count": failures}
		events = append(events, event)
	}

	burstCutoff := now.Add(-p.BurstWindow)
	recent := 0
	for _, entry := range entries {
		if entry.Timestamp.After(burstCutoff) {
			recent++
		}
	}
	if p.BurstThreshold > 0 && recent >= p.BurstThreshold {
		event := newSecurityEvent(EventSuspiciousActivity, SeverityMedium, MessageHighActivity, now)
		event.Metadata = map[string]any{"action_count": recent}
		events = append(events, event)
	}

	return events
}

// DetectSuspiciousActivity scans entries with [DefaultActivityPolicy].
func DetectSuspiciousActivity(entries []ActionEntry, now time.Time) []SecurityEvent {
	return DefaultActivityPolicy().Detect(entries, now)
}
