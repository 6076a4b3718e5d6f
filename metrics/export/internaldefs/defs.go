package internaldefs

import (
	authguard "github.com/fsdiasv/authguard"
)

// CounterDef defines a public type used by authguard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authguard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authguard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authguard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the guardian.
var CounterDefs = []CounterDef{
	{ID: authguard.MetricSignInSuccess, Name: "authguard_sign_in_success_total", Help: "Successful sign-in attempts."},
	{ID: authguard.MetricSignInFailure, Name: "authguard_sign_in_failure_total", Help: "Failed sign-in attempts."},
	{ID: authguard.MetricSignInRateLimited, Name: "authguard_sign_in_rate_limited_total", Help: "Rate-limited sign-in attempts."},
	{ID: authguard.MetricSignUp, Name: "authguard_sign_up_total", Help: "Account creation attempts accepted by the provider."},
	{ID: authguard.MetricSignOut, Name: "authguard_sign_out_total", Help: "Manual sign-out operations."},
	{ID: authguard.MetricForcedSignOut, Name: "authguard_forced_sign_out_total", Help: "Sessions terminated by the security loop."},
	{ID: authguard.MetricRefreshSuccess, Name: "authguard_refresh_success_total", Help: "Successful session refreshes."},
	{ID: authguard.MetricRefreshFailure, Name: "authguard_refresh_failure_total", Help: "Failed session refreshes."},
	{ID: authguard.MetricSecurityEventLow, Name: "authguard_security_event_low_total", Help: "Low severity security events."},
	{ID: authguard.MetricSecurityEventMedium, Name: "authguard_security_event_medium_total", Help: "Medium severity security events."},
	{ID: authguard.MetricSecurityEventHigh, Name: "authguard_security_event_high_total", Help: "High severity security events."},
	{ID: authguard.MetricSecurityEventCritical, Name: "authguard_security_event_critical_total", Help: "Critical severity security events."},
	{ID: authguard.MetricSuspiciousActivity, Name: "authguard_suspicious_activity_total", Help: "Suspicious activity detections."},
	{ID: authguard.MetricPasswordRejected, Name: "authguard_password_rejected_total", Help: "Passwords rejected by the strength policy."},
	{ID: authguard.MetricEmailRejected, Name: "authguard_email_rejected_total", Help: "Emails rejected by the email security policy."},
	{ID: authguard.MetricSlugRejected, Name: "authguard_slug_rejected_total", Help: "Workspace slugs rejected by the slug policy."},
	{ID: authguard.MetricSanitizerHit, Name: "authguard_sanitizer_hit_total", Help: "Inputs altered by the sanitizer."},
	{ID: authguard.MetricPasswordUpdate, Name: "authguard_password_update_total", Help: "Successful password updates."},
	{ID: authguard.MetricResendVerification, Name: "authguard_resend_verification_total", Help: "Verification email resend requests."},
}

// HistogramDefs is an exported constant or variable used by the guardian.
var HistogramDefs = []HistogramDef{
	{ID: authguard.MetricSecurityCheckLatency, Name: "authguard_security_check_latency_seconds", Help: "Security check latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the guardian.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the guardian.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// eight-bucket layout used by every exporter.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus and OTel expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
