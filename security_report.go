package authguard

import "time"

// SecurityReport is a read-only snapshot of the guardian’s security
// posture, returned by [Guardian.SecurityReport].
type SecurityReport struct {
	CheckInterval        time.Duration
	AutoRefreshEnabled   bool
	ForceSignOutActive   bool
	MaxSessionAge        time.Duration
	ExpiryWarning        time.Duration
	ExpiryCritical       time.Duration
	MaxInactivity        time.Duration
	PasswordPolicy       PasswordPolicyReport
	FailedLoginThreshold int
	BurstThreshold       int
	ThrottleActive       bool
	IPThrottleActive     bool
	ActivityLogActive    bool
	AuditActive          bool
	MetricsActive        bool
}

// PasswordPolicyReport mirrors the active password scoring thresholds.
type PasswordPolicyReport struct {
	MinLength   int
	BonusLength int
	LongLength  int
	StrongScore int
}

// SecurityReport describes the securityreport operation and its observable behavior.
//
// SecurityReport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guardian) SecurityReport() SecurityReport {
	if g == nil {
		return SecurityReport{}
	}

	throttle := g.limiter != nil &&
		g.config.Throttle.MaxSignInAttempts > 0 &&
		g.config.Throttle.CooldownDuration > 0

	return SecurityReport{
		CheckInterval:      g.config.Guardian.CheckInterval,
		AutoRefreshEnabled: g.config.Guardian.AutoRefresh,
		ForceSignOutActive: g.config.Guardian.ForceSignOutOnCritical,
		MaxSessionAge:      g.config.Session.MaxSessionAge,
		ExpiryWarning:      g.config.Session.ExpiryWarning,
		ExpiryCritical:     g.config.Session.ExpiryCritical,
		MaxInactivity:      g.config.Session.MaxInactivity,
		PasswordPolicy: PasswordPolicyReport{
			MinLength:   g.config.Password.MinLength,
			BonusLength: g.config.Password.BonusLength,
			LongLength:  g.config.Password.LongLength,
			StrongScore: g.config.Password.StrongScore,
		},
		FailedLoginThreshold: g.config.Activity.FailedLoginThreshold,
		BurstThreshold:       g.config.Activity.BurstThreshold,
		ThrottleActive:       throttle,
		IPThrottleActive:     throttle && g.config.Throttle.EnableIPThrottle,
		ActivityLogActive:    g.activity != nil,
		AuditActive:          g.audit != nil,
		MetricsActive:        g.metrics.Enabled(),
	}
}
