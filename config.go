package authguard

import (
	"errors"
	"strings"
	"time"

	"github.com/fsdiasv/authguard/password"
)

// Config defines a public type used by authguard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Guardian    GuardianConfig
	Session     SessionPolicy
	Activity    ActivityPolicy
	Password    password.Policy
	Email       EmailPolicy
	Slug        SlugPolicy
	Sanitize    SanitizePolicy
	ActivityLog ActivityLogConfig
	Throttle    ThrottleConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
GUARDIAN CONFIG
====================================
*/

// GuardianConfig defines a public type used by authguard APIs.
//
// GuardianConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardianConfig struct {
	CheckInterval          time.Duration
	DefaultLocale          string
	DashboardPath          string
	ResetPasswordPath      string
	AuthPathPrefix         string
	AutoRefresh            bool
	RefreshMaxRetries      uint
	ForceSignOutOnCritical bool
}

/*
====================================
ACTIVITY LOG CONFIG
====================================
*/

// ActivityLogConfig defines a public type used by authguard APIs.
//
// ActivityLogConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ActivityLogConfig struct {
	RedisPrefix string
	Retention   time.Duration
	MaxEntries  int
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig defines a public type used by authguard APIs.
//
// ThrottleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ThrottleConfig struct {
	Enabled           bool
	EnableIPThrottle  bool
	MaxSignInAttempts int
	CooldownDuration  time.Duration
}

// AuditConfig defines a public type used by authguard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by authguard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Policies carry
// the documented thresholds; audit and metrics start disabled.
func DefaultConfig() Config {
	return Config{
		Guardian: GuardianConfig{
			CheckInterval:          5 * time.Minute,
			DefaultLocale:          "en",
			DashboardPath:          "/dashboard",
			ResetPasswordPath:      "/auth/reset-password",
			AuthPathPrefix:         "/auth/",
			AutoRefresh:            true,
			RefreshMaxRetries:      3,
			ForceSignOutOnCritical: true,
		},
		Session:  DefaultSessionPolicy(),
		Activity: DefaultActivityPolicy(),
		Password: password.Default(),
		Email:    DefaultEmailPolicy(),
		Slug:     DefaultSlugPolicy(),
		Sanitize: DefaultSanitizePolicy(),
		ActivityLog: ActivityLogConfig{
			RedisPrefix: "aact",
			Retention:   time.Hour,
			MaxEntries:  256,
		},
		Throttle: ThrottleConfig{
			Enabled:           true,
			EnableIPThrottle:  false,
			MaxSignInAttempts: 5,
			CooldownDuration:  15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Password.Denylist = cloneStrings(cfg.Password.Denylist)
	out.Email.DisposableDomains = cloneStrings(cfg.Email.DisposableDomains)
	out.Slug.ReservedWords = cloneStrings(cfg.Slug.ReservedWords)
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Guardian
	if c.Guardian.CheckInterval <= 0 {
		return errors.New("Guardian CheckInterval must be > 0")
	}
	if c.Guardian.DefaultLocale == "" {
		return errors.New("Guardian DefaultLocale must be set")
	}
	if !strings.HasPrefix(c.Guardian.DashboardPath, "/") {
		return errors.New("Guardian DashboardPath must start with '/'")
	}
	if !strings.HasPrefix(c.Guardian.ResetPasswordPath, "/") {
		return errors.New("Guardian ResetPasswordPath must start with '/'")
	}
	if !strings.HasPrefix(c.Guardian.AuthPathPrefix, "/") {
		return errors.New("Guardian AuthPathPrefix must start with '/'")
	}

	// Session
	if c.Session.AssumedLifetime <= 0 {
		return errors.New("Session AssumedLifetime must be > 0")
	}
	if c.Session.MaxSessionAge <= 0 {
		return errors.New("Session MaxSessionAge must be > 0")
	}
	if c.Session.ExpiryCritical <= 0 || c.Session.ExpiryWarning <= 0 {
		return errors.New("Session expiry thresholds must be > 0")
	}
	if c.Session.ExpiryCritical >= c.Session.ExpiryWarning {
		return errors.New("Session ExpiryCritical must be < ExpiryWarning")
	}
	if c.Session.MaxInactivity <= 0 {
		return errors.New("Session MaxInactivity must be > 0")
	}
	if c.Session.MaxUserAgentLength <= 0 {
		return errors.New("Session MaxUserAgentLength must be > 0")
	}

	// Activity detection
	if c.Activity.FailedLoginWindow <= 0 || c.Activity.BurstWindow <= 0 {
		return errors.New("Activity windows must be > 0")
	}
	if c.Activity.FailedLoginThreshold <= 0 || c.Activity.BurstThreshold <= 0 {
		return errors.New("Activity thresholds must be > 0")
	}

	// Password
	if c.Password.MinLength <= 0 {
		return errors.New("Password MinLength must be > 0")
	}
	if c.Password.BonusLength < c.Password.MinLength {
		return errors.New("Password BonusLength must be >= MinLength")
	}
	if c.Password.LongLength < c.Password.BonusLength {
		return errors.New("Password LongLength must be >= BonusLength")
	}

	// Email
	if c.Email.MaxLength <= 0 {
		return errors.New("Email MaxLength must be > 0")
	}

	// Sanitizer
	if c.Sanitize.MaxLength <= 0 {
		return errors.New("Sanitize MaxLength must be > 0")
	}

	// Activity log
	if c.ActivityLog.RedisPrefix == "" {
		return errors.New("ActivityLog RedisPrefix must be set")
	}
	if c.ActivityLog.Retention <= 0 {
		return errors.New("ActivityLog Retention must be > 0")
	}
	if c.ActivityLog.MaxEntries <= 0 {
		return errors.New("ActivityLog MaxEntries must be > 0")
	}

	// Throttle
	if c.Throttle.Enabled {
		if c.Throttle.MaxSignInAttempts <= 0 {
			return errors.New("Throttle MaxSignInAttempts must be > 0")
		}
		if c.Throttle.CooldownDuration <= 0 {
			return errors.New("Throttle CooldownDuration must be > 0")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}
