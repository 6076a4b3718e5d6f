package authguard

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fsdiasv/authguard/internal/activity"
	"github.com/fsdiasv/authguard/internal/rate"
)

// Builder defines a public type used by authguard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	provider  IdentityProvider
	navigator Navigator
	notifier  Notifier
	auditSink AuditSink
	activity  activity.Log
	logger    zerolog.Logger
	onResend  func(ctx context.Context, email string) error

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithProvider describes the withprovider operation and its observable behavior.
func (b *Builder) WithProvider(p IdentityProvider) *Builder {
	b.provider = p
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithNotifier describes the withnotifier operation and its observable behavior.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithActivityLog overrides the activity log implementation. Without
// an override, Build wires a Redis log when a client is present and an
// in-memory log otherwise.
func (b *Builder) WithActivityLog(log activity.Log) *Builder {
	b.activity = log
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithResendVerificationHook replaces the provider resend call used by
// the unverified-email notification action.
func (b *Builder) WithResendVerificationHook(hook func(ctx context.Context, email string) error) *Builder {
	b.onResend = hook
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Guardian, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.provider == nil {
		return nil, errors.New("identity provider required")
	}

	if cfg.Throttle.Enabled && b.redis == nil {
		return nil, errors.New("Throttle requires redis client")
	}

	guardian := &Guardian{
		config:    cfg,
		provider:  b.provider,
		navigator: b.navigator,
		notifier:  b.notifier,
		logger:    b.logger,
		onResend:  b.onResend,
	}

	if cfg.Throttle.Enabled {
		guardian.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle:  cfg.Throttle.EnableIPThrottle,
			MaxSignInAttempts: cfg.Throttle.MaxSignInAttempts,
			CooldownDuration:  cfg.Throttle.CooldownDuration,
		})
	}

	switch {
	case b.activity != nil:
		guardian.activity = b.activity
	case b.redis != nil:
		guardian.activity = activity.NewRedisLog(
			b.redis,
			cfg.ActivityLog.RedisPrefix,
			cfg.ActivityLog.Retention,
			int64(cfg.ActivityLog.MaxEntries),
		)
	default:
		guardian.activity = activity.NewMemoryLog(cfg.ActivityLog.Retention, cfg.ActivityLog.MaxEntries)
	}

	guardian.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	guardian.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return guardian, nil
}
