package authguard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fsdiasv/authguard/internal/activity"
	"github.com/fsdiasv/authguard/internal/rate"
	"github.com/fsdiasv/authguard/session"
)

// State is the Guardian's observable auth state. Loading is true from
// Start until the initial session fetch resolves, and during
// operations. Err holds the last operation failure.
type State struct {
	User    *session.User
	Session *session.Session
	Loading bool
	Err     error
}

// Guardian defines a public type used by authguard APIs.
//
// Guardian instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Guardian struct {
	config    Config
	provider  IdentityProvider
	navigator Navigator
	notifier  Notifier
	logger    zerolog.Logger
	limiter   *rate.Limiter
	activity  activity.Log
	audit     *auditDispatcher
	metrics   *Metrics
	onResend  func(ctx context.Context, email string) error

	mu           sync.Mutex
	state        State
	lastActivity time.Time
	recoveryFlow bool
	loggingOut   bool
	started      bool
	stopped      bool
	sub          Subscription
	stop         chan struct{}
	wg           sync.WaitGroup

	now func() time.Time
}

// Start subscribes to provider auth changes and launches the periodic
// security check loop. When no session is seeded, the current session
// is fetched asynchronously; State.Loading stays true until that fetch
// resolves. Start is single-use: a stopped Guardian cannot be
// restarted.
func (g *Guardian) Start(ctx context.Context) error {
	if g == nil || g.provider == nil {
		return ErrGuardianNotReady
	}

	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return ErrGuardianStopped
	}
	if g.started {
		g.mu.Unlock()
		return ErrAlreadyStarted
	}
	g.started = true
	g.state.Loading = true
	g.stop = make(chan struct{})
	seeded := g.state.Session != nil
	g.mu.Unlock()

	g.sub = g.provider.OnAuthStateChange(func(event AuthChangeEvent, sess *session.Session) {
		g.HandleAuthChange(context.Background(), event, sess)
	})

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		if !seeded {
			g.loadInitialSession(ctx)
		} else {
			g.setLoading(false)
		}

		g.securityLoop(ctx)
	}()

	g.logger.Debug().Msg("guardian started")
	return nil
}

// Stop tears down the provider subscription and the security loop,
// then drains and closes the audit dispatcher.
func (g *Guardian) Stop() {
	if g == nil {
		return
	}

	g.mu.Lock()
	if !g.started || g.stopped {
		g.stopped = true
		g.mu.Unlock()
		return
	}
	g.stopped = true
	g.mu.Unlock()

	if g.sub != nil {
		g.sub.Unsubscribe()
	}
	close(g.stop)
	g.wg.Wait()

	if g.audit != nil {
		g.audit.Close()
	}

	g.logger.Debug().Msg("guardian stopped")
}

// Touch records user interaction time for the inactivity check.
func (g *Guardian) Touch() {
	if g == nil {
		return
	}

	g.mu.Lock()
	g.lastActivity = g.clock()
	g.mu.Unlock()
}

// State returns a copy of the current auth state.
func (g *Guardian) State() State {
	if g == nil {
		return State{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the current session, nil when signed out.
func (g *Guardian) Session() *session.Session {
	return g.State().Session
}

// User returns the current user, nil when signed out.
func (g *Guardian) User() *session.User {
	return g.State().User
}

// LastActivity returns the most recent recorded interaction time.
func (g *Guardian) LastActivity() time.Time {
	if g == nil {
		return time.Time{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (g *Guardian) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (g *Guardian) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

func (g *Guardian) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

func (g *Guardian) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}

func (g *Guardian) loadInitialSession(ctx context.Context) {
	sess, err := g.provider.CurrentSession(ctx)

	g.mu.Lock()
	g.state.Loading = false
	if err != nil {
		g.state.Err = err
	} else if sess != nil {
		u := sess.User
		g.state.Session = sess
		g.state.User = &u
		g.lastActivity = g.clock()
	}
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn().Err(err).Msg("initial session fetch failed")
	}
}

func (g *Guardian) setLoading(loading bool) {
	g.mu.Lock()
	g.state.Loading = loading
	g.mu.Unlock()
}

func (g *Guardian) setErr(err error) {
	g.mu.Lock()
	g.state.Err = err
	g.state.Loading = false
	g.mu.Unlock()
}

func (g *Guardian) adoptSession(sess *session.Session) {
	g.mu.Lock()
	g.state.Session = sess
	if sess != nil {
		u := sess.User
		g.state.User = &u
	} else {
		g.state.User = nil
	}
	g.state.Err = nil
	g.state.Loading = false
	g.lastActivity = g.clock()
	g.mu.Unlock()
}

func (g *Guardian) clearSession() {
	g.mu.Lock()
	g.state.Session = nil
	g.state.User = nil
	g.state.Loading = false
	g.recoveryFlow = false
	g.mu.Unlock()
}

// localePath prefixes path with the locale resolved from ctx, the
// current user, or the configured default, in that order.
func (g *Guardian) localePath(ctx context.Context, path string) string {
	locale := localeFromContext(ctx)
	if locale == "" {
		g.mu.Lock()
		if g.state.User != nil {
			locale = g.state.User.Locale
		}
		g.mu.Unlock()
	}
	if locale == "" {
		locale = g.config.Guardian.DefaultLocale
	}

	if path == "/" || path == "" {
		return "/" + locale
	}
	return "/" + locale + path
}

func (g *Guardian) navigate(path string) {
	if g.navigator == nil || path == "" {
		return
	}
	g.navigator.Push(path)
}

func (g *Guardian) notifySuccess(message string) {
	if g.notifier == nil {
		return
	}
	g.notifier.Success(message)
}

func (g *Guardian) notifyError(message string, action *NotifyAction) {
	if g.notifier == nil {
		return
	}
	g.notifier.Error(message, action)
}

func (g *Guardian) onAuthPath(loc Location) bool {
	prefix := g.config.Guardian.AuthPathPrefix
	if prefix == "" || loc.Path == "" {
		return false
	}
	// Locale-prefixed paths like /en/auth/callback still count.
	path := loc.Path
	if idx := strings.Index(path[1:], "/"); idx >= 0 && !strings.HasPrefix(path, prefix) {
		path = path[idx+1:]
	}
	return strings.HasPrefix(path, prefix)
}
