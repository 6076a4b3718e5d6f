package authguard

import (
	"context"
	"time"
)

// MessageForcedSignOut is shown when a critical security event forces
// the session closed.
const MessageForcedSignOut = "Suspicious activity detected, you have been signed out for safety"

func (g *Guardian) securityLoop(ctx context.Context) {
	ticker := time.NewTicker(g.config.Guardian.CheckInterval)
	defer ticker.Stop()

	// One immediate pass when a session is already present, so a
	// restored session is not blind until the first tick.
	if g.Session() != nil {
		g.runSecurityCheck(ctx)
	}

	for {
		select {
		case <-g.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if g.Session() != nil {
				g.runSecurityCheck(ctx)
			}
		}
	}
}

// CheckSecurity runs one evaluation pass: the session policy over the
// current session plus the suspicious-activity detector over the
// recent activity window. The merged result keeps the flat
// Secure-means-no-events rule; Risk carries the highest severity.
func (g *Guardian) CheckSecurity(ctx context.Context) SecurityCheck {
	if g == nil {
		return SecurityCheck{Secure: true}
	}

	g.mu.Lock()
	sess := g.state.Session
	lastActivity := g.lastActivity
	key := ""
	if g.state.User != nil {
		key = g.state.User.Email
	}
	g.mu.Unlock()

	now := g.clock()
	check := g.config.Session.Evaluate(sess, CheckInput{
		LastActivity: lastActivity,
		UserAgent:    userAgentFromContext(ctx),
		IP:           clientIPFromContext(ctx),
		Now:          now,
	})

	suspicious := g.detectSuspicious(ctx, key, now)
	if len(suspicious) > 0 {
		check.Events = append(check.Events, suspicious...)
		check.Secure = false
		check.Risk = maxSeverity(check.Events)
		check.RecommendedActions = appendAction(check.RecommendedActions, ActionVerifyActivity)
	}

	return check
}

func (g *Guardian) runSecurityCheck(ctx context.Context) {
	if g.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			g.metrics.Observe(MetricSecurityCheckLatency, time.Since(start))
		}()
	}

	check := g.CheckSecurity(ctx)
	userID := g.currentUserID()

	critical := false
	for _, ev := range check.Events {
		g.metricInc(severityMetric(ev.Severity))
		if ev.Type == EventSuspiciousActivity {
			g.metricInc(MetricSuspiciousActivity)
			if ev.Severity == SeverityCritical {
				critical = true
			}
		}
		g.emitSecurityEvent(ctx, userID, ev)
	}

	if critical && g.config.Guardian.ForceSignOutOnCritical {
		g.forceSignOut(ctx)
		return
	}

	g.maybeAutoRefresh(ctx)
}

// maybeAutoRefresh refreshes the session in place when it is inside
// the expiry warning window. Failures are logged and swallowed; the
// next pass retries.
func (g *Guardian) maybeAutoRefresh(ctx context.Context) {
	if !g.config.Guardian.AutoRefresh {
		return
	}

	sess := g.Session()
	if sess == nil {
		return
	}

	ttl := sess.TimeToExpiry(g.clock())
	if ttl <= 0 || ttl > g.config.Session.ExpiryWarning {
		return
	}

	refreshed, err := g.refreshWithRetry(ctx)
	if err != nil {
		g.metricInc(MetricRefreshFailure)
		g.emitAudit(ctx, auditEventRefreshFailure, false, g.currentUserID(), ErrRefreshFailed, nil)
		g.logger.Warn().Err(err).Dur("time_to_expiry", ttl).Msg("auto refresh failed")
		return
	}

	g.adoptSession(refreshed)
	g.metricInc(MetricRefreshSuccess)
	g.emitAudit(ctx, auditEventRefreshSuccess, true, g.currentUserID(), nil, func() map[string]string {
		return map[string]string{"trigger": "auto"}
	})
}

func (g *Guardian) forceSignOut(ctx context.Context) {
	userID := g.currentUserID()

	g.mu.Lock()
	g.loggingOut = true
	g.mu.Unlock()

	if err := g.provider.SignOut(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("provider sign-out failed during forced sign-out")
	}
	g.clearSession()

	g.metricInc(MetricForcedSignOut)
	g.emitAudit(ctx, auditEventForcedSignOut, true, userID, nil, nil)
	g.notifyError(MessageForcedSignOut, nil)
	g.navigate(g.localePath(ctx, "/"))
}

func (g *Guardian) detectSuspicious(ctx context.Context, key string, now time.Time) []SecurityEvent {
	if g.activity == nil || key == "" {
		return nil
	}

	window := g.config.Activity.FailedLoginWindow
	if g.config.Activity.BurstWindow > window {
		window = g.config.Activity.BurstWindow
	}

	entries, err := g.activity.Recent(ctx, key, window)
	if err != nil {
		g.logger.Warn().Err(err).Msg("activity lookup failed")
		return nil
	}

	actions := make([]ActionEntry, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, ActionEntry{
			Action:    e.Action,
			Timestamp: e.Timestamp,
			Success:   e.Success,
		})
	}

	return g.config.Activity.Detect(actions, now)
}

func appendAction(actions []string, action string) []string {
	for _, a := range actions {
		if a == action {
			return actions
		}
	}
	return append(actions, action)
}
