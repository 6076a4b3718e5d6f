package authguard

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/fsdiasv/authguard/internal/audit"
)

// AuditEvent is the structured audit record emitted by the Guardian.
type AuditEvent = audit.Event

// AuditSink receives emitted audit events.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink writes audit events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// MultiSink fans audit events out to several sinks.
type MultiSink = audit.MultiSink

type auditDispatcher = audit.Dispatcher

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}

	return audit.NewDispatcher(sink, audit.Options{
		Buffer:       cfg.BufferSize,
		DropWhenFull: cfg.DropIfFull,
	})
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

const (
	auditEventSignInSuccess     = "sign_in_success"
	auditEventSignInFailure     = "sign_in_failure"
	auditEventSignInRateLimited = "sign_in_rate_limited"
	auditEventSignUp            = "sign_up"
	auditEventSignOut           = "sign_out"
	auditEventForcedSignOut     = "forced_sign_out"
	auditEventRefreshSuccess    = "refresh_success"
	auditEventRefreshFailure    = "refresh_failure"
	auditEventPasswordReset     = "password_reset_request"
	auditEventPasswordUpdate    = "password_update"
	auditEventEmailUpdate       = "email_update"
	auditEventProfileUpdate     = "profile_update"
	auditEventOAuthRedirect     = "oauth_redirect"
	auditEventSecurityEvent     = "security_event"
	auditEventResendRequested   = "verification_resend_requested"
)

// AuditErrorCode defines a public type used by authguard APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrEmailUnverified     AuditErrorCode = "email_unverified"
	auditErrValidation          AuditErrorCode = "validation_rejected"
	auditErrRateLimited         AuditErrorCode = "rate_limited"
	auditErrSessionExpired      AuditErrorCode = "session_expired"
	auditErrNoSession           AuditErrorCode = "no_session"
	auditErrRefreshFailed       AuditErrorCode = "refresh_failed"
	auditErrProviderUnavailable AuditErrorCode = "provider_unavailable"
	auditErrNotReady            AuditErrorCode = "guardian_not_ready"
	auditErrInternal            AuditErrorCode = "internal_error"
)

func (g *Guardian) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if g == nil || g.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	g.audit.Emit(ctx, event)
}

func (g *Guardian) emitSecurityEvent(ctx context.Context, userID string, ev SecurityEvent) {
	if g == nil || g.audit == nil {
		return
	}

	g.audit.Emit(ctx, AuditEvent{
		ID:        ev.ID,
		Timestamp: ev.Timestamp,
		EventType: auditEventSecurityEvent,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Severity:  ev.Severity.String(),
		Success:   false,
		Metadata: map[string]string{
			"type":    string(ev.Type),
			"message": ev.Message,
		},
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrEmailUnverified):
		return auditErrEmailUnverified
	case errors.Is(err, ErrEmailPolicy),
		errors.Is(err, ErrPasswordPolicy),
		errors.Is(err, ErrSlugPolicy):
		return auditErrValidation
	case errors.Is(err, ErrSignInRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrNoSession):
		return auditErrNoSession
	case errors.Is(err, ErrRefreshFailed):
		return auditErrRefreshFailed
	case errors.Is(err, ErrProviderUnavailable):
		return auditErrProviderUnavailable
	case errors.Is(err, ErrGuardianNotReady),
		errors.Is(err, ErrGuardianStopped),
		errors.Is(err, ErrAlreadyStarted):
		return auditErrNotReady
	default:
		return auditErrInternal
	}
}
