// Package authguard provides a session-security layer for identity
// provider backed applications: input sanitization, password and email
// policy scoring, session posture evaluation, suspicious-activity
// detection, and a Guardian state machine that drives sign-in flows,
// navigation, and periodic security checks.
//
// The package is designed for concurrent use: Guardian methods are safe
// to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authguard is the public surface. It exposes [Guardian], [Builder],
// [Config], the policy types, and value types (SecurityCheck,
// MetricsSnapshot, SecurityReport, etc.). Redis-backed coordination —
// the activity log, the sign-in throttle, audit sink plumbing — lives
// under internal/ and is never exported directly.
//
// # What this package must NOT do
//
//   - Expose Redis clients or internal stores in its public API.
//   - Render UI or own routing; navigation and notification go through
//     the caller-supplied [Navigator] and [Notifier].
//   - Talk to an identity backend itself; every remote call goes
//     through the caller-supplied [IdentityProvider].
//
// # Performance contract
//
// The pure evaluators (sanitizer, password, email, slug, session
// policy, activity detector) are allocation-light and perform no I/O.
// Guardian operations are allowed one provider round-trip plus at most
// two Redis round-trips (throttle, activity log) per call.
package authguard
