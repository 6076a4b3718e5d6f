// Package middleware exposes HTTP adapters that connect incoming requests to a
// running [authguard.Guardian].
//
// # Handlers
//
//   - [ClientContext] — copies the caller's IP, user agent, and preferred locale
//     into the request context so guardian operations and security checks can
//     see them.
//   - [RequireSession] — rejects requests with no live session and records
//     activity on the ones that pass.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into guardian calls. It does NOT
// implement authentication logic itself — all decisions are delegated to the
// guardian's state and security checks.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly.
//   - Access Redis (the guardian handles I/O).
//   - Make authorization decisions beyond pass/reject from the guardian state.
package middleware
