// Package rate provides the Redis-backed fixed-window counters behind
// the Guardian's sign-in throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefixes:
//   - agl:  — sign-in per-identifier
//   - agli: — sign-in per-IP
//
// # What this package must NOT do
//
//   - Implement notification or navigation policy (that is the Guardian's job).
//   - Be imported outside the authguard module.
package rate
