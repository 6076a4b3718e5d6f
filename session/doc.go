// Package session defines the provider session model consumed by the
// authguard root package, plus access-token introspection helpers used
// to derive session age without verifying signatures.
//
// Sessions are owned by the identity provider. authguard only holds a
// read-only copy and never persists tokens.
package session
