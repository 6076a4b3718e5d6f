// Package audit implements async event dispatching for security-relevant operations.
//
// # Components
//
//   - [Event] — structured audit record with timestamp, type, user, IP, metadata.
//   - [Sink] — interface for event consumers (channel, JSON writer, multi, no-op).
//   - [Dispatcher] — buffered single-worker delivery between producers and a sink.
//
// # Architecture boundaries
//
// This package owns the event model and sink delivery. It does NOT
// decide which events to emit — that responsibility belongs to the
// Guardian.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import authguard or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
