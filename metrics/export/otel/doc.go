// Package otel provides OpenTelemetry metric exporter bindings for authguard counters
// and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each authguard
// metric and Int64ObservableGauge per histogram bucket. A single callback reads
// [authguard.Guardian.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate guardian state.
package otel
