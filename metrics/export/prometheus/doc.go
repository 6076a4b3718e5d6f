// Package prometheus provides Prometheus collectors for authguard metrics.
//
// [NewPrometheusExporter] accepts an [authguard.Guardian] and exposes an [http.Handler]
// that renders all authguard counters and histograms in Prometheus text exposition
// format. Counter names are prefixed authguard_*_total; the single histogram is
// authguard_security_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate guardian state.
package prometheus
