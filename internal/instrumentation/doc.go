// Package instrumentation wires OpenTelemetry metrics for the Google
// API wrappers and exposes them through a Prometheus or stdout exporter.
//
// The Metrics type implements the operation recorder consumed by the
// gapi invoker, so every wrapped API call is counted and timed with
// service, operation and status attributes. High-cardinality attributes
// such as the account name are only attached when DetailedLabels is
// enabled.
package instrumentation
