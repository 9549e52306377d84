// Package observe provides observability primitives for prime lookups.
//
// It wires OpenTelemetry tracing and metrics, a zerolog-backed structured
// Logger, and a Middleware that records a span, metrics and a log line around
// every lookup. Exporters are selected by name (stdout, otlp, prometheus,
// none); see the exporters subpackage.
package observe
