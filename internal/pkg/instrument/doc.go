// Package instrument wires OpenTelemetry tracing, metrics and logs, and
// installs the process-wide slog handler with field masking.
package instrument
