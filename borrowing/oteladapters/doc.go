// Package oteladapters implements the observability interfaces of the borrowing package with OpenTelemetry.
//
// SlogBridgeLogger sends log records through the otelslog bridge so they carry the trace and span IDs of
// the context they are logged with. MetricsCollector maps durations to histograms, increments to counters
// and values to gauges. TracingCollector starts and ends spans on a trace.Tracer.
package oteladapters
