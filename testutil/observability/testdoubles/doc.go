// Package testdoubles provides spies for the observability interfaces of the borrowing store
// and the command and query handlers:
//   - MetricsCollectorSpy captures metric calls
//   - TracingCollectorSpy captures spans
//   - ContextualLoggerSpy captures context-aware log calls
//   - LogHandlerSpy captures slog records
//
// None of them needs a telemetry backend.
package testdoubles
