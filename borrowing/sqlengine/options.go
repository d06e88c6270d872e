package sqlengine

import (
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// ErrEmptyTableName is returned when an empty table name is supplied to WithTableNames.
var ErrEmptyTableName = errors.New("empty table name supplied")

// Logger is the basic logger used by the Store.
type Logger = borrowing.Logger

// ContextualLogger is the context-aware logger used by the Store.
type ContextualLogger = borrowing.ContextualLogger

// MetricsCollector collects Store metrics.
type MetricsCollector = borrowing.MetricsCollector

// TracingCollector collects Store tracing spans.
type TracingCollector = borrowing.TracingCollector

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithTableNames overrides the default table names (books, users, borrowing_records).
func WithTableNames(books, users, records string) Option {
	return func(s *Store) error {
		if books == "" || users == "" || records == "" {
			return ErrEmptyTableName
		}

		s.tables = tableNames{books: books, users: users, records: records}

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: reservations, releases, record writes with durations (production-safe)
// Warn level: non-critical issues like failed rollbacks
// Error level: failures that make an operation fail.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It is preferred over the basic logger when both are configured.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}
