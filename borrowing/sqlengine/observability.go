package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

const (
	operationTransaction    = "transaction"
	operationCreateSchema   = "create_schema"
	operationGetBook        = "get_book"
	operationReserveCopy    = "reserve_copy"
	operationReleaseCopy    = "release_copy"
	operationCreateRecord   = "create_record"
	operationGetRecord      = "get_record"
	operationUpdateRecord   = "update_record"
	operationListAll        = "list_all"
	operationListByUser     = "list_by_user"
	operationListByStatus   = "list_by_status"
	operationEnsureBorrower = "ensure_borrower"
	operationAddBook        = "add_book"
	operationUpdateBook     = "update_book"
	operationDeleteBook     = "delete_book"

	metricOperationDuration    = "borrowingstore_operation_duration_seconds"
	metricOperationCalls       = "borrowingstore_operation_calls_total"
	metricDatabaseErrors       = "borrowingstore_database_errors_total"
	metricConcurrencyConflicts = "borrowingstore_concurrency_conflicts_total"
	metricReservationsRejected = "borrowingstore_reservations_rejected_total"
	spanNamePrefix             = "borrowingstore."
	spanAttrOperation          = "operation"
	spanAttrDialect            = "db.dialect"
	spanAttrErrorType          = "error_type"
	spanAttrDurationMS         = "duration_ms"
	labelStatus                = "status"
	statusSuccess              = "success"
	statusError                = "error"
	statusCanceled             = "canceled"
	statusTimeout              = "timeout"
	statusConcurrencyConflict  = "concurrency_conflict"
	statusNotFound             = "not_found"
	statusDuplicate            = "duplicate"
	statusRejected             = "rejected"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "borrowingstore operation: "
	logMsgBuildQueryFailed     = "failed to build sql statement"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database statement execution failed"
	logMsgRowsAffectedFailed   = "failed to get rows affected count"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgParseColumnFailed    = "failed to parse column value"
	logMsgBeginTxFailed        = "failed to begin transaction"
	logMsgCommitTxFailed       = "failed to commit transaction"
	logMsgRollbackFailed       = "failed to roll back transaction"
	logMsgReleaseRejected      = "copy release rejected"
	logMsgReservationRejected  = "copy reservation rejected"
	logMsgCopyReserved         = "copy reserved"
	logMsgCopyReleased         = "copy released"
	logMsgRecordCreated        = "record created"
	logMsgRecordUpdated        = "record updated"
	logMsgBookAdded            = "book added"
	logMsgBookUpdated          = "book updated"
	logMsgBookDeleted          = "book deleted"
	logMsgSchemaCreated        = "schema created"
	logMsgVersionConflict      = "concurrent modification detected"
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrDurationMS          = "duration_ms"
	logAttrBookID              = "book_id"
	logAttrRecordID            = "record_id"
	logAttrStatus              = "status"
	logAttrExpectedVersion     = "expected_version"
	logAttrColumn              = "column"
	logAttrDialect             = "dialect"
)

// operationObserver wraps one store operation with a tracing span and duration/outcome metrics.
type operationObserver struct {
	s         Store
	ctx       context.Context
	operation string
	span      borrowing.SpanContext
	start     time.Time
}

func (s Store) startOperation(ctx context.Context, operation string) (context.Context, *operationObserver) {
	spanCtx, span := s.startTraceSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   s.dialect,
	})

	return spanCtx, &operationObserver{
		s:         s,
		ctx:       spanCtx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}
}

func (o *operationObserver) finish(err error) {
	duration := time.Since(o.start)
	status := statusFromError(err)

	o.s.recordDurationMetricsContext(o.ctx, metricOperationDuration, duration, o.operation, status)
	o.s.incrementCounterContext(o.ctx, metricOperationCalls, map[string]string{
		spanAttrOperation: o.operation,
		labelStatus:       status,
	})

	switch status {
	case statusConcurrencyConflict:
		o.s.incrementCounterContext(o.ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: o.operation})

	case statusError, statusCanceled, statusTimeout:
		o.s.incrementCounterContext(o.ctx, metricDatabaseErrors, map[string]string{
			spanAttrOperation: o.operation,
			spanAttrErrorType: status,
		})
	}

	if o.span == nil || o.s.tracingCollector == nil {
		return
	}

	attrs := map[string]string{spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration))}
	if err != nil {
		attrs[spanAttrErrorType] = status
	}

	o.s.tracingCollector.FinishSpan(o.span, status, attrs)
}

// statusFromError maps an operation error to a low-cardinality outcome label.
func statusFromError(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, context.Canceled):
		return statusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return statusTimeout
	case errors.Is(err, borrowing.ErrConcurrentModification):
		return statusConcurrencyConflict
	case errors.Is(err, borrowing.ErrBookNotFound), errors.Is(err, borrowing.ErrRecordNotFound):
		return statusNotFound
	case errors.Is(err, borrowing.ErrDuplicateISBN):
		return statusDuplicate
	case errors.Is(err, borrowing.ErrCopyReleaseRejected),
		errors.Is(err, borrowing.ErrCopiesOnLoan),
		errors.Is(err, borrowing.ErrBookHasRecords):
		return statusRejected
	default:
		return statusError
	}
}

func (s Store) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, borrowing.SpanContext) {

	if s.tracingCollector != nil {
		return s.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

func (s Store) recordReservationRejected(ctx context.Context) {
	s.incrementCounterContext(ctx, metricReservationsRejected, map[string]string{spanAttrOperation: operationReserveCopy})
}

// recordDurationMetricsContext uses the context-aware method if the collector supports it.
func (s Store) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {

	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := s.metricsCollector.(borrowing.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricName, duration, labels)
}

func (s Store) incrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(borrowing.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricName, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricName, labels)
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	case s.logger != nil:
		s.logger.Debug(logMsgSQLExecuted+operation, args...)
	}
}

// logOperation logs operational information at info level.
func (s Store) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case s.logger != nil:
		s.logger.Info(logMsgOperation+action, args...)
	}
}

func (s Store) logWarn(ctx context.Context, message string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.WarnContext(ctx, message, args...)
	case s.logger != nil:
		s.logger.Warn(message, args...)
	}
}

// logError logs error information at the error level.
func (s Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case s.logger != nil:
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
