package shell

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	// OutcomeSuccess marks a command that changed state.
	OutcomeSuccess = "success"

	// OutcomeFailure marks a command that was rejected by a business rule.
	OutcomeFailure = "failure"

	// OutcomeError marks a command that failed for technical reasons.
	OutcomeError = "error"
)

// HandlerResult is what a command handler reports besides an error: the business outcome
// with its reason and message, the affected entity, and the retry metadata.
type HandlerResult struct {
	Outcome string
	Reason  core.FailureReason
	Message string

	// Record is set by the borrowing transitions on success.
	Record borrowing.Record

	// Book is set by catalog commands on success.
	Book borrowing.Book

	// Imported and RowFailures are set by bulk catalog commands.
	Imported    int
	RowFailures []RowFailure

	// RetryAttempts is the number of attempts made, 1 without retries.
	RetryAttempts int

	// TotalRetryDelay only counts time spent in backoff.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded" or "other".
	LastErrorType string

	// RetriesExhausted is true if the last attempt still failed with a retryable error.
	RetriesExhausted bool
}

// RowFailure is one rejected line of a bulk command. Line counts from 1 and includes the header.
type RowFailure struct {
	Line    int
	Key     string
	Reason  core.FailureReason
	Message string
}

// NewSuccessResult creates a HandlerResult for a command that changed state.
func NewSuccessResult(retryMetrics RetryMetrics, message string) HandlerResult {
	return withRetryMetrics(HandlerResult{Outcome: OutcomeSuccess, Message: message}, retryMetrics)
}

// NewFailureResult creates a HandlerResult for a command rejected by a business rule.
func NewFailureResult(retryMetrics RetryMetrics, reason core.FailureReason) HandlerResult {
	return withRetryMetrics(HandlerResult{
		Outcome: OutcomeFailure,
		Reason:  reason,
		Message: reason.Message(),
	}, retryMetrics)
}

// NewErrorResult creates a HandlerResult that accompanies a returned error.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return withRetryMetrics(HandlerResult{Outcome: OutcomeError}, retryMetrics)
}

func withRetryMetrics(result HandlerResult, retryMetrics RetryMetrics) HandlerResult {
	result.RetryAttempts = retryMetrics.Attempts
	result.TotalRetryDelay = retryMetrics.TotalDelay
	result.LastErrorType = retryMetrics.LastErrorType
	result.RetriesExhausted = retryMetrics.RetriesExhausted

	return result
}

// Succeeded reports whether the command changed state.
func (r HandlerResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
