package shell

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

const (
	// DefaultMaxAttempts re-runs a command once after a conflict. Every successful transition changes
	// the status of its record, so the second attempt reports the business outcome of the re-read
	// record instead of applying the transition twice.
	DefaultMaxAttempts = 2

	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeOther                   = "other"
)

var (
	// ErrNilMetricsCollector is returned when WithMetrics receives a nil collector.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType is returned when WithMetrics receives an empty command type.
	ErrEmptyCommandType = errors.New("command type must not be empty")

	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of a command. It must reload all state it decides on.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how an execution went through the retry loop.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryConfig) error

// RetryWithExponentialBackoff runs fn and runs it again after borrowing.ErrConcurrentModification,
// up to maxAttempts in total, with delays of baseDelay, 2*baseDelay, 4*baseDelay, ... plus jitter.
// Every other error is returned immediately.
//
// Each attempt calls fn from scratch, so a retried transition re-reads the record and
// re-checks its status before writing.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	config := &retryConfig{
		maxAttempts:  DefaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{LastErrorType: errorTypeOther}, err
		}
	}

	metrics := RetryMetrics{}
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // jitter needs no crypto randomness
			backoff := delay + time.Duration(jitter)

			config.recordDelay(ctx, attempt, backoff)

			select {
			case <-time.After(backoff):
				metrics.TotalDelay += backoff

			case <-ctx.Done():
				metrics.LastErrorType = classifyError(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++
		lastErr = fn(ctx)
		metrics.LastErrorType = classifyError(lastErr)

		if lastErr == nil || !isRetryable(lastErr) {
			return metrics, lastErr
		}

		if attempt < config.maxAttempts-1 {
			config.recordRetry(ctx, attempt+1, lastErr)
		}
	}

	metrics.RetriesExhausted = true
	config.recordExhausted(ctx, lastErr)

	return metrics, lastErr
}

// isRetryable only accepts optimistic lock conflicts. Timeouts are never retried.
func isRetryable(err error) bool {
	return errors.Is(err, borrowing.ErrConcurrentModification)
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, borrowing.ErrConcurrentModification):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeContextDeadlineExceeded
	default:
		return errorTypeOther
	}
}

func (c *retryConfig) recordDelay(ctx context.Context, attempt int, backoff time.Duration) {
	if c.metricsCollector == nil {
		return
	}

	recordDuration(ctx, c.metricsCollector, CommandHandlerRetryDelayMetric, backoff, map[string]string{
		LogAttrCommandType: c.commandType,
		labelAttemptNumber: strconv.Itoa(attempt),
	})
}

func (c *retryConfig) recordRetry(ctx context.Context, attemptNumber int, err error) {
	if c.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, c.metricsCollector, CommandHandlerRetriesMetric,
		BuildRetryLabels(c.commandType, attemptNumber, classifyError(err)))
}

func (c *retryConfig) recordExhausted(ctx context.Context, err error) {
	if c.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, c.metricsCollector, CommandHandlerMaxRetriesReachedMetric, map[string]string{
		LogAttrCommandType:  c.commandType,
		labelFinalErrorType: classifyError(err),
	})
}

// WithMaxAttempts sets how often a command is attempted in total.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry, later retries double it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the random share added on top of each delay, between 0.0 and 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithMetrics records retries, delays and exhaustion labeled with commandType.
func WithMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}
