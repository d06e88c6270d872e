package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

func Test_RetryWithExponentialBackoff_RechecksOnceByDefault(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return borrowing.ErrConcurrentModification
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, borrowing.ErrConcurrentModification)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 2, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.True(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	// arrange
	fn := func(_ context.Context) error { return nil }

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(5))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetriesConcurrentModification(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(borrowing.ErrConcurrentModification, errors.New("stale version"))
		}
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(4),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0.1),
	)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_FailsFastOnOtherErrors(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return borrowing.ErrStorageFailure
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(5))

	// assert
	assert.ErrorIs(t, err, borrowing.ErrStorageFailure)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsCanceled(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(_ context.Context) error {
		cancel()
		return borrowing.ErrConcurrentModification
	}

	// act
	meta, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(3), WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RecordsRetryMetrics(t *testing.T) {
	// arrange
	collector := &countingCollector{}
	fn := func(_ context.Context) error { return borrowing.ErrConcurrentModification }

	// act
	_, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(3),
		WithBaseDelay(0),
		WithMetrics(collector, "ReturnBorrowing"),
	)

	// assert
	assert.ErrorIs(t, err, borrowing.ErrConcurrentModification)
	assert.Equal(t, 2, collector.counters[CommandHandlerRetriesMetric])
	assert.Equal(t, 2, collector.durations[CommandHandlerRetryDelayMetric])
	assert.Equal(t, 1, collector.counters[CommandHandlerMaxRetriesReachedMetric])
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithMetrics(nil, "X"))
	assert.ErrorIs(t, err, ErrNilMetricsCollector)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithMetrics(&countingCollector{}, ""))
	assert.ErrorIs(t, err, ErrEmptyCommandType)
}

type countingCollector struct {
	counters  map[string]int
	durations map[string]int
}

func (c *countingCollector) RecordDuration(metric string, _ time.Duration, _ map[string]string) {
	if c.durations == nil {
		c.durations = map[string]int{}
	}
	c.durations[metric]++
}

func (c *countingCollector) IncrementCounter(metric string, _ map[string]string) {
	if c.counters == nil {
		c.counters = map[string]int{}
	}
	c.counters[metric]++
}

func (c *countingCollector) RecordValue(_ string, _ float64, _ map[string]string) {}
