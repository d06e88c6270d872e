package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell/observable"
	. "github.com/rahulmaharshi/manage-library-app/testutil/observability/testdoubles" //nolint:revive
)

type stubQuery struct{}

func (stubQuery) QueryType() string { return "StubQuery" }

type stubProjection struct {
	Records borrowing.Records
}

type stubQueryHandler struct {
	result stubProjection
	err    error
}

func (h stubQueryHandler) Handle(_ context.Context, _ stubQuery) (stubProjection, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := stubQueryHandler{result: stubProjection{Records: borrowing.Records{{}, {}}}}
	metrics := NewMetricsCollectorSpy()
	logHandler := NewLogHandlerSpy(false)

	wrapper, err := observable.NewQueryWrapper[stubQuery, stubProjection](
		handler,
		observable.WithQueryMetrics[stubQuery, stubProjection](metrics),
		observable.WithQueryLogging[stubQuery, stubProjection](slog.New(logHandler)),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), stubQuery{})

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, metrics.CounterCount(shell.QueryHandlerCallsMetric, shell.BuildQueryLabels("StubQuery", shell.StatusSuccess)))
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, shell.LogMsgQueryCompleted, shell.LogAttrResultCount))
}

func Test_QueryWrapper_Handle_Error(t *testing.T) {
	// arrange
	handler := stubQueryHandler{err: errors.Join(borrowing.ErrStorageFailure, borrowing.ErrQueryingFailed)}
	metrics := NewMetricsCollectorSpy()
	tracing := NewTracingCollectorSpy()
	logger := NewContextualLoggerSpy()

	wrapper, err := observable.NewQueryWrapper[stubQuery, stubProjection](
		handler,
		observable.WithQueryMetrics[stubQuery, stubProjection](metrics),
		observable.WithQueryTracing[stubQuery, stubProjection](tracing),
		observable.WithQueryContextualLogging[stubQuery, stubProjection](logger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), stubQuery{})

	// assert
	assert.ErrorIs(t, err, borrowing.ErrStorageFailure)
	assert.Equal(t, 1, metrics.CounterCount(shell.QueryHandlerCallsMetric, shell.BuildQueryLabels("StubQuery", shell.StatusError)))
	assert.True(t, logger.HasMessage("error", shell.LogMsgQueryFailed))

	span, found := tracing.FinishedSpan(shell.SpanNameQueryHandle)
	require.True(t, found)
	assert.Equal(t, shell.StatusError, span.Status)
}
