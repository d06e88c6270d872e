// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The feature slices stay free of observability code: a handler is constructed plainly and
// then wrapped, for example
//
//	handler, err := observable.NewCommandWrapper[approveborrowing.Command](
//		approveborrowing.NewCommandHandler(store),
//		observable.WithCommandMetrics[approveborrowing.Command](metrics),
//		observable.WithCommandContextualLogging[approveborrowing.Command](logger),
//	)
//
// Business rejections are reported with status "rejected" and their failure reason,
// errors are classified as canceled, timeout, concurrency_conflict or error.
package observable
