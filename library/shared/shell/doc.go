// Package shell contains the infrastructure glue shared by all feature slices:
// command and query contracts, the handler result, retry on optimistic
// concurrency conflicts, and helpers for metrics, tracing and logging.
//
// In Hexagonal Architecture terminology, this would be part of the
// 'application' and 'adapter' layers.
package shell
