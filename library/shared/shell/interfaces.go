package shell

import (
	"context"
)

// Command is implemented by every write intent. CommandType labels logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query is implemented by every read intent. QueryType labels logs, metrics and spans.
type Query interface {
	QueryType() string
}

// CoreCommandHandler executes a command without any observability concerns.
// Business rejections are reported through HandlerResult, errors are reserved for
// infrastructure failures and concurrency conflicts.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// QueryHandler executes a query and returns its projection.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
