package updatebook

import (
	"context"
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const successMessage = "the book was updated"

// CommandHandler runs GetBook -> Decide -> UpdateBook in one transaction.
// The store repeats the copies-on-loan guard, a reservation that commits in between is never lost.
type CommandHandler struct {
	store        borrowing.Transactor
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store borrowing.Transactor, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command and reports the updated book on success.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var decision core.DecisionResult[borrowing.Book]

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	switch {
	case errors.Is(err, borrowing.ErrDuplicateISBN):
		return shell.NewFailureResult(retryMetrics, core.FailureReasonDuplicateISBN), nil
	case errors.Is(err, borrowing.ErrCopiesOnLoan):
		return shell.NewFailureResult(retryMetrics, core.FailureReasonCopiesOnLoan), nil
	case errors.Is(err, borrowing.ErrBookNotFound):
		return shell.NewFailureResult(retryMetrics, core.FailureReasonBookNotFound), nil
	case err != nil:
		return shell.NewErrorResult(retryMetrics), err
	}

	if !decision.IsSuccess() {
		return shell.NewFailureResult(retryMetrics, decision.Reason), nil
	}

	result := shell.NewSuccessResult(retryMetrics, successMessage)
	result.Book = decision.State

	return result, nil
}

// executeCommand returns the store's rejection as an error, so that the transaction is rolled back.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult[borrowing.Book], error) {
	var decision core.DecisionResult[borrowing.Book]

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, uow borrowing.UnitOfWork) error {
		var current *borrowing.Book

		if command.Actor.CanManageCatalog() {
			found, err := uow.GetBook(ctx, command.BookID)
			switch {
			case err == nil:
				current = &found
			case !errors.Is(err, borrowing.ErrBookNotFound):
				return err
			}
		}

		decision = Decide(current, command)
		if !decision.IsSuccess() {
			return nil
		}

		return uow.UpdateBook(ctx, decision.State)
	})

	return decision, err
}
