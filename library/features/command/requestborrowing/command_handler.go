package requestborrowing

import (
	"context"
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const successMessage = "the borrowing request was submitted and awaits approval"

// CommandHandler runs GetBook -> Decide -> TryReserveCopy -> EnsureBorrower -> Create in one transaction.
type CommandHandler struct {
	store        borrowing.Transactor
	limits       LoanLimits
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

// WithLoanLimits overrides DefaultLoanLimits.
func WithLoanLimits(limits LoanLimits) Option {
	return func(h *CommandHandler) {
		h.limits = limits
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store borrowing.Transactor, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:  store,
		limits: DefaultLoanLimits(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the request and reports the created record on success.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var decision core.DecisionResult[borrowing.Record]

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if !decision.IsSuccess() {
		return shell.NewFailureResult(retryMetrics, decision.Reason), nil
	}

	result := shell.NewSuccessResult(retryMetrics, successMessage)
	result.Record = decision.State

	return result, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult[borrowing.Record], error) {
	var decision core.DecisionResult[borrowing.Record]

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, uow borrowing.UnitOfWork) error {
		var book *borrowing.Book

		found, err := uow.GetBook(ctx, command.BookID)
		switch {
		case err == nil:
			book = &found
		case !errors.Is(err, borrowing.ErrBookNotFound):
			return err
		}

		decision = Decide(book, command, h.limits)
		if !decision.IsSuccess() {
			return nil
		}

		reserved, err := uow.TryReserveCopy(ctx, command.BookID)
		if err != nil {
			return err
		}

		if !reserved {
			decision = core.FailureDecision[borrowing.Record](core.FailureReasonNoCopiesAvailable)
			return nil
		}

		if err = uow.EnsureBorrower(ctx, decision.State.Borrower); err != nil {
			return err
		}

		id, err := uow.Create(ctx, decision.State)
		if err != nil {
			return err
		}

		decision.State.ID = id
		decision.State.Version = 1

		return nil
	})

	return decision, err
}
