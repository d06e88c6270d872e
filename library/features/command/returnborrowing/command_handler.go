package returnborrowing

import (
	"context"
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const successMessage = "the book was returned"

// CommandHandler runs GetByID -> Decide -> Update -> ReleaseCopy in one transaction.
type CommandHandler struct {
	store        borrowing.Transactor
	finePolicy   core.FinePolicy
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

// WithFinePolicy replaces core.DefaultFinePolicy.
func WithFinePolicy(policy core.FinePolicy) Option {
	return func(h *CommandHandler) {
		h.finePolicy = policy
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store borrowing.Transactor, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:      store,
		finePolicy: core.DefaultFinePolicy(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the return and reports the returned record, including its fine, on success.
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
		var record *borrowing.Record

		if command.Actor.CanManageLoans() {
			found, err := uow.GetByID(ctx, command.RecordID)
			switch {
			case err == nil:
				record = &found
			case !errors.Is(err, borrowing.ErrRecordNotFound):
				return err
			}
		}

		decision = Decide(record, command, h.finePolicy)
		if !decision.IsSuccess() {
			return nil
		}

		// The version guarded update goes first, a stale caller fails here before releasing a copy.
		if err := uow.Update(ctx, decision.State); err != nil {
			return err
		}

		if err := uow.ReleaseCopy(ctx, decision.State.BookID); err != nil {
			return err
		}

		decision.State.Version++

		return nil
	})

	return decision, err
}
