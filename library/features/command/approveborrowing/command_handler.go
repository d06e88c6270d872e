package approveborrowing

import (
	"context"
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const successMessage = "the borrowing request was approved"

// CommandHandler runs GetByID -> Decide -> Update in one transaction.
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

// Handle executes the approval and reports the approved record on success.
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
		record, err := loadRecord(ctx, uow, command)
		if err != nil {
			return err
		}

		decision = Decide(record, command)
		if !decision.IsSuccess() {
			return nil
		}

		if err = uow.Update(ctx, decision.State); err != nil {
			return err
		}

		decision.State.Version++

		return nil
	})

	return decision, err
}

// loadRecord skips the read for actors that may not approve anyway.
func loadRecord(ctx context.Context, uow borrowing.UnitOfWork, command Command) (*borrowing.Record, error) {
	if !command.Actor.CanManageLoans() {
		return nil, nil
	}

	record, err := uow.GetByID(ctx, command.RecordID)
	switch {
	case err == nil:
		return &record, nil
	case errors.Is(err, borrowing.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}
}
