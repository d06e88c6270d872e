package addbook

import (
	"context"
	"errors"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const successMessage = "the book was added to the catalog"

// CommandHandler runs Decide -> AddBook. Adding a book never conflicts, so there is nothing to retry.
type CommandHandler struct {
	catalog borrowing.Catalog
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(catalog borrowing.Catalog) CommandHandler {
	return CommandHandler{catalog: catalog}
}

// Handle executes the command and reports the stored book on success.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	decision := Decide(command)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		if !decision.IsSuccess() {
			return nil
		}

		id, addErr := h.catalog.AddBook(ctx, decision.State)
		if errors.Is(addErr, borrowing.ErrDuplicateISBN) {
			decision = core.FailureDecision[borrowing.Book](core.FailureReasonDuplicateISBN)
			return nil
		}

		decision.State.ID = id

		return addErr
	}, shell.WithMaxAttempts(1))

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if !decision.IsSuccess() {
		return shell.NewFailureResult(retryMetrics, decision.Reason), nil
	}

	result := shell.NewSuccessResult(retryMetrics, successMessage)
	result.Book = decision.State

	return result, nil
}
