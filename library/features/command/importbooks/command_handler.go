package importbooks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/addbook"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

// CommandHandler feeds every row of the file through the AddBook handler.
type CommandHandler struct {
	addBook addbook.CommandHandler
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(catalog borrowing.Catalog) CommandHandler {
	return CommandHandler{addBook: addbook.NewCommandHandler(catalog)}
}

// Handle imports all rows. The result counts the imported books and lists the rejected rows.
// A storage error stops the import, books added before it stay in the catalog.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	oneAttempt := shell.RetryMetrics{Attempts: 1}

	if !command.Actor.CanManageCatalog() {
		return shell.NewFailureResult(oneAttempt, core.FailureReasonNotPermitted), nil
	}

	rows, err := NewRowReader(command.Source)
	if err != nil {
		result := shell.NewFailureResult(oneAttempt, core.FailureReasonInvalidImportFile)
		result.Message = fmt.Sprintf("%s: %v", result.Message, err)

		return result, nil
	}

	var (
		imported int
		failures []shell.RowFailure
	)

	for {
		if err = ctx.Err(); err != nil {
			return partialResult(shell.NewErrorResult(oneAttempt), imported, failures), err
		}

		row, readErr := rows.Next()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return partialResult(shell.NewErrorResult(oneAttempt), imported, failures), readErr
		}

		if row.Err != nil {
			failures = append(failures, shell.RowFailure{
				Line:    row.Line,
				Key:     row.ISBN,
				Reason:  core.FailureReasonInvalidBook,
				Message: row.Err.Error(),
			})

			continue
		}

		added, addErr := h.addBook.Handle(ctx, addbook.BuildCommand(
			uuid.New(),
			row.ISBN,
			row.Title,
			row.Author,
			row.Publisher,
			row.PublishedYear,
			row.TotalCopies,
			command.Actor,
			command.OccurredAt,
		))

		if addErr != nil {
			return partialResult(shell.NewErrorResult(oneAttempt), imported, failures), addErr
		}

		if !added.Succeeded() {
			failures = append(failures, shell.RowFailure{
				Line:    row.Line,
				Key:     row.ISBN,
				Reason:  added.Reason,
				Message: added.Message,
			})

			continue
		}

		imported++
	}

	message := fmt.Sprintf("imported %d books, rejected %d rows", imported, len(failures))

	return partialResult(shell.NewSuccessResult(oneAttempt, message), imported, failures), nil
}

func partialResult(result shell.HandlerResult, imported int, failures []shell.RowFailure) shell.HandlerResult {
	result.Imported = imported
	result.RowFailures = failures

	return result
}
