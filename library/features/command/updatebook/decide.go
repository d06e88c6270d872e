package updatebook

import (
	"strings"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// Decide implements the business rules for updating a book. ISBN uniqueness is checked by the store.
//
// Business Rules:
//
//	GIVEN: A librarian and a book with some copies on loan
//	WHEN: UpdateBook command is received
//	THEN: The catalog data is replaced and AvailableCopies = TotalCopies - copies on loan
//	ERROR: NotPermitted if the actor is neither librarian nor admin
//	ERROR: BookNotFound if the book does not exist
//	ERROR: InvalidBook if title, isbn or author is blank, TotalCopies is below 1
//	       or PublishedYear lies in the future
//	ERROR: CopiesOnLoan if TotalCopies is below the copies on loan
func Decide(current *borrowing.Book, command Command) core.DecisionResult[borrowing.Book] {
	if !command.Actor.CanManageCatalog() {
		return core.FailureDecision[borrowing.Book](core.FailureReasonNotPermitted)
	}

	if current == nil {
		return core.FailureDecision[borrowing.Book](core.FailureReasonBookNotFound)
	}

	book := borrowing.Book{
		ID:            current.ID,
		Title:         strings.TrimSpace(command.Title),
		ISBN:          strings.TrimSpace(command.ISBN),
		Author:        strings.TrimSpace(command.Author),
		Publisher:     strings.TrimSpace(command.Publisher),
		PublishedYear: command.PublishedYear,
		TotalCopies:   command.TotalCopies,
	}

	if book.Title == "" || book.ISBN == "" || book.Author == "" || book.TotalCopies < 1 {
		return core.FailureDecision[borrowing.Book](core.FailureReasonInvalidBook)
	}

	if book.PublishedYear < 0 || book.PublishedYear > command.OccurredAt.Year() {
		return core.FailureDecision[borrowing.Book](core.FailureReasonInvalidBook)
	}

	onLoan := current.TotalCopies - current.AvailableCopies
	if book.TotalCopies < onLoan {
		return core.FailureDecision[borrowing.Book](core.FailureReasonCopiesOnLoan)
	}

	book.AvailableCopies = book.TotalCopies - onLoan

	return core.SuccessDecision(book)
}
