package requestborrowing

import (
	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

// LoanLimits bounds the loan duration a member may ask for.
type LoanLimits struct {
	DefaultDays int
	MaxDays     int
}

// DefaultLoanLimits returns 28 days by default and at most 365 days.
func DefaultLoanLimits() LoanLimits {
	return LoanLimits{
		DefaultDays: core.DefaultLoanDurationDays,
		MaxDays:     core.DefaultMaxLoanDurationDays,
	}
}

// Decide implements the business rules of a borrowing request. book is nil if it does not exist.
// The available copies of book are only a precheck, the ledger reservation that follows decides.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a member
//	WHEN: RequestBorrowing command is received
//	THEN: A Pending record with BorrowDate = OccurredAt and DueDate = BorrowDate + loan duration is created
//	ERROR: NotPermitted if the actor is not a member
//	ERROR: InvalidLoanDuration if a requested loan duration is not within 1 and the maximum
//	ERROR: BookNotFound if the book does not exist
//	ERROR: NoCopiesAvailable if no copy is available
func Decide(book *borrowing.Book, command Command, limits LoanLimits) core.DecisionResult[borrowing.Record] {
	if !command.Actor.CanBorrow() {
		return core.FailureDecision[borrowing.Record](core.FailureReasonNotPermitted)
	}

	loanDays := limits.DefaultDays
	if command.LoanDurationDays != nil {
		loanDays = *command.LoanDurationDays
	}

	if loanDays < 1 || loanDays > limits.MaxDays {
		return core.FailureDecision[borrowing.Record](core.FailureReasonInvalidLoanDuration)
	}

	if book == nil {
		return core.FailureDecision[borrowing.Record](core.FailureReasonBookNotFound)
	}

	if book.AvailableCopies <= 0 {
		return core.FailureDecision[borrowing.Record](core.FailureReasonNoCopiesAvailable)
	}

	return core.SuccessDecision(borrowing.Record{
		BookID:     book.ID,
		UserID:     command.Actor.UserID,
		BorrowDate: command.OccurredAt,
		DueDate:    core.DueDate(command.OccurredAt, loanDays),
		Status:     borrowing.StatusPending,
		Fines:      decimal.Zero,
		Book: borrowing.BookSummary{
			Title: book.Title,
			ISBN:  book.ISBN,
		},
		Borrower: borrowerOf(command.Actor),
	})
}

func borrowerOf(actor core.Actor) borrowing.BorrowerSummary {
	return borrowing.BorrowerSummary{
		UserID:   actor.UserID,
		FullName: actor.FullName,
		Email:    actor.Email,
	}
}
