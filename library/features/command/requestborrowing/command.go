package requestborrowing

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	commandType = "RequestBorrowing"
)

// Command represents the intent of a member to borrow a copy of a book.
// A nil LoanDurationDays means the default loan duration.
type Command struct {
	BookID           uuid.UUID
	Actor            core.Actor
	LoanDurationDays *int
	OccurredAt       time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command that asks for loanDurationDays.
func BuildCommand(bookID uuid.UUID, actor core.Actor, loanDurationDays int, occurredAt time.Time) Command {
	command := BuildCommandWithDefaultLoan(bookID, actor, occurredAt)
	command.LoanDurationDays = &loanDurationDays

	return command
}

// BuildCommandWithDefaultLoan creates a new Command that leaves the loan duration to the configured default.
func BuildCommandWithDefaultLoan(bookID uuid.UUID, actor core.Actor, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
