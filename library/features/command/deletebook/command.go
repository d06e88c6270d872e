package deletebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	commandType = "DeleteBook"
)

// Command represents the intent of a librarian to remove a book from the catalog.
type Command struct {
	BookID     uuid.UUID
	Actor      core.Actor
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, actor core.Actor, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
