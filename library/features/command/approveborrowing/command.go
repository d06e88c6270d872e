package approveborrowing

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	commandType = "ApproveBorrowing"
)

// Command represents the intent of a librarian to approve a pending borrowing record.
type Command struct {
	RecordID   uuid.UUID
	Actor      core.Actor
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(recordID uuid.UUID, actor core.Actor, occurredAt time.Time) Command {
	return Command{
		RecordID:   recordID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
