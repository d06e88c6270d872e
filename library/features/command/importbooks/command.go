package importbooks

import (
	"io"
	"time"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	commandType = "ImportBooks"

	// DefaultCopiesPerTitle is used for rows without a TotalCopies column.
	DefaultCopiesPerTitle = 20
)

// Command represents the intent of a librarian to add all books listed in a CSV file.
type Command struct {
	Source     io.Reader
	Actor      core.Actor
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(source io.Reader, actor core.Actor, occurredAt time.Time) Command {
	return Command{
		Source:     source,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
