package updatebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	commandType = "UpdateBook"
)

// Command represents the intent of a librarian to replace the catalog data of a book.
type Command struct {
	BookID        uuid.UUID
	Title         string
	ISBN          string
	Author        string
	Publisher     string
	PublishedYear int
	TotalCopies   int
	Actor         core.Actor
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	bookID uuid.UUID,
	isbn string,
	title string,
	author string,
	publisher string,
	publishedYear int,
	totalCopies int,
	actor core.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:        bookID,
		Title:         title,
		ISBN:          isbn,
		Author:        author,
		Publisher:     publisher,
		PublishedYear: publishedYear,
		TotalCopies:   totalCopies,
		Actor:         actor,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
