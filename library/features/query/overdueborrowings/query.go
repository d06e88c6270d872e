package overdueborrowings

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	queryType = "OverdueBorrowings"
)

// Query represents the intent of a librarian to see all overdue loans.
type Query struct {
	Actor core.Actor
	Now   time.Time
}

// BuildQuery creates a new Query evaluated as of now.
func BuildQuery(actor core.Actor, now time.Time) Query {
	return Query{
		Actor: actor,
		Now:   core.ToOccurredAt(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
