package myborrowings

import (
	"time"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	queryType = "MyBorrowings"
)

// Query represents the intent of a member to see the own borrowing records.
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
