package borrowing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a borrowing record.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusReturned Status = "Returned"

	// StatusOverdue is a derived label for Approved records past their due date.
	// It is never persisted.
	StatusOverdue Status = "Overdue"
)

// IsValid reports whether s is one of the persisted statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusReturned:
		return true
	default:
		return false
	}
}

// HoldsCopy reports whether a record in this status keeps a copy of its book reserved.
func (s Status) HoldsCopy() bool {
	return s == StatusPending || s == StatusApproved
}

// Book is the catalog view of a book title and its inventory counters.
type Book struct {
	ID              uuid.UUID
	Title           string
	ISBN            string
	Author          string
	Publisher       string
	PublishedYear   int
	TotalCopies     int
	AvailableCopies int
}

// BookSummary is the book data joined into borrowing record listings.
type BookSummary struct {
	Title string
	ISBN  string
}

// BorrowerSummary is the user data joined into borrowing record listings.
type BorrowerSummary struct {
	UserID   string
	FullName string
	Email    string
}

// Record is a single borrowing of one copy of a book by one user.
type Record struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     Status
	Fines      decimal.Decimal
	Version    VersionUint

	// Book and Borrower are only populated by listings.
	Book     BookSummary
	Borrower BorrowerSummary
}

// Records is a collection of borrowing records.
type Records []Record

// EffectiveStatus returns the status as presented to readers: an Approved record whose due date
// lies before now is reported as Overdue.
func (r Record) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusApproved && now.After(r.DueDate) {
		return StatusOverdue
	}

	return r.Status
}

// IsReturned reports whether the record reached its final state.
func (r Record) IsReturned() bool {
	return r.Status == StatusReturned
}
