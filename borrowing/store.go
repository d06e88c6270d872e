package borrowing

import (
	"context"

	"github.com/google/uuid"
)

// InventoryLedger guards the available-copy counter of each book.
//
// TryReserveCopy must be linearizable per book: under N concurrent calls for a book with
// K available copies exactly min(N, K) calls return true.
// ReleaseCopy is not idempotent, callers must gate it on a status transition.
type InventoryLedger interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (Book, error)
	TryReserveCopy(ctx context.Context, bookID uuid.UUID) (bool, error)
	ReleaseCopy(ctx context.Context, bookID uuid.UUID) error
}

// RecordStore persists borrowing records.
//
// Update fails with ErrConcurrentModification if the stored version differs from record.Version.
type RecordStore interface {
	Create(ctx context.Context, record Record) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	Update(ctx context.Context, record Record) error
	ListAll(ctx context.Context) (Records, error)
	ListByUser(ctx context.Context, userID string) (Records, error)
	ListByStatus(ctx context.Context, status Status) (Records, error)
}

// BorrowerDirectory keeps the borrower rows referenced by records.
// The identity provider stays authoritative, rows are only created, never overwritten.
type BorrowerDirectory interface {
	EnsureBorrower(ctx context.Context, borrower BorrowerSummary) error
}

// Catalog maintains the book titles of the inventory.
//
// UpdateBook moves AvailableCopies by the change of TotalCopies, so copies on loan stay on loan.
// It fails with ErrCopiesOnLoan if the new total is below the copies on loan.
// DeleteBook fails with ErrBookHasRecords while any borrowing record references the book.
type Catalog interface {
	AddBook(ctx context.Context, book Book) (uuid.UUID, error)
	UpdateBook(ctx context.Context, book Book) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// UnitOfWork exposes all storage operations bound to one transaction.
type UnitOfWork interface {
	InventoryLedger
	RecordStore
	BorrowerDirectory
	Catalog
}

// Transactor runs fn inside a transaction.
// The transaction is committed if fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
