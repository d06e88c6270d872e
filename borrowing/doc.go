// Package borrowing provides the core abstractions and types for tracking the
// borrowing lifecycle of library books.
//
// This package defines the data model shared by every storage engine and by the
// application layer: borrowing records and their statuses, the catalog view of
// a book, the storage contracts and the common error definitions.
//
// The storage contracts are split along the two owners of mutable state:
//   - InventoryLedger: owns the available-copy counter of each book
//   - RecordStore: owns the persisted borrowing records
//
// Both are reachable inside a single transaction through a UnitOfWork, which a
// Transactor hands out:
//
//	err := store.WithinTransaction(ctx, func(ctx context.Context, uow borrowing.UnitOfWork) error {
//		reserved, err := uow.TryReserveCopy(ctx, bookID)
//		if err != nil || !reserved {
//			return err
//		}
//		_, err = uow.Create(ctx, record)
//		return err
//	})
//
// Returning an error from the callback rolls back every change made through
// the UnitOfWork, including copy reservations.
package borrowing
