// Package sqlengine provides a relational implementation of the borrowing storage contracts.
//
// One Store serves as InventoryLedger, RecordStore, BorrowerDirectory and Catalog, and hands out
// transaction-bound views of itself through WithinTransaction.
//
// Supported connections:
//   - pgxpool.Pool (PostgreSQL, recommended)
//   - sql.DB with the lib/pq driver (PostgreSQL)
//   - sqlx.DB (PostgreSQL)
//   - sql.DB with the mattn/go-sqlite3 driver (SQLite, for development and tests)
//
// All statements are rendered with goqu for the matching dialect.
//
// Concurrency model:
//
// The available-copy counter is only changed by conditional UPDATE statements
// ("decrement where available_copies > 0", "increment where available_copies < total_copies"),
// so reservations are linearizable per book without any in-process lock.
// Borrowing records carry a version column; Update only succeeds if the version it read is still current,
// otherwise it returns borrowing.ErrConcurrentModification.
//
// Basic usage:
//
//	store, err := sqlengine.NewStoreFromPGXPool(pool, sqlengine.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	err = store.WithinTransaction(ctx, func(ctx context.Context, uow borrowing.UnitOfWork) error {
//		...
//	})
package sqlengine
