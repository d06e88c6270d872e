// Package adapters provide database adapter implementations for the relational borrowing store.
//
// Supported connection types are pgxpool.Pool, sql.DB (lib/pq or mattn/go-sqlite3) and sqlx.DB.
// Each adapter can run statements directly or open a transaction that exposes the same
// Querier contract, so the store code is identical inside and outside of transactions.
package adapters
