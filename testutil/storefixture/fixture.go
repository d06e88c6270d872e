package storefixture

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine"
)

// PostgresDSNEnv names the environment variable that enables the Postgres backed tests.
const PostgresDSNEnv = "LIBRARY_TEST_POSTGRES_DSN"

const setupTimeout = 5 * time.Second

// concurrentSQLiteConns is the pool size of NewConcurrentSQLiteStore.
const concurrentSQLiteConns = 8

// NewSQLiteStore creates a store on a private in-memory SQLite database.
// The database lives as long as the test. It has a single connection, so transactions never
// overlap; tests that race writers use NewConcurrentSQLiteStore or NewPostgresStore.
func NewSQLiteStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:library_%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "opening sqlite in test setup")

	// One connection keeps the in-memory database alive.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return newSQLiteStore(t, db, options...)
}

// NewConcurrentSQLiteStore creates a store on a WAL mode SQLite file in a temp dir, served by a
// pool of connections. Transactions on different connections overlap in time and contend for
// the write lock, which they wait for through the busy timeout.
func NewConcurrentSQLiteStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path)

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "opening sqlite in test setup")

	db.SetMaxOpenConns(concurrentSQLiteConns)
	t.Cleanup(func() { _ = db.Close() })

	return newSQLiteStore(t, db, options...)
}

func newSQLiteStore(t testing.TB, db *sql.DB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	store, err := sqlengine.NewStoreFromSQLite(db, options...)
	require.NoError(t, err, "creating the sqlite store")

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	require.NoError(t, store.CreateSchema(ctx), "creating the schema")

	return store
}

// NewPostgresStore creates a store on a pgx pool for the database named by LIBRARY_TEST_POSTGRES_DSN.
// All tables are emptied before the store is returned.
func NewPostgresStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", PostgresDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connecting to postgres in test setup")
	t.Cleanup(pool.Close)

	store, err := sqlengine.NewStoreFromPGXPool(pool, options...)
	require.NoError(t, err, "creating the postgres store")
	require.NoError(t, store.CreateSchema(ctx), "creating the schema")

	_, err = pool.Exec(ctx, "TRUNCATE borrowing_records, users, books")
	require.NoError(t, err, "cleaning up tables")

	return store
}

// GivenBook adds a book with the given number of copies and returns it.
func GivenBook(t testing.TB, store borrowing.Catalog, totalCopies int) borrowing.Book {
	t.Helper()

	book := borrowing.Book{
		ID:            uuid.New(),
		Title:         "Title " + uuid.NewString()[:8],
		ISBN:          "978-" + uuid.NewString()[:13],
		Author:        "Some Author",
		Publisher:     "Some Publisher",
		PublishedYear: 2001,
		TotalCopies:   totalCopies,
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	_, err := store.AddBook(ctx, book)
	require.NoError(t, err, "adding a book in test setup")

	book.AvailableCopies = totalCopies

	return book
}

// GivenBorrower inserts the borrower row and returns it.
func GivenBorrower(t testing.TB, store borrowing.BorrowerDirectory, userID string) borrowing.BorrowerSummary {
	t.Helper()

	borrower := borrowing.BorrowerSummary{
		UserID:   userID,
		FullName: "Reader " + userID,
		Email:    userID + "@library.test",
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	require.NoError(t, store.EnsureBorrower(ctx, borrower), "adding a borrower in test setup")

	return borrower
}

// AvailableCopies reads the current available copies of a book.
func AvailableCopies(t testing.TB, store borrowing.InventoryLedger, bookID uuid.UUID) int {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	book, err := store.GetBook(ctx, bookID)
	require.NoError(t, err, "reading the book")

	return book.AvailableCopies
}
