// Package storefixture creates borrowing stores for tests.
//
// NewSQLiteStore returns a store on a private in-memory SQLite database with the schema applied.
// NewPostgresStore does the same against the database named by LIBRARY_TEST_POSTGRES_DSN and skips
// the test when the variable is not set.
package storefixture
