package sqlengine

import (
	"context"
	"fmt"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// CreateSchema creates the books, users and borrowing records tables if they do not exist yet.
// The DDL follows the dialect the Store was created for.
func (s Store) CreateSchema(ctx context.Context) (err error) {
	ctx, op := s.startOperation(ctx, operationCreateSchema)
	defer func() { op.finish(err) }()

	statements, ddlErr := s.schemaStatements()
	if ddlErr != nil {
		return ddlErr
	}

	for _, statement := range statements {
		if _, execErr := s.executeStatement(ctx, statement, operationCreateSchema); execErr != nil {
			return execErr
		}
	}

	s.logOperation(ctx, logMsgSchemaCreated, logAttrDialect, s.dialect)

	return nil
}

func (s Store) schemaStatements() ([]string, error) {
	var idType, timeType, finesType, versionType string

	switch s.dialect {
	case DialectPostgres:
		idType, timeType, finesType, versionType = "UUID", "TIMESTAMPTZ", "NUMERIC(14,2)", "BIGINT"

	case DialectSQLite:
		// go-sqlite3 parses TIMESTAMP columns into time.Time, fines stay exact as TEXT.
		idType, timeType, finesType, versionType = "TEXT", "TIMESTAMP", "TEXT", "INTEGER"

	default:
		return nil, borrowing.ErrUnsupportedDialect
	}

	books, users, records := s.tables.books, s.tables.users, s.tables.records

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id %[2]s PRIMARY KEY,
	title TEXT NOT NULL,
	isbn TEXT NOT NULL UNIQUE,
	author TEXT NOT NULL DEFAULT '',
	publisher TEXT NOT NULL DEFAULT '',
	published_year INTEGER NOT NULL DEFAULT 0,
	total_copies INTEGER NOT NULL CHECK (total_copies >= 0),
	available_copies INTEGER NOT NULL CHECK (available_copies >= 0),
	CHECK (available_copies <= total_copies)
)`, books, idType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT ''
)`, users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id %[4]s PRIMARY KEY,
	book_id %[4]s NOT NULL REFERENCES %[2]s (id),
	user_id TEXT NOT NULL REFERENCES %[3]s (id),
	borrow_date %[5]s NOT NULL,
	due_date %[5]s NOT NULL,
	return_date %[5]s NULL,
	status TEXT NOT NULL CHECK (status IN ('Pending', 'Approved', 'Returned')),
	fines %[6]s NOT NULL DEFAULT '0',
	version %[7]s NOT NULL DEFAULT 1,
	CHECK ((status = 'Returned' AND return_date IS NOT NULL) OR (status <> 'Returned' AND return_date IS NULL))
)`, records, books, users, idType, timeType, finesType, versionType),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_id_idx ON %[1]s (user_id)`, records),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_status_idx ON %[1]s (status)`, records),
	}, nil
}
