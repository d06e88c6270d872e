package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver for database/sql and sqlx
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine"
)

const (
	// DriverPGX connects to Postgres through a pgx pool.
	DriverPGX = "pgx"

	// DriverPostgres connects to Postgres through database/sql and lib/pq.
	DriverPostgres = "postgres"

	// DriverSQLX connects to Postgres through sqlx and lib/pq.
	DriverSQLX = "sqlx"

	// DriverSQLite opens a SQLite database file.
	DriverSQLite = "sqlite3"

	pingTimeout = 5 * time.Second
)

// CloseFunc releases a database connection pool.
type CloseFunc func()

// PostgresPGXPoolConfig creates a pgxpool.Config for dsn with the service's pool limits.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	const maxConnections = int32(16)
	const minConnections = int32(2)
	const maxConnLifetime = time.Hour
	const maxConnIdleTime = time.Minute * 5
	const healthCheckPeriod = time.Minute
	const connectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing pgx pool config: %w", err)
	}

	dbConfig.MaxConns = maxConnections
	dbConfig.MinConns = minConnections
	dbConfig.MaxConnLifetime = maxConnLifetime
	dbConfig.MaxConnIdleTime = maxConnIdleTime
	dbConfig.HealthCheckPeriod = healthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = connectTimeout

	return dbConfig, nil
}

// PostgresPGXPool opens and pings a pgx pool.
func PostgresPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if pingErr := pool.Ping(pingCtx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", pingErr)
	}

	return pool, nil
}

// PostgresSQLDB opens and pings a database/sql pool using lib/pq.
func PostgresSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	const maxOpenConnections = 50
	const maxIdleConnections = 10
	const maxConnLifetime = time.Hour
	const maxConnIdleTime = time.Minute * 5

	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConnections)
	db.SetMaxIdleConns(maxIdleConnections)
	db.SetConnMaxLifetime(maxConnLifetime)
	db.SetConnMaxIdleTime(maxConnIdleTime)

	if pingErr := ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// PostgresSQLX opens and pings a sqlx pool using lib/pq.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	const maxOpenConnections = 50
	const maxIdleConnections = 10
	const maxConnLifetime = time.Hour
	const maxConnIdleTime = time.Minute * 5

	db, err := sqlx.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres via sqlx: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConnections)
	db.SetMaxIdleConns(maxIdleConnections)
	db.SetConnMaxLifetime(maxConnLifetime)
	db.SetConnMaxIdleTime(maxConnIdleTime)

	if pingErr := ping(ctx, db.DB); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// SQLiteDB opens a SQLite database. SQLite allows a single writer, so the pool is limited
// to one connection and writers queue in database/sql instead of failing with SQLITE_BUSY.
func SQLiteDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	if pingErr := ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// OpenStore connects to the database configured in cfg and creates the borrowing store on it.
func OpenStore(ctx context.Context, cfg AppConfig, options ...sqlengine.Option) (sqlengine.Store, CloseFunc, error) {
	switch cfg.DBDriver {
	case DriverPGX:
		pool, err := PostgresPGXPool(ctx, cfg.DBDSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromPGXPool(pool, options...)
		return finishOpen(store, err, pool.Close)

	case DriverPostgres:
		db, err := PostgresSQLDB(ctx, cfg.DBDSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(db, options...)
		return finishOpen(store, err, func() { _ = db.Close() })

	case DriverSQLX:
		db, err := PostgresSQLX(ctx, cfg.DBDSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(db, options...)
		return finishOpen(store, err, func() { _ = db.Close() })

	case DriverSQLite:
		db, err := SQLiteDB(ctx, cfg.DBDSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLite(db, options...)
		return finishOpen(store, err, func() { _ = db.Close() })

	default:
		return sqlengine.Store{}, nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.DBDriver)
	}
}

func finishOpen(store sqlengine.Store, err error, closeFn CloseFunc) (sqlengine.Store, CloseFunc, error) {
	if err != nil {
		closeFn()
		return sqlengine.Store{}, nil, err
	}

	return store, closeFn, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}
