package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/utils"
)

// DB is a live connection to the store. It is an Executor.
type DB struct {
	*SQLExecutor
	sqlDB *sql.DB
	pool  *pgxpool.Pool // nil unless the dialect is postgres
}

// Connect opens the store described by cfg and checks that it answers.
// Any failure is a ConnectionError.
func Connect(ctx context.Context, cfg utils.Config) (*DB, error) {
	switch cfg.Dialect {
	case utils.DialectPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, &ConnectionError{Err: fmt.Errorf("unable to create connection pool: %w", err)}
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, &ConnectionError{Err: fmt.Errorf("unable to ping database: %w", err)}
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		return &DB{
			SQLExecutor: NewSQLExecutor(query.Postgres, sqlDB),
			sqlDB:       sqlDB,
			pool:        pool,
		}, nil

	case utils.DialectSQLite:
		sqlDB, err := sql.Open("sqlite", sqliteDSN(cfg.DSN()))
		if err != nil {
			return nil, &ConnectionError{Err: fmt.Errorf("unable to open sqlite database: %w", err)}
		}
		// Every connection to ":memory:" is a fresh database.
		sqlDB.SetMaxOpenConns(1)
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, &ConnectionError{Err: fmt.Errorf("unable to ping database: %w", err)}
		}
		return OpenDB(query.SQLite, sqlDB), nil

	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// OpenDB wraps an already opened *sql.DB.
func OpenDB(dialect string, sqlDB *sql.DB) *DB {
	return &DB{
		SQLExecutor: NewSQLExecutor(dialect, sqlDB),
		sqlDB:       sqlDB,
	}
}

// Ping checks that the store still answers.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.sqlDB.PingContext(ctx); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

// Close releases the connection and, for postgres, the pool behind it.
func (db *DB) Close() error {
	err := db.sqlDB.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}
