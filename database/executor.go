package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ridoystarlord/bakery/query"
)

// Row is one result row keyed by column name or alias.
type Row map[string]any

// ExecResult describes the outcome of a statement that returns no rows.
type ExecResult struct {
	RowsAffected int64
}

// Executor is the single seam through which every statement reaches the
// store. SQLExecutor talks to a live database, MockExecutor replays
// scripted results.
type Executor interface {
	Exec(ctx context.Context, stmt query.Statement) (ExecResult, error)
	Query(ctx context.Context, stmt query.Statement) ([]Row, error)
	Dialect() string
}

// ExecQuerier wraps the standard Exec and Query methods of *sql.DB, *sql.Tx
// and *sql.Conn.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLExecutor runs statements through database/sql.
type SQLExecutor struct {
	db      ExecQuerier
	dialect string
}

func NewSQLExecutor(dialect string, db ExecQuerier) *SQLExecutor {
	return &SQLExecutor{db: db, dialect: dialect}
}

func (e *SQLExecutor) Dialect() string { return e.dialect }

func (e *SQLExecutor) Exec(ctx context.Context, stmt query.Statement) (ExecResult, error) {
	res, err := e.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return ExecResult{}, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, fmt.Errorf("rows affected: %w", err)
	}
	return ExecResult{RowsAffected: n}, nil
}

func (e *SQLExecutor) Query(ctx context.Context, stmt query.Statement) ([]Row, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}
