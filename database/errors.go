package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
)

// ConnectionError reports that the store could not be reached or the
// connection broke while a statement was in flight.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// ConstraintError reports a required value that is missing or a constraint
// the store rejected (not null, foreign key, unique, check).
type ConstraintError struct {
	Msg string
	Err error
}

func (e *ConstraintError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return fmt.Sprintf("constraint failed: %v", e.Err)
	}
	return fmt.Sprintf("constraint failed: %s", e.Msg)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// NewConstraintError returns a ConstraintError that did not come from the
// store.
func NewConstraintError(format string, args ...any) *ConstraintError {
	return &ConstraintError{Msg: fmt.Sprintf(format, args...)}
}

// IsConstraintError reports whether err is or wraps a ConstraintError.
func IsConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}

// NotFoundError reports a keyed write that matched no row.
type NotFoundError struct {
	Table string
	Key   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (id=%v)", e.Table, e.Key)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// PostgreSQL SQLSTATE classes.
const (
	pgClassConnection = "08"
	pgClassConstraint = "23"
)

// sqliteConstraint is the primary result code SQLITE_CONSTRAINT; extended
// codes keep it in the low byte.
const sqliteConstraint = 19

// classify maps driver errors onto the package error types. Errors it does
// not recognize are returned unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsConnectionError(err) || IsConstraintError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, pgClassConstraint):
			return &ConstraintError{Msg: pgErr.Message, Err: err}
		case strings.HasPrefix(pgErr.Code, pgClassConnection):
			return &ConnectionError{Err: err}
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqliteConstraint {
		return &ConstraintError{Err: err}
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return &ConnectionError{Err: err}
	}

	if strings.Contains(err.Error(), "constraint failed") {
		return &ConstraintError{Err: err}
	}
	return err
}
