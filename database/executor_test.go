package database

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/bakery/query"
)

func newSQLMock(t *testing.T) (*SQLExecutor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLExecutor(query.Postgres, db), mock
}

func TestSQLExecutorQuery(t *testing.T) {
	exec, mock := newSQLMock(t)
	stmt := query.Statement{
		SQL:  `SELECT "chef"."id", "chef"."name", "chef"."contact_details" FROM "chef" WHERE "chef"."bakery_id" = $1`,
		Args: []any{int32(1)},
	}
	mock.ExpectQuery(stmt.SQL).
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_details"}).
			AddRow(int64(1), []byte("John"), nil).
			AddRow(int64(2), "Jolie", "jolie@example.com"))

	rows, err := exec.Query(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"id": int64(1), "name": "John", "contact_details": nil},
		{"id": int64(2), "name": "Jolie", "contact_details": "jolie@example.com"},
	}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutorQueryEmpty(t *testing.T) {
	exec, mock := newSQLMock(t)
	mock.ExpectQuery(`SELECT "bakery"."id" FROM "bakery"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := exec.Query(context.Background(), query.Statement{SQL: `SELECT "bakery"."id" FROM "bakery"`})
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutorExec(t *testing.T) {
	exec, mock := newSQLMock(t)
	mock.ExpectExec(`DELETE FROM "chef" WHERE "chef"."id" = $1`).
		WithArgs(int32(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := exec.Exec(context.Background(), query.Statement{
		SQL:  `DELETE FROM "chef" WHERE "chef"."id" = $1`,
		Args: []any{int32(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, ExecResult{RowsAffected: 1}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutorClassifiesErrors(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", Message: `insert or update on table "chef" violates foreign key constraint`}
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"foreign key", fk, IsConstraintError},
		{"not null", &pgconn.PgError{Code: "23502"}, IsConstraintError},
		{"admin shutdown", &pgconn.PgError{Code: "08006"}, IsConnectionError},
		{"network", refused, IsConnectionError},
		{"sqlite text", errors.New("NOT NULL constraint failed: bakery.name"), IsConstraintError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, mock := newSQLMock(t)
			mock.ExpectExec(`INSERT INTO "chef" DEFAULT VALUES`).WillReturnError(tt.err)

			_, err := exec.Exec(context.Background(), query.Statement{SQL: `INSERT INTO "chef" DEFAULT VALUES`})
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected classification: %v", err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSQLExecutorPassesThroughUnknownErrors(t *testing.T) {
	exec, mock := newSQLMock(t)
	syntax := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	mock.ExpectQuery(`SELEC 1`).WillReturnError(syntax)

	_, err := exec.Query(context.Background(), query.Statement{SQL: `SELEC 1`})
	require.Error(t, err)
	assert.False(t, IsConstraintError(err))
	assert.False(t, IsConnectionError(err))
	assert.ErrorIs(t, err, syntax)
}

func TestClassifyKeepsContextErrors(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.Equal(t, context.Canceled, classify(context.Canceled))
	wrapped := &ConnectionError{Err: errors.New("gone")}
	assert.Same(t, wrapped, classify(wrapped))
}
