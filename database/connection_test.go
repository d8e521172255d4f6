package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/utils"
)

func TestConnectSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, utils.Config{Dialect: utils.DialectSQLite, Database: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, query.SQLite, db.Dialect())
	require.NoError(t, db.Ping(ctx))

	_, err = db.Exec(ctx, query.Statement{SQL: `CREATE TABLE "note" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "body" TEXT)`})
	require.NoError(t, err)

	rows, err := db.Query(ctx, query.Statement{
		SQL:  `INSERT INTO "note" ("body") VALUES (?) RETURNING "id", "body"`,
		Args: []any{"proof the dough"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Row{{"id": int64(1), "body": "proof the dough"}}, rows)

	res, err := db.Exec(ctx, query.Statement{SQL: `DELETE FROM "note"`})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.RowsAffected)
}

func TestConnectSQLiteConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, utils.Config{Dialect: utils.DialectSQLite, Database: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ctx, query.Statement{SQL: `CREATE TABLE "note" ("id" INTEGER PRIMARY KEY, "body" TEXT NOT NULL)`})
	require.NoError(t, err)

	_, err = db.Exec(ctx, query.Statement{SQL: `INSERT INTO "note" ("id") VALUES (?)`, Args: []any{1}})
	require.Error(t, err)
	assert.True(t, IsConstraintError(err), "got %v", err)
}

func TestConnectFailures(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, utils.Config{Dialect: utils.DialectPostgres, PostgresURL: "postgres://%zz", Database: "x"})
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))

	_, err = Connect(ctx, utils.Config{Dialect: "mysql"})
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqliteDSN(":memory:"))
	assert.Equal(t, "file:bakery.db?cache=shared&_pragma=foreign_keys(1)", sqliteDSN("file:bakery.db?cache=shared"))
}

func TestConnectSQLiteForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, utils.Config{Dialect: utils.DialectSQLite, Database: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ctx, query.Statement{SQL: `CREATE TABLE "parent" ("id" INTEGER PRIMARY KEY)`})
	require.NoError(t, err)
	_, err = db.Exec(ctx, query.Statement{SQL: `CREATE TABLE "child" ("id" INTEGER PRIMARY KEY, "parent_id" INTEGER NOT NULL REFERENCES "parent" ("id"))`})
	require.NoError(t, err)

	_, err = db.Exec(ctx, query.Statement{SQL: `INSERT INTO "child" ("parent_id") VALUES (?)`, Args: []any{42}})
	assert.True(t, IsConstraintError(err), "got %v", err)
}
