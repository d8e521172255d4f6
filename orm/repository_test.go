package orm

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

type shop struct {
	ID           int32   `db:"id,primary,type:serial"`
	Name         string  `db:"name,notnull,type:text"`
	ProfitMargin float64 `db:"profit_margin,notnull,type:double precision,default:0"`
}

type shopActive struct {
	ID           Value[int32]
	Name         Value[string]
	ProfitMargin Value[float64]
}

func (a shopActive) Values() []ColumnValue {
	var vs []ColumnValue
	vs = Append(vs, "id", a.ID)
	vs = Append(vs, "name", a.Name)
	vs = Append(vs, "profit_margin", a.ProfitMargin)
	return vs
}

type worker struct {
	ID             int32   `db:"id,primary,type:serial"`
	Name           string  `db:"name,notnull,type:text"`
	ContactDetails *string `db:"contact_details,type:text"`
	ShopID         int32   `db:"bakery_id,notnull,type:integer,references:bakery.id"`
}

func newTables(t *testing.T) (*schema.Model, *schema.Model) {
	t.Helper()
	shops := schema.MustLoad("bakery", shop{})
	workers := schema.MustLoad("chef", worker{})
	require.NoError(t, schema.HasMany(shops, workers, "bakery_id"))
	return shops, workers
}

func ptr[T any](v T) *T { return &v }

func TestInsert(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults([]database.Row{{"id": int32(1)}})
	repo := NewRepository[shop](mock, shops)

	key, err := repo.Insert(context.Background(), shopActive{
		Name:         Set("Happy Bakery"),
		ProfitMargin: Set(0.0),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), key)

	log := mock.Log()
	require.Len(t, log, 1)
	assert.Equal(t, `INSERT INTO "bakery" ("name", "profit_margin") VALUES ($1, $2) RETURNING "id"`, log[0].SQL)
	assert.Equal(t, []any{"Happy Bakery", 0.0}, log[0].Args)
}

func TestInsertKeyFromSQLiteInteger(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.SQLite).
		AppendQueryResults([]database.Row{{"id": int64(42)}})
	repo := NewRepository[shop](mock, shops)

	key, err := repo.Insert(context.Background(), shopActive{Name: Set("x")})
	require.NoError(t, err)
	assert.Equal(t, int32(42), key)
	assert.Equal(t, `INSERT INTO "bakery" ("name") VALUES (?) RETURNING "id"`, mock.Log()[0].SQL)
}

func TestInsertRequiredFields(t *testing.T) {
	shops, workers := newTables(t)
	mock := database.NewMockExecutor(query.Postgres)

	_, err := NewRepository[shop](mock, shops).Insert(context.Background(), shopActive{ProfitMargin: Set(1.5)})
	require.Error(t, err)
	assert.True(t, database.IsConstraintError(err))
	assert.Contains(t, err.Error(), "bakery.name is required")

	_, err = NewRepository[worker](mock, workers).Insert(context.Background(), Values{
		{Column: "name", Value: "John"},
		{Column: "bakery_id", Value: nil},
	})
	assert.True(t, database.IsConstraintError(err))
	assert.Contains(t, err.Error(), "chef.bakery_id cannot be null")

	assert.Empty(t, mock.Log(), "rejected inserts must not reach the store")
}

func TestInsertStoreConstraint(t *testing.T) {
	_, workers := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	_, err := NewRepository[worker](mock, workers).Insert(context.Background(), Values{
		{Column: "name", Value: "John"},
		{Column: "bakery_id", Value: int32(999)},
	})
	assert.True(t, database.IsConstraintError(err))
}

func TestInsertNoKeyReturned(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).AppendQueryResults(nil)

	_, err := NewRepository[shop](mock, shops).Insert(context.Background(), shopActive{Name: Set("x")})
	assert.ErrorContains(t, err, "returned no id")
}

func TestUpdateByKey(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendExecResults(database.ExecResult{RowsAffected: 1})
	repo := NewRepository[shop](mock, shops)

	err := repo.UpdateByKey(context.Background(), 1, shopActive{
		ID:   Set(int32(5)),
		Name: Set("Sad Bakery"),
	})
	require.NoError(t, err)
	assert.Equal(t, query.Statement{
		SQL:  `UPDATE "bakery" SET "name" = $1 WHERE "bakery"."id" = $2`,
		Args: []any{"Sad Bakery", int32(1)},
	}, mock.Log()[0])
}

func TestUpdateByKeyMissing(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendExecResults(database.ExecResult{RowsAffected: 0})
	repo := NewRepository[shop](mock, shops)

	err := repo.UpdateByKey(context.Background(), 77, shopActive{Name: Set("Ghost")})
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
}

func TestUpdateByKeyNothingSet(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres)
	repo := NewRepository[shop](mock, shops)

	err := repo.UpdateByKey(context.Background(), 1, shopActive{ID: Set(int32(1))})
	require.Error(t, err)
	assert.True(t, query.IsQueryBuildError(err))
	assert.Empty(t, mock.Log())
}

func TestDelete(t *testing.T) {
	_, workers := newTables(t)
	mock := database.NewMockExecutor(query.SQLite).
		AppendExecResults(database.ExecResult{RowsAffected: 0}, database.ExecResult{RowsAffected: 3})
	repo := NewRepository[worker](mock, workers)

	require.NoError(t, repo.DeleteByKey(context.Background(), 12))
	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	assert.Equal(t, []query.Statement{
		{SQL: `DELETE FROM "chef" WHERE "chef"."id" = ?`, Args: []any{int32(12)}},
		{SQL: `DELETE FROM "chef"`},
	}, mock.Log())
}

func TestFindAllAndByKey(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults(
			[]database.Row{
				{"id": int64(1), "name": "Happy Bakery", "profit_margin": 0.0},
				{"id": int64(2), "name": "La Boulangerie", "profit_margin": float64(12)},
			},
			[]database.Row{{"id": int64(2), "name": "La Boulangerie", "profit_margin": float64(12)}},
			[]database.Row{},
		)
	repo := NewRepository[shop](mock, shops)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []shop{
		{ID: 1, Name: "Happy Bakery"},
		{ID: 2, Name: "La Boulangerie", ProfitMargin: 12},
	}, all)

	found, err := repo.FindByKey(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, &shop{ID: 2, Name: "La Boulangerie", ProfitMargin: 12}, found)

	missing, err := repo.FindByKey(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)

	log := mock.Log()
	assert.Equal(t, `SELECT "bakery"."id", "bakery"."name", "bakery"."profit_margin" FROM "bakery"`, log[0].SQL)
	assert.Equal(t, `SELECT "bakery"."id", "bakery"."name", "bakery"."profit_margin" FROM "bakery" WHERE "bakery"."id" = $1 LIMIT 1`, log[1].SQL)
	assert.Equal(t, []any{int32(3)}, log[2].Args)
}

func TestFindWhereNullableColumn(t *testing.T) {
	_, workers := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults([]database.Row{
			{"id": int64(1), "name": "John", "contact_details": nil, "bakery_id": int64(1)},
			{"id": int64(2), "name": "Jolie", "contact_details": "jolie@example.com", "bakery_id": int64(1)},
		})
	repo := NewRepository[worker](mock, workers)

	got, err := repo.FindWhere(context.Background(), query.C("chef", "name").Like("J%"))
	require.NoError(t, err)
	assert.Equal(t, []worker{
		{ID: 1, Name: "John", ShopID: 1},
		{ID: 2, Name: "Jolie", ContactDetails: ptr("jolie@example.com"), ShopID: 1},
	}, got)
}

func TestFindAllEmpty(t *testing.T) {
	shops, _ := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).AppendQueryResults(nil)

	all, err := NewRepository[shop](mock, shops).FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCount(t *testing.T) {
	_, workers := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults([]database.Row{{"count": int64(4)}})

	n, err := NewRepository[worker](mock, workers).Count(context.Background(), query.C("chef", "bakery_id").Eq(int32(1)))
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, `SELECT COUNT(*) AS "count" FROM "chef" WHERE "chef"."bakery_id" = $1`, mock.Log()[0].SQL)
}

func TestFindRelated(t *testing.T) {
	shops, workers := newTables(t)
	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults(
			[]database.Row{
				{"id": int64(3), "name": "Jolie", "contact_details": nil, "bakery_id": int64(7)},
				{"id": int64(4), "name": "Charles", "contact_details": nil, "bakery_id": int64(7)},
			},
			[]database.Row{{"id": int64(7), "name": "La Boulangerie", "profit_margin": 0.0}},
		)
	ctx := context.Background()

	chefs, err := FindRelated[shop, worker](ctx, mock, shops, workers, shop{ID: 7, Name: "La Boulangerie"})
	require.NoError(t, err)
	assert.Len(t, chefs, 2)

	owner, err := FindRelated[worker, shop](ctx, mock, workers, shops, chefs[0])
	require.NoError(t, err)
	assert.Equal(t, []shop{{ID: 7, Name: "La Boulangerie"}}, owner)

	log := mock.Log()
	assert.Equal(t, query.Statement{
		SQL:  `SELECT "chef"."id", "chef"."name", "chef"."contact_details", "chef"."bakery_id" FROM "chef" WHERE "chef"."bakery_id" = $1`,
		Args: []any{int32(7)},
	}, log[0])
	assert.Equal(t, query.Statement{
		SQL:  `SELECT "bakery"."id", "bakery"."name", "bakery"."profit_margin" FROM "bakery" WHERE "bakery"."id" = $1`,
		Args: []any{int32(7)},
	}, log[1])
}

func TestFindRelatedUndeclared(t *testing.T) {
	shops := schema.MustLoad("bakery", shop{})
	workers := schema.MustLoad("chef", worker{})
	mock := database.NewMockExecutor(query.Postgres)

	_, err := FindRelated[shop, worker](context.Background(), mock, shops, workers, shop{ID: 1})
	assert.ErrorContains(t, err, "no relation from bakery to chef")
}

func TestSelectAsAliases(t *testing.T) {
	shops, workers := newTables(t)
	type pair struct {
		Chef   string `db:"chef_name"`
		Bakery string `db:"bakery_name"`
	}
	mock := database.NewMockExecutor(query.SQLite).
		AppendQueryResults([]database.Row{{"chef_name": "Charles", "bakery_name": "La Boulangerie"}})

	got, err := SelectAs[pair](context.Background(), mock,
		query.Select(workers, query.C("chef", "name").As("chef_name"), query.C("bakery", "name").As("bakery_name")).
			InnerJoin(shops, query.C("chef", "bakery_id"), query.C("bakery", "id")).
			OrderBy(query.Asc(query.C("chef", "name"))))
	require.NoError(t, err)
	assert.Equal(t, []pair{{Chef: "Charles", Bakery: "La Boulangerie"}}, got)
	assert.Equal(t,
		`SELECT "chef"."name" AS "chef_name", "bakery"."name" AS "bakery_name" FROM "chef" INNER JOIN "bakery" ON "chef"."bakery_id" = "bakery"."id" ORDER BY "chef"."name" ASC`,
		mock.Log()[0].SQL)
}

func TestAppend(t *testing.T) {
	var vs []ColumnValue
	vs = Append(vs, "a", NotSet[string]())
	vs = Append(vs, "b", Set[*string](nil))
	vs = Append(vs, "c", Set(ptr("x")))
	require.Len(t, vs, 2)
	assert.Equal(t, ColumnValue{Column: "b", Value: nil}, vs[0])
	assert.Equal(t, "c", vs[1].Column)

	v, ok := Set(3).Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, NotSet[int]().IsSet())
}
