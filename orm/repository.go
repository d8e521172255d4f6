package orm

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

// Repository reads and writes the rows of one table as values of M. It
// holds no state besides the executor, so every call goes to the store.
type Repository[M any] struct {
	exec  database.Executor
	table *schema.Model
}

func NewRepository[M any](exec database.Executor, table *schema.Model) *Repository[M] {
	return &Repository[M]{exec: exec, table: table}
}

func (r *Repository[M]) Table() *schema.Model { return r.table }

func (r *Repository[M]) pk() query.Column {
	return query.C(r.table.TableName, r.table.PrimaryKey().Name)
}

// Insert writes the set fields of partial as a new row and returns the key
// the store assigned to it.
func (r *Repository[M]) Insert(ctx context.Context, partial ActiveModel) (int32, error) {
	values := partial.Values()
	if err := r.checkRequired(values); err != nil {
		return 0, err
	}

	pk := r.table.PrimaryKey().Name
	b := query.Insert(r.table).Returning(pk)
	for _, v := range values {
		b.Set(v.Column, v.Value)
	}
	stmt, err := b.Build(r.exec.Dialect())
	if err != nil {
		return 0, err
	}

	rows, err := r.exec.Query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("insert into %s returned no %s", r.table.TableName, pk)
	}
	key, err := cast.ToInt32E(rows[0][pk])
	if err != nil {
		return 0, fmt.Errorf("insert into %s: read %s: %w", r.table.TableName, pk, err)
	}
	return key, nil
}

// checkRequired rejects inserts that leave a NOT NULL column without a
// default unset or set to NULL.
func (r *Repository[M]) checkRequired(values []ColumnValue) error {
	for _, col := range r.table.Columns {
		if col.Primary || !col.NotNull || col.Default != nil {
			continue
		}
		found := false
		for _, v := range values {
			if v.Column != col.Name {
				continue
			}
			found = true
			if v.Value == nil {
				return database.NewConstraintError("%s.%s cannot be null", r.table.TableName, col.Name)
			}
		}
		if !found {
			return database.NewConstraintError("%s.%s is required", r.table.TableName, col.Name)
		}
	}
	return nil
}

// UpdateByKey overwrites the set fields of partial on the row with the
// given key. The primary key itself is never updated.
func (r *Repository[M]) UpdateByKey(ctx context.Context, key int32, partial ActiveModel) error {
	pk := r.table.PrimaryKey().Name
	b := query.Update(r.table).Where(r.pk().Eq(key))
	for _, v := range partial.Values() {
		if v.Column == pk {
			continue
		}
		b.Set(v.Column, v.Value)
	}
	stmt, err := b.Build(r.exec.Dialect())
	if err != nil {
		return err
	}

	res, err := r.exec.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return &database.NotFoundError{Table: r.table.TableName, Key: key}
	}
	return nil
}

// DeleteByKey removes the row with the given key. Deleting a missing key
// is not an error.
func (r *Repository[M]) DeleteByKey(ctx context.Context, key int32) error {
	stmt, err := query.Delete(r.table).Where(r.pk().Eq(key)).Build(r.exec.Dialect())
	if err != nil {
		return err
	}
	_, err = r.exec.Exec(ctx, stmt)
	return err
}

// DeleteAll removes every row and reports how many were removed.
func (r *Repository[M]) DeleteAll(ctx context.Context) (int64, error) {
	stmt, err := query.Delete(r.table).Build(r.exec.Dialect())
	if err != nil {
		return 0, err
	}
	res, err := r.exec.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// FindAll returns every row in store order.
func (r *Repository[M]) FindAll(ctx context.Context) ([]M, error) {
	return r.FindWhere(ctx)
}

// FindByKey returns the row with the given key, or nil if there is none.
func (r *Repository[M]) FindByKey(ctx context.Context, key int32) (*M, error) {
	return r.FindOne(ctx, r.pk().Eq(key))
}

// FindWhere returns the rows matching all conds.
func (r *Repository[M]) FindWhere(ctx context.Context, conds ...query.Condition) ([]M, error) {
	return SelectAs[M](ctx, r.exec, query.Select(r.table).Where(conds...))
}

// FindOne returns the first row matching all conds, or nil.
func (r *Repository[M]) FindOne(ctx context.Context, conds ...query.Condition) (*M, error) {
	found, err := SelectAs[M](ctx, r.exec, query.Select(r.table).Where(conds...).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// Count returns the number of rows matching all conds.
func (r *Repository[M]) Count(ctx context.Context, conds ...query.Condition) (int64, error) {
	stmt, err := query.Select(r.table).Count().Where(conds...).Build(r.exec.Dialect())
	if err != nil {
		return 0, err
	}
	rows, err := r.exec.Query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return cast.ToInt64E(rows[0]["count"])
}
