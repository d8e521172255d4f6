package orm

import (
	"context"
	"fmt"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

// FindRelated returns the childTable rows related to parent through the
// relation declared on parentTable. It works in both directions: a bakery
// finds its chefs and a chef finds its bakery.
func FindRelated[P, C any](ctx context.Context, exec database.Executor, parentTable, childTable *schema.Model, parent P) ([]C, error) {
	rel, ok := parentTable.Relation(childTable.TableName)
	if !ok {
		return nil, fmt.Errorf("no relation from %s to %s", parentTable.TableName, childTable.TableName)
	}
	v, err := parentTable.FieldValue(parent, rel.FromColumn)
	if err != nil {
		return nil, err
	}
	if isNil(v) {
		return []C{}, nil
	}
	return SelectAs[C](ctx, exec, query.Select(childTable).
		Where(query.C(childTable.TableName, rel.ToColumn).Eq(v)))
}

// SelectAs runs b with the executor's dialect and maps each row into T by
// column name or alias.
func SelectAs[T any](ctx context.Context, exec database.Executor, b *query.SelectBuilder) ([]T, error) {
	stmt, err := b.Build(exec.Dialect())
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	table := ""
	if t := b.Table(); t != nil {
		table = t.TableName
	}
	return decodeRows[T](table, rows)
}
