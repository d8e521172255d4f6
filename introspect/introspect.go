package introspect

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

type ExistingTable struct {
	TableName string
	Columns   []ExistingColumn
}

type ExistingColumn struct {
	ColumnName string
	DataType   string
	IsNullable bool
}

// Column returns the named column.
func (t *ExistingTable) Column(name string) (ExistingColumn, bool) {
	for _, c := range t.Columns {
		if c.ColumnName == name {
			return c, true
		}
	}
	return ExistingColumn{}, false
}

func columnsStatement(dialect, tableName string) (query.Statement, error) {
	switch dialect {
	case query.Postgres:
		return query.Statement{
			SQL: `
	SELECT
		c.column_name,
		c.data_type,
		(c.is_nullable = 'YES') AS is_nullable
	FROM information_schema.columns c
	WHERE c.table_schema = 'public' AND c.table_name = $1
	ORDER BY c.ordinal_position;
	`,
			Args: []any{tableName},
		}, nil
	case query.SQLite:
		return query.Statement{
			SQL: `
	SELECT
		name AS column_name,
		type AS data_type,
		("notnull" = 0 AND pk = 0) AS is_nullable
	FROM pragma_table_info(?)
	ORDER BY cid;
	`,
			Args: []any{tableName},
		}, nil
	default:
		return query.Statement{}, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// IntrospectTable reads the columns of tableName from the store. It
// returns nil when the table does not exist.
func IntrospectTable(ctx context.Context, exec database.Executor, tableName string) (*ExistingTable, error) {
	stmt, err := columnsStatement(exec.Dialect(), tableName)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", tableName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := &ExistingTable{TableName: tableName}
	for _, row := range rows {
		var col ExistingColumn
		if col.ColumnName, err = cast.ToStringE(row["column_name"]); err != nil {
			return nil, fmt.Errorf("scanning column: %v", err)
		}
		col.DataType = cast.ToString(row["data_type"])
		if col.IsNullable, err = cast.ToBoolE(row["is_nullable"]); err != nil {
			return nil, fmt.Errorf("scanning column %s: %v", col.ColumnName, err)
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}

// Mismatch is one difference between a table descriptor and the store.
type Mismatch struct {
	Table   string
	Column  string
	Message string
}

func (m Mismatch) String() string {
	if m.Column == "" {
		return fmt.Sprintf("%s: %s", m.Table, m.Message)
	}
	return fmt.Sprintf("%s.%s: %s", m.Table, m.Column, m.Message)
}

// Verify compares models with the tables in the store and reports missing
// tables, missing columns and nullability differences. Extra columns in
// the store are ignored.
func Verify(ctx context.Context, exec database.Executor, models []*schema.Model) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, m := range models {
		existing, err := IntrospectTable(ctx, exec, m.TableName)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			mismatches = append(mismatches, Mismatch{Table: m.TableName, Message: "table does not exist"})
			continue
		}
		for _, col := range m.Columns {
			ec, ok := existing.Column(col.Name)
			if !ok {
				mismatches = append(mismatches, Mismatch{Table: m.TableName, Column: col.Name, Message: "column does not exist"})
				continue
			}
			if col.NotNull && ec.IsNullable {
				mismatches = append(mismatches, Mismatch{Table: m.TableName, Column: col.Name, Message: "column is nullable in the store"})
			}
		}
	}
	return mismatches, nil
}
