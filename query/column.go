package query

import "github.com/ridoystarlord/bakery/schema"

// Column references a table column, optionally qualified and aliased.
type Column struct {
	Table string
	Name  string
	Alias string
}

// C returns a column qualified by its table.
func C(table, name string) Column {
	return Column{Table: table, Name: name}
}

// As returns a copy of the column selected under alias.
func (c Column) As(alias string) Column {
	c.Alias = alias
	return c
}

// Columns returns every column of m, qualified, in declaration order.
func Columns(m *schema.Model) []Column {
	names := m.ColumnNames()
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, C(m.TableName, name))
	}
	return cols
}

type Op string

const (
	OpEQ      Op = "="
	OpNEQ     Op = "<>"
	OpGT      Op = ">"
	OpGTE     Op = ">="
	OpLT      Op = "<"
	OpLTE     Op = "<="
	OpLike    Op = "LIKE"
	OpIn      Op = "IN"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Condition is a single column predicate. Conditions passed together to
// Where are joined with AND.
type Condition struct {
	Column Column
	Op     Op
	Value  any
}

func (c Column) Eq(v any) Condition    { return Condition{Column: c, Op: OpEQ, Value: v} }
func (c Column) NotEq(v any) Condition { return Condition{Column: c, Op: OpNEQ, Value: v} }
func (c Column) GT(v any) Condition    { return Condition{Column: c, Op: OpGT, Value: v} }
func (c Column) GTE(v any) Condition   { return Condition{Column: c, Op: OpGTE, Value: v} }
func (c Column) LT(v any) Condition    { return Condition{Column: c, Op: OpLT, Value: v} }
func (c Column) LTE(v any) Condition   { return Condition{Column: c, Op: OpLTE, Value: v} }
func (c Column) Like(pattern string) Condition {
	return Condition{Column: c, Op: OpLike, Value: pattern}
}
func (c Column) IsNull() Condition  { return Condition{Column: c, Op: OpIsNull} }
func (c Column) NotNull() Condition { return Condition{Column: c, Op: OpNotNull} }
func (c Column) In(vs ...any) Condition {
	return Condition{Column: c, Op: OpIn, Value: vs}
}

// Order is one ORDER BY term.
type Order struct {
	Column Column
	Desc   bool
}

func Asc(c Column) Order  { return Order{Column: c} }
func Desc(c Column) Order { return Order{Column: c, Desc: true} }
