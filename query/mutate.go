package query

import (
	"fmt"

	"github.com/ridoystarlord/bakery/schema"
)

type assignment struct {
	column string
	value  any
}

func setColumn(table *schema.Model, sets []assignment, column string, v any, reasons []string) ([]assignment, []string) {
	if !table.HasColumn(column) {
		return sets, append(reasons, fmt.Sprintf("unknown column %s.%s", table.TableName, column))
	}
	for _, a := range sets {
		if a.column == column {
			return sets, append(reasons, fmt.Sprintf("column %s set twice", column))
		}
	}
	return append(sets, assignment{column: column, value: v}), reasons
}

// InsertBuilder builds a single-row INSERT.
type InsertBuilder struct {
	table     *schema.Model
	sets      []assignment
	returning []string
	reasons   []string
}

func Insert(table *schema.Model) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set assigns a value to column. Columns never set take the store default.
func (b *InsertBuilder) Set(column string, v any) *InsertBuilder {
	if b.table != nil {
		b.sets, b.reasons = setColumn(b.table, b.sets, column, v, b.reasons)
	}
	return b
}

// Returning asks the store to send back the given columns of the new row.
func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *InsertBuilder) Build(dialect string) (Statement, error) {
	if b.table == nil {
		return Statement{}, &QueryBuildError{Op: "insert", Reason: "missing table"}
	}
	reasons := b.reasons
	for _, c := range b.returning {
		if !b.table.HasColumn(c) {
			reasons = append(reasons, fmt.Sprintf("unknown column %s.%s", b.table.TableName, c))
		}
	}
	w, err := newWriter(dialect)
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	if err := collect("insert", b.table.TableName, reasons); err != nil {
		return Statement{}, err
	}

	w.WriteString("INSERT INTO ")
	w.ident(b.table.TableName)
	if len(b.sets) == 0 {
		w.WriteString(" DEFAULT VALUES")
	} else {
		w.WriteString(" (")
		for i, a := range b.sets {
			if i > 0 {
				w.WriteString(", ")
			}
			w.ident(a.column)
		}
		w.WriteString(") VALUES (")
		for i, a := range b.sets {
			if i > 0 {
				w.WriteString(", ")
			}
			w.arg(a.value)
		}
		w.WriteString(")")
	}
	if len(b.returning) > 0 {
		w.WriteString(" RETURNING ")
		for i, c := range b.returning {
			if i > 0 {
				w.WriteString(", ")
			}
			w.ident(c)
		}
	}
	return w.statement(), nil
}

// UpdateBuilder builds an UPDATE of one table.
type UpdateBuilder struct {
	table   *schema.Model
	sets    []assignment
	where   []Condition
	reasons []string
}

func Update(table *schema.Model) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	if b.table != nil {
		b.sets, b.reasons = setColumn(b.table, b.sets, column, v, b.reasons)
	}
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) Build(dialect string) (Statement, error) {
	if b.table == nil {
		return Statement{}, &QueryBuildError{Op: "update", Reason: "missing table"}
	}
	reasons := b.reasons
	if len(b.sets) == 0 {
		reasons = append(reasons, "no columns to set")
	}
	conds, reasons := newScope(b.table).qualifyConditions(b.where, reasons)
	w, err := newWriter(dialect)
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	if err := collect("update", b.table.TableName, reasons); err != nil {
		return Statement{}, err
	}

	w.WriteString("UPDATE ")
	w.ident(b.table.TableName)
	w.WriteString(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			w.WriteString(", ")
		}
		w.ident(a.column)
		w.WriteString(" = ")
		w.arg(a.value)
	}
	if len(conds) > 0 {
		w.WriteString(" WHERE ")
		w.conditions(conds)
	}
	return w.statement(), nil
}

// DeleteBuilder builds a DELETE from one table. Without conditions every
// row is removed.
type DeleteBuilder struct {
	table *schema.Model
	where []Condition
}

func Delete(table *schema.Model) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *DeleteBuilder) Build(dialect string) (Statement, error) {
	if b.table == nil {
		return Statement{}, &QueryBuildError{Op: "delete", Reason: "missing table"}
	}
	conds, reasons := newScope(b.table).qualifyConditions(b.where, nil)
	w, err := newWriter(dialect)
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	if err := collect("delete", b.table.TableName, reasons); err != nil {
		return Statement{}, err
	}

	w.WriteString("DELETE FROM ")
	w.ident(b.table.TableName)
	if len(conds) > 0 {
		w.WriteString(" WHERE ")
		w.conditions(conds)
	}
	return w.statement(), nil
}
