package query

import (
	"fmt"

	"github.com/ridoystarlord/bakery/schema"
)

type join struct {
	kind  string
	table *schema.Model
	left  Column
	right Column
}

// SelectBuilder builds a SELECT over one table and any joined tables.
type SelectBuilder struct {
	from    *schema.Model
	columns []Column
	joins   []join
	where   []Condition
	order   []Order
	limit   int
	count   bool
}

// Select starts a SELECT from table. Without columns every column of the
// table is selected.
func Select(table *schema.Model, columns ...Column) *SelectBuilder {
	return &SelectBuilder{from: table, columns: columns}
}

// Table returns the table named in the FROM clause.
func (s *SelectBuilder) Table() *schema.Model { return s.from }

// Columns appends columns to the select list.
func (s *SelectBuilder) Columns(columns ...Column) *SelectBuilder {
	s.columns = append(s.columns, columns...)
	return s
}

// InnerJoin joins table on left = right.
func (s *SelectBuilder) InnerJoin(table *schema.Model, left, right Column) *SelectBuilder {
	s.joins = append(s.joins, join{kind: "INNER JOIN", table: table, left: left, right: right})
	return s
}

// LeftJoin left-joins table on left = right.
func (s *SelectBuilder) LeftJoin(table *schema.Model, left, right Column) *SelectBuilder {
	s.joins = append(s.joins, join{kind: "LEFT JOIN", table: table, left: left, right: right})
	return s
}

// Count replaces the select list with COUNT(*) AS "count".
func (s *SelectBuilder) Count() *SelectBuilder {
	s.count = true
	return s
}

func (s *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	s.where = append(s.where, conds...)
	return s
}

func (s *SelectBuilder) OrderBy(orders ...Order) *SelectBuilder {
	s.order = append(s.order, orders...)
	return s
}

func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = n
	return s
}

// Build renders the statement for dialect.
func (s *SelectBuilder) Build(dialect string) (Statement, error) {
	if s.from == nil {
		return Statement{}, &QueryBuildError{Op: "select", Reason: "missing FROM table"}
	}
	w, err := newWriter(dialect)
	if err != nil {
		return Statement{}, &QueryBuildError{Op: "select", Table: s.from.TableName, Reason: err.Error()}
	}

	var reasons []string
	sc := newScope(s.from)
	for _, j := range s.joins {
		if j.table == nil {
			reasons = append(reasons, "missing JOIN table")
			continue
		}
		sc.add(j.table)
	}

	columns := s.columns
	if len(columns) == 0 {
		columns = Columns(s.from)
	}

	w.WriteString("SELECT ")
	if s.count {
		columns = nil
		w.WriteString(`COUNT(*) AS "count"`)
	}
	for i, c := range columns {
		q, reason := sc.qualify(c)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if i > 0 {
			w.WriteString(", ")
		}
		w.column(q)
		if q.Alias != "" {
			w.WriteString(" AS ")
			w.ident(q.Alias)
		}
	}
	w.WriteString(" FROM ")
	w.ident(s.from.TableName)

	for _, j := range s.joins {
		if j.table == nil {
			continue
		}
		left, reason := sc.qualify(j.left)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		right, reason := sc.qualify(j.right)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		w.WriteString(" " + j.kind + " ")
		w.ident(j.table.TableName)
		w.WriteString(" ON ")
		w.column(left)
		w.WriteString(" = ")
		w.column(right)
	}

	if len(s.where) > 0 {
		var conds []Condition
		conds, reasons = sc.qualifyConditions(s.where, reasons)
		if len(reasons) == 0 {
			w.WriteString(" WHERE ")
			w.conditions(conds)
		}
	}

	if len(s.order) > 0 {
		w.WriteString(" ORDER BY ")
		for i, o := range s.order {
			c, reason := sc.qualify(o.Column)
			if reason != "" {
				reasons = append(reasons, reason)
			}
			if i > 0 {
				w.WriteString(", ")
			}
			w.column(c)
			if o.Desc {
				w.WriteString(" DESC")
			} else {
				w.WriteString(" ASC")
			}
		}
	}

	if s.limit > 0 {
		fmt.Fprintf(&w.sb, " LIMIT %d", s.limit)
	}

	if err := collect("select", s.from.TableName, reasons); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}
