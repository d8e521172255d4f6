// Package query renders the SQL statements issued by the data-access layer.
// Builders validate every column they reference against the table
// descriptors in scope and report problems as a QueryBuildError from Build.
package query

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/bakery/schema"
)

// Supported dialects.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Statement is a rendered SQL string with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

func (s Statement) String() string {
	if len(s.Args) == 0 {
		return s.SQL
	}
	return fmt.Sprintf("%s %v", s.SQL, s.Args)
}

// writer accumulates SQL text and arguments for one dialect.
type writer struct {
	dialect string
	sb      strings.Builder
	args    []any
}

func newWriter(dialect string) (*writer, error) {
	switch dialect {
	case Postgres, SQLite:
		return &writer{dialect: dialect}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func (w *writer) WriteString(s string) { w.sb.WriteString(s) }

func (w *writer) ident(name string) {
	w.sb.WriteByte('"')
	w.sb.WriteString(strings.ReplaceAll(name, `"`, `""`))
	w.sb.WriteByte('"')
}

func (w *writer) column(c Column) {
	if c.Table != "" {
		w.ident(c.Table)
		w.sb.WriteByte('.')
	}
	w.ident(c.Name)
}

func (w *writer) arg(v any) {
	w.args = append(w.args, v)
	if w.dialect == Postgres {
		fmt.Fprintf(&w.sb, "$%d", len(w.args))
		return
	}
	w.sb.WriteByte('?')
}

func (w *writer) conditions(conds []Condition) {
	for i, c := range conds {
		if i > 0 {
			w.WriteString(" AND ")
		}
		w.column(c.Column)
		switch c.Op {
		case OpIsNull, OpNotNull:
			w.WriteString(" " + string(c.Op))
		case OpIn:
			w.WriteString(" IN (")
			for j, v := range c.Value.([]any) {
				if j > 0 {
					w.WriteString(", ")
				}
				w.arg(v)
			}
			w.WriteString(")")
		default:
			w.WriteString(" " + string(c.Op) + " ")
			w.arg(c.Value)
		}
	}
}

func (w *writer) statement() Statement {
	return Statement{SQL: w.sb.String(), Args: w.args}
}

// scope resolves column references against the tables a statement names.
type scope struct {
	base   *schema.Model
	tables map[string]*schema.Model
}

func newScope(base *schema.Model) *scope {
	return &scope{base: base, tables: map[string]*schema.Model{base.TableName: base}}
}

func (s *scope) add(m *schema.Model) { s.tables[m.TableName] = m }

// qualify fills in the base table for unqualified columns and returns a
// reason when the reference cannot be resolved.
func (s *scope) qualify(c Column) (Column, string) {
	if c.Name == "" {
		return c, "empty column name"
	}
	if c.Table == "" {
		c.Table = s.base.TableName
	}
	m, ok := s.tables[c.Table]
	if !ok {
		return c, fmt.Sprintf("table %s is not part of the statement", c.Table)
	}
	if !m.HasColumn(c.Name) {
		return c, fmt.Sprintf("unknown column %s.%s", c.Table, c.Name)
	}
	return c, ""
}

func (s *scope) qualifyConditions(conds []Condition, reasons []string) ([]Condition, []string) {
	out := make([]Condition, 0, len(conds))
	for _, cond := range conds {
		col, reason := s.qualify(cond.Column)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if cond.Op == OpIn {
			if vs, _ := cond.Value.([]any); len(vs) == 0 {
				reasons = append(reasons, fmt.Sprintf("empty IN list for %s", cond.Column.Name))
			}
		}
		cond.Column = col
		out = append(out, cond)
	}
	return out, reasons
}
