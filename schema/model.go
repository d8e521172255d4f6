package schema

import "fmt"

// Model describes one table: its columns in declaration order and the
// relations other tables hold against it.
type Model struct {
	TableName string
	Columns   []Column
	Relations []Relation
}

type Column struct {
	Name       string
	Field      string // Go struct field the column maps to
	Type       string
	Primary    bool
	NotNull    bool
	Default    *string
	ForeignKey *ForeignKey
}

type ForeignKey struct {
	ReferencesTable  string
	ReferencesColumn string
	OnDelete         string // CASCADE, SET NULL, RESTRICT, etc.
	OnUpdate         string
}

// Relation is directional: rows of ToTable whose ToColumn equals the
// FromColumn value of a FromTable row are related to that row.
type Relation struct {
	Name       string
	Type       RelationType
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
}

type RelationType string

const (
	OneToOne   RelationType = "one-to-one"
	OneToMany  RelationType = "one-to-many"
	ManyToOne  RelationType = "many-to-one"
	ManyToMany RelationType = "many-to-many"
)

// Column returns the named column.
func (m *Model) Column(name string) (Column, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the table declares the named column.
func (m *Model) HasColumn(name string) bool {
	_, ok := m.Column(name)
	return ok
}

// PrimaryKey returns the first primary key column. Every model built by
// Load has exactly one.
func (m *Model) PrimaryKey() Column {
	for _, c := range m.Columns {
		if c.Primary {
			return c
		}
	}
	return Column{}
}

// ColumnNames returns the column names in declaration order.
func (m *Model) ColumnNames() []string {
	names := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Relation returns the relation from m to the given table.
func (m *Model) Relation(toTable string) (Relation, bool) {
	for _, r := range m.Relations {
		if r.ToTable == toTable {
			return r, true
		}
	}
	return Relation{}, false
}

// HasMany declares that child rows reference parent rows through fkColumn.
// The parent gets a one-to-many relation and the child the inverse
// many-to-one relation.
func HasMany(parent, child *Model, fkColumn string) error {
	fk, ok := child.Column(fkColumn)
	if !ok {
		return fmt.Errorf("table %s has no column %s", child.TableName, fkColumn)
	}
	pk := parent.PrimaryKey()
	if pk.Name == "" {
		return fmt.Errorf("table %s has no primary key", parent.TableName)
	}
	if fk.ForeignKey != nil && fk.ForeignKey.ReferencesTable != parent.TableName {
		return fmt.Errorf("column %s.%s references %s, not %s",
			child.TableName, fkColumn, fk.ForeignKey.ReferencesTable, parent.TableName)
	}

	parent.Relations = append(parent.Relations, Relation{
		Name:       child.TableName,
		Type:       OneToMany,
		FromTable:  parent.TableName,
		FromColumn: pk.Name,
		ToTable:    child.TableName,
		ToColumn:   fkColumn,
	})
	child.Relations = append(child.Relations, Relation{
		Name:       parent.TableName,
		Type:       ManyToOne,
		FromTable:  child.TableName,
		FromColumn: fkColumn,
		ToTable:    parent.TableName,
		ToColumn:   pk.Name,
	})
	return nil
}
