package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Load builds a Model from the `db` tags of a struct value or pointer.
// Fields without a tag, or tagged "-", are not columns.
//
//	ID   int32  `db:"id,primary,type:serial"`
//	Name string `db:"name,notnull,type:text"`
func Load(tableName string, v any) (*Model, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("table %s: expected a struct, got %T", tableName, v)
	}

	model := &Model{
		TableName: tableName,
		Columns:   []Column{},
	}

	primaries := 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}
		col, err := parseDBTag(field.Name, tag)
		if err != nil {
			return nil, fmt.Errorf("error parsing tag on %s.%s: %v", t.Name(), field.Name, err)
		}
		if col.Primary {
			primaries++
		}
		model.Columns = append(model.Columns, col)
	}

	if primaries != 1 {
		return nil, fmt.Errorf("table %s: expected exactly one primary key, found %d", tableName, primaries)
	}
	return model, nil
}

// MustLoad is like Load but panics on error. It is meant for package level
// table declarations.
func MustLoad(tableName string, v any) *Model {
	m, err := Load(tableName, v)
	if err != nil {
		panic(err)
	}
	return m
}

func parseDBTag(fieldName, tag string) (Column, error) {
	parts := strings.Split(tag, ",")
	col := Column{
		Name:  strings.TrimSpace(parts[0]),
		Field: fieldName,
	}
	if col.Name == "" {
		return col, fmt.Errorf("missing column name")
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case part == "primary":
			col.Primary = true
			col.NotNull = true
		case part == "notnull":
			col.NotNull = true
		case strings.HasPrefix(part, "type:"):
			col.Type = strings.TrimPrefix(part, "type:")
		case strings.HasPrefix(part, "default:"):
			val := strings.TrimPrefix(part, "default:")
			col.Default = &val
		case strings.HasPrefix(part, "references:"):
			ref := strings.TrimPrefix(part, "references:")
			table, column, ok := strings.Cut(ref, ".")
			if !ok || table == "" || column == "" {
				return col, fmt.Errorf("invalid reference %q, want table.column", ref)
			}
			if col.ForeignKey == nil {
				col.ForeignKey = &ForeignKey{}
			}
			col.ForeignKey.ReferencesTable = table
			col.ForeignKey.ReferencesColumn = column
		case strings.HasPrefix(part, "ondelete:"):
			if col.ForeignKey == nil {
				col.ForeignKey = &ForeignKey{}
			}
			col.ForeignKey.OnDelete = strings.ToUpper(strings.TrimPrefix(part, "ondelete:"))
		case strings.HasPrefix(part, "onupdate:"):
			if col.ForeignKey == nil {
				col.ForeignKey = &ForeignKey{}
			}
			col.ForeignKey.OnUpdate = strings.ToUpper(strings.TrimPrefix(part, "onupdate:"))
		case part == "":
		default:
			return col, fmt.Errorf("unknown tag option %q", part)
		}
	}
	return col, nil
}

// FieldValue reads the value stored in the struct field mapped to column.
func (m *Model) FieldValue(v any, column string) (any, error) {
	col, ok := m.Column(column)
	if !ok {
		return nil, fmt.Errorf("table %s has no column %s", m.TableName, column)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil %s record", m.TableName)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a %s record, got %T", m.TableName, v)
	}
	f := rv.FieldByName(col.Field)
	if !f.IsValid() {
		return nil, fmt.Errorf("%T has no field %s for column %s", v, col.Field, column)
	}
	return f.Interface(), nil
}
