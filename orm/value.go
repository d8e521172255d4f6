// Package orm maps table rows to Go structs and back through a
// database.Executor.
package orm

import "reflect"

// Value is one field of a partial record. A Value is either set to a
// concrete value or not set at all; nullable columns use a pointer type so
// that Set[*T](nil) means an explicit NULL.
type Value[T any] struct {
	v   T
	set bool
}

// Set returns a Value holding v.
func Set[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// NotSet returns a Value that leaves its column untouched.
func NotSet[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it was set.
func (v Value[T]) Get() (T, bool) {
	return v.v, v.set
}

// IsSet reports whether the column is written.
func (v Value[T]) IsSet() bool { return v.set }

// ColumnValue pairs a column name with the value written to it.
type ColumnValue struct {
	Column string
	Value  any
}

// Append adds column to vs when v is set. A nil pointer is sent as NULL.
func Append[T any](vs []ColumnValue, column string, v Value[T]) []ColumnValue {
	val, ok := v.Get()
	if !ok {
		return vs
	}
	var out any = val
	if isNil(out) {
		out = nil
	}
	return append(vs, ColumnValue{Column: column, Value: out})
}

// ActiveModel is a partial record: only the columns it returns are written.
type ActiveModel interface {
	Values() []ColumnValue
}

// Values is an ActiveModel built from an explicit list.
type Values []ColumnValue

func (vs Values) Values() []ColumnValue { return vs }

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
