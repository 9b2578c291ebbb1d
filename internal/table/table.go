// Package table holds the in-memory tables the collector builds and the
// on-disk format they are persisted in.
//
// A Table is an ordered list of typed columns plus rows of plain Go values
// (int64, float64, string, bool or nil). Tables are written as SQLite files
// and read back unchanged.
package table

import (
	"fmt"
)

// Kind is the storage type of a column.
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindBool   Kind = "bool"
	// KindJSON holds nested values as compact JSON text.
	KindJSON Kind = "json"
)

func (k Kind) valid() bool {
	switch k {
	case KindInt, KindFloat, KindString, KindBool, KindJSON:
		return true
	}
	return false
}

// Column describes one table column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is an ordered, typed, in-memory table.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// New creates an empty table with the given columns.
func New(name string, columns []Column) *Table {
	return &Table{
		Name:    name,
		Columns: append([]Column(nil), columns...),
		Rows:    [][]any{},
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row, converting each value to its column's storage type.
// Pointer values are dereferenced and nil pointers become nil.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d values, want %d", t.Name, len(values), len(t.Columns))
	}
	row := make([]any, len(values))
	for i, v := range values {
		cell, err := coerce(t.Columns[i].Kind, v)
		if err != nil {
			return fmt.Errorf("table %s: column %s: %w", t.Name, t.Columns[i].Name, err)
		}
		row[i] = cell
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Records returns the rows as column-name keyed maps, in row order.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, c := range t.Columns {
			rec[c.Name] = row[j]
		}
		records[i] = rec
	}
	return records
}

// coerce converts v into the canonical Go type for kind.
func coerce(kind Kind, v any) (any, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case *int:
		if p == nil {
			return nil, nil
		}
		v = *p
	case *int64:
		if p == nil {
			return nil, nil
		}
		v = *p
	case *float64:
		if p == nil {
			return nil, nil
		}
		v = *p
	case *string:
		if p == nil {
			return nil, nil
		}
		v = *p
	case *bool:
		if p == nil {
			return nil, nil
		}
		v = *p
	}

	switch kind {
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case KindString, KindJSON:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return nil, fmt.Errorf("cannot store %T as %s", v, kind)
}
