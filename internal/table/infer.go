package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FromObjects builds a table from JSON objects. Columns are the union of the
// objects' keys in first-seen order; a key missing from an object is null in
// that row. Column kinds are inferred from the non-null values: integers,
// floats (integers mixed with fractions widen to float), strings, booleans,
// and JSON text for nested or mixed values.
func FromObjects(name string, objects []json.RawMessage) (*Table, error) {
	var (
		names  []string
		index  = map[string]int{}
		parsed = make([]map[string]json.RawMessage, len(objects))
	)
	for i, obj := range objects {
		keys, values, err := orderedObject(obj)
		if err != nil {
			return nil, fmt.Errorf("table %s: row %d: %w", name, i, err)
		}
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(names)
				names = append(names, k)
			}
		}
		parsed[i] = values
	}

	columns := make([]Column, len(names))
	for i, col := range names {
		kind := Kind("")
		for _, values := range parsed {
			kind = widen(kind, classify(values[col]))
		}
		if kind == "" {
			kind = KindString
		}
		columns[i] = Column{Name: col, Kind: kind}
	}

	t := New(name, columns)
	for i, values := range parsed {
		row := make([]any, len(columns))
		for j, c := range columns {
			cell, err := cellValue(c.Kind, values[c.Name])
			if err != nil {
				return nil, fmt.Errorf("table %s: row %d: column %s: %w", name, i, c.Name, err)
			}
			row[j] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// orderedObject decodes a JSON object keeping its key order.
func orderedObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected JSON object")
	}
	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = v
	}
	return keys, values, nil
}

// classify returns the natural kind of a raw JSON value, "" for null/absent.
func classify(raw json.RawMessage) Kind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		return KindString
	case 't', 'f':
		return KindBool
	case '{', '[':
		return KindJSON
	}
	if _, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return KindInt
	}
	return KindFloat
}

func widen(current, next Kind) Kind {
	switch {
	case next == "" || current == next:
		return current
	case current == "":
		return next
	case (current == KindInt && next == KindFloat) || (current == KindFloat && next == KindInt):
		return KindFloat
	default:
		return KindJSON
	}
}

func cellValue(kind Kind, raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch kind {
	case KindInt:
		return strconv.ParseInt(string(raw), 10, 64)
	case KindFloat:
		return strconv.ParseFloat(string(raw), 64)
	case KindBool:
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	case KindString:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return buf.String(), nil
	}
}
