package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// formatVersion is bumped whenever the file layout changes.
const formatVersion = "1"

const schema = `
CREATE TABLE table_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE table_columns (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	kind     TEXT NOT NULL
);`

var sqlTypes = map[Kind]string{
	KindInt:    "INTEGER",
	KindFloat:  "REAL",
	KindString: "TEXT",
	KindBool:   "INTEGER",
	KindJSON:   "TEXT",
}

// Write persists t to a SQLite file at path. The file is built next to the
// target and renamed into place, so an existing file is only replaced by a
// complete one.
func Write(ctx context.Context, path string, t *Table) error {
	if t == nil {
		return errors.New("table: nil table")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := writeFile(ctx, tmp, t); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func writeFile(ctx context.Context, path string, t *Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for key, value := range map[string]string{"name": t.Name, "format": formatVersion} {
		if _, err := tx.ExecContext(ctx, "INSERT INTO table_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return err
		}
	}

	defs := []string{"row_index INTEGER PRIMARY KEY"}
	placeholders := []string{"?"}
	for i, c := range t.Columns {
		if !c.Kind.valid() {
			return fmt.Errorf("column %s: unknown kind %q", c.Name, c.Kind)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO table_columns (position, name, kind) VALUES (?, ?, ?)",
			i, c.Name, string(c.Kind)); err != nil {
			return err
		}
		defs = append(defs, dataColumn(i)+" "+sqlTypes[c.Kind])
		placeholders = append(placeholders, "?")
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE data ("+strings.Join(defs, ", ")+")"); err != nil {
		return fmt.Errorf("create data table: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, "INSERT INTO data VALUES ("+strings.Join(placeholders, ", ")+")")
	if err != nil {
		return err
	}
	defer insert.Close()

	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", r, len(row), len(t.Columns))
		}
		args := make([]any, 0, len(row)+1)
		args = append(args, r)
		for _, v := range row {
			if b, ok := v.(bool); ok {
				v = boolInt(b)
			}
			args = append(args, v)
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}
	return tx.Commit()
}

// Read loads a table previously stored with Write.
func Read(ctx context.Context, path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if meta["format"] != formatVersion {
		return nil, fmt.Errorf("read %s: unsupported format %q", path, meta["format"])
	}

	columns, err := readColumns(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t := New(meta["name"], columns)

	selectCols := []string{"row_index"}
	for i := range columns {
		selectCols = append(selectCols, dataColumn(i))
	}
	rows, err := db.QueryContext(ctx, "SELECT "+strings.Join(selectCols, ", ")+" FROM data ORDER BY row_index")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rowIndex int64
		cells := make([]any, len(columns))
		dest := make([]any, 0, len(columns)+1)
		dest = append(dest, &rowIndex)
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]any, len(columns))
		for i, c := range columns {
			v, err := coerce(c.Kind, cells[i])
			if err != nil {
				return nil, fmt.Errorf("read %s: row %d: column %s: %w", path, rowIndex, c.Name, err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

func dataColumn(i int) string {
	return "c" + strconv.Itoa(i)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM table_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table_meta: %w", err)
	}
	return meta, nil
}

func readColumns(ctx context.Context, db *sql.DB) ([]Column, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, kind FROM table_columns ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		var kind string
		if err := rows.Scan(&c.Name, &kind); err != nil {
			return nil, err
		}
		c.Kind = Kind(kind)
		if !c.Kind.valid() {
			return nil, fmt.Errorf("column %s has unknown kind %q", c.Name, kind)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table_columns: %w", err)
	}
	return columns, nil
}
