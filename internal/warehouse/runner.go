// Package warehouse is the relational query executor consumed by the
// agent: it reports a human-readable schema and runs generated queries.
// The agent never inspects error text beyond presence; any execution
// error is a repair signal.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Runner executes structured queries against the analytics warehouse.
type Runner interface {
	// Schema returns a human-readable table/column listing, suitable for
	// inclusion in a generation prompt.
	Schema(ctx context.Context) (string, error)

	// Execute runs a query and returns its rows. A zero-row result is a
	// distinct success outcome, not an error.
	Execute(ctx context.Context, query string) ([]map[string]any, error)

	Close() error
}

// SQLiteRunner implements Runner over modernc.org/sqlite.
type SQLiteRunner struct {
	db *sql.DB
}

// NewSQLite opens the warehouse database at the given path. Pragmas go
// in the DSN so every pooled connection gets them; query_only in
// particular is per-connection state.
func NewSQLite(path string) (*SQLiteRunner, error) {
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=query_only(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: open")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "warehouse: open %s", path)
	}
	return &SQLiteRunner{db: db}, nil
}

func (r *SQLiteRunner) Close() error {
	return r.db.Close()
}

// Schema builds the table/column listing from sqlite_master and
// PRAGMA table_info, one line per table:
//
//	Orders(OrderID, CustomerID, OrderDate, ...)
func (r *SQLiteRunner) Schema(ctx context.Context) (string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	)
	if err != nil {
		return "", eris.Wrap(err, "warehouse: list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", eris.Wrap(err, "warehouse: scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return "", eris.Wrap(err, "warehouse: iterate tables")
	}

	var b strings.Builder
	for _, table := range tables {
		cols, err := r.tableColumns(ctx, table)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s(%s)\n", table, strings.Join(cols, ", "))
	}
	return b.String(), nil
}

func (r *SQLiteRunner) tableColumns(ctx context.Context, table string) ([]string, error) {
	// Table names come from sqlite_master, not user input; quoting guards
	// against names with spaces like "Order Details".
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, eris.Wrapf(err, "warehouse: table_info %s", table)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, eris.Wrapf(err, "warehouse: scan column of %s", table)
		}
		cols = append(cols, name)
	}
	return cols, eris.Wrapf(rows.Err(), "warehouse: iterate columns of %s", table)
}

// Execute runs the query and materializes all rows as column→value maps.
func (r *SQLiteRunner) Execute(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: execute")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: columns")
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "warehouse: scan row")
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "warehouse: iterate rows")
	}
	return result, nil
}

// normalizeValue converts driver-specific scan types into plain JSON-able
// values ([]byte → string).
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
