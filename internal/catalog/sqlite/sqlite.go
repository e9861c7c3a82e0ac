// Package sqlite enumerates table names from a SQLite database file using
// the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/electwix/depcache/internal/catalog"
)

// tablesQuery lists user tables; sqlite internal tables are excluded.
const tablesQuery = `SELECT name
FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

// Enumerator lists table names from one SQLite database. The same table set
// is returned for every identity.
type Enumerator struct {
	db *sql.DB
}

// Open opens the database at path. Use ":memory:" for an in-memory database.
func Open(path string) (*Enumerator, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &Enumerator{db: db}, nil
}

// NewWithDB wraps an existing handle; the caller retains ownership.
func NewWithDB(db *sql.DB) *Enumerator {
	return &Enumerator{db: db}
}

// Enumerate returns the user table names.
func (e *Enumerator) Enumerate(ctx context.Context, _ catalog.Identity) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list sqlite tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sqlite tables: %w", err)
	}
	return names, nil
}

// DB exposes the underlying handle, e.g. for seeding test fixtures.
func (e *Enumerator) DB() *sql.DB {
	return e.db
}

// Close closes the underlying handle.
func (e *Enumerator) Close() error {
	return e.db.Close()
}

var _ catalog.Enumerator = (*Enumerator)(nil)
