// Package postgres enumerates table names from a PostgreSQL database using
// information_schema.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/electwix/depcache/internal/catalog"
)

// tablesQuery lists base tables in one schema. Views are deliberately not
// treated as distinct resources.
const tablesQuery = `SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

// DefaultSchema is used when no schema name is configured.
const DefaultSchema = "public"

// Querier is the subset of *pgx.Conn the enumerator uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Enumerator lists base table names from a PostgreSQL schema. The same table
// set is returned for every identity: one enumerator serves one database.
type Enumerator struct {
	q      Querier
	schema string
	conn   *pgx.Conn
}

// New creates an Enumerator over q, constrained to schema (DefaultSchema when
// empty).
func New(q Querier, schema string) *Enumerator {
	if schema == "" {
		schema = DefaultSchema
	}
	return &Enumerator{q: q, schema: schema}
}

// Open connects to dsn and returns an Enumerator owning the connection.
func Open(ctx context.Context, dsn, schema string) (*Enumerator, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	e := New(conn, schema)
	e.conn = conn
	return e, nil
}

// Enumerate returns the base table names of the configured schema.
func (e *Enumerator) Enumerate(ctx context.Context, _ catalog.Identity) ([]string, error) {
	rows, err := e.q.Query(ctx, tablesQuery, e.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables in schema %q: %w", e.schema, err)
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
		return nil, fmt.Errorf("list tables in schema %q: %w", e.schema, err)
	}
	return names, nil
}

// Close releases the connection when the enumerator was built with Open.
func (e *Enumerator) Close(ctx context.Context) error {
	if e.conn == nil {
		return nil
	}
	return e.conn.Close(ctx)
}

var _ catalog.Enumerator = (*Enumerator)(nil)
