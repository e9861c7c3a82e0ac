package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/electwix/depcache/internal/catalog/postgres"
)

func TestEnumerate(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{names: []string{"posts", "users"}}}
	enum := postgres.New(q, "")

	names, err := enum.Enumerate(context.Background(), "appdb")
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if diff := cmp.Diff([]string{"posts", "users"}, names); diff != "" {
		t.Errorf("Enumerate mismatch (-want +got):\n%s", diff)
	}
	if q.gotSchema != "public" {
		t.Errorf("schema arg = %q, want the default %q", q.gotSchema, "public")
	}
}

func TestEnumerateCustomSchema(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{}}
	enum := postgres.New(q, "app")

	if _, err := enum.Enumerate(context.Background(), "appdb"); err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if q.gotSchema != "app" {
		t.Errorf("schema arg = %q, want %q", q.gotSchema, "app")
	}
}

func TestEnumerateQueryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	enum := postgres.New(&fakeQuerier{err: boom}, "")

	if _, err := enum.Enumerate(context.Background(), "appdb"); !errors.Is(err, boom) {
		t.Fatalf("Enumerate error = %v, want wrapped %v", err, boom)
	}
}

func TestEnumerateRowsFailure(t *testing.T) {
	boom := errors.New("connection reset")
	enum := postgres.New(&fakeQuerier{rows: &fakeRows{names: []string{"users"}, err: boom}}, "")

	if _, err := enum.Enumerate(context.Background(), "appdb"); !errors.Is(err, boom) {
		t.Fatalf("Enumerate error = %v, want wrapped %v", err, boom)
	}
}

type fakeQuerier struct {
	rows      *fakeRows
	err       error
	gotSchema string
}

func (f *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	if len(args) == 1 {
		if schema, ok := args[0].(string); ok {
			f.gotSchema = schema
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fakeRows yields one table name per row; err is reported after exhaustion,
// mimicking a wire failure surfaced by Rows.Err.
type fakeRows struct {
	names  []string
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.names) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return fmt.Errorf("expected 1 destination, got %d", len(dest))
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("expected *string destination, got %T", dest[0])
	}
	*ptr = r.names[r.idx-1]
	return nil
}

func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
