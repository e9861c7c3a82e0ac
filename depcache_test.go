package depcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/depcache"
)

func newEngine(t *testing.T, policies map[string]depcache.Policy) *depcache.Engine {
	t.Helper()
	engine, err := depcache.New(depcache.Options{
		Enumerator: depcache.EnumeratorFunc(func(_ context.Context, _ depcache.Identity) ([]string, error) {
			return []string{"Products", "Orders"}, nil
		}),
		Policies: policies,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func TestNewRequiresEnumerator(t *testing.T) {
	if _, err := depcache.New(depcache.Options{}); err == nil {
		t.Fatal("New accepted a nil Enumerator")
	}
}

func TestPolicyFor(t *testing.T) {
	declared := depcache.Policy{TTL: time.Hour, Dependencies: []string{"Orders"}}
	engine := newEngine(t, map[string]depcache.Policy{"ListOrders": declared})

	if diff := cmp.Diff(declared, engine.PolicyFor("ListOrders")); diff != "" {
		t.Errorf("declared policy mismatch (-want +got):\n%s", diff)
	}
	got := engine.PolicyFor("Undeclared")
	if got.TTL == 0 {
		t.Error("fallback policy has no TTL")
	}
}

func TestResolveReadDependencies(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()

	tags, err := engine.ResolveReadDependencies(ctx, engine.PolicyFor("q"), "shop", "SELECT * FROM Products")
	if err != nil {
		t.Fatalf("ResolveReadDependencies: %v", err)
	}
	if diff := cmp.Diff([]depcache.Tag{"Products"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	tags, err = engine.ResolveReadDependencies(ctx, engine.PolicyFor("q"), "shop", "SELECT version()")
	if err != nil {
		t.Fatalf("ResolveReadDependencies: %v", err)
	}
	if diff := cmp.Diff([]depcache.Tag{depcache.UnknownDependency}, tags); diff != "" {
		t.Errorf("unresolvable tags mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidateIfMutating(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()
	rec := &recordingStore{}

	purged, err := engine.InvalidateIfMutating(ctx, "SELECT * FROM Products", "shop", engine.PolicyFor("q"), rec)
	if err != nil {
		t.Fatalf("InvalidateIfMutating: %v", err)
	}
	if purged || rec.calls != 0 {
		t.Error("a read reached the store")
	}

	purged, err = engine.InvalidateIfMutating(ctx, "UPDATE Products SET price = 0", "shop", engine.PolicyFor("q"), rec)
	if err != nil {
		t.Fatalf("InvalidateIfMutating: %v", err)
	}
	if !purged {
		t.Fatal("a write did not purge")
	}
	want := []depcache.Tag{"Products", depcache.UnknownDependency}
	if diff := cmp.Diff(want, rec.tags); diff != "" {
		t.Errorf("purged tags mismatch (-want +got):\n%s", diff)
	}
}

func TestIsMutating(t *testing.T) {
	if !depcache.IsMutating("DELETE FROM Products") {
		t.Error("DELETE not classified as mutating")
	}
	if depcache.IsMutating("SELECT * FROM Products") {
		t.Error("SELECT classified as mutating")
	}
}

type recordingStore struct {
	tags  []depcache.Tag
	calls int
}

func (r *recordingStore) InvalidateByTags(_ context.Context, tags []depcache.Tag) error {
	r.calls++
	r.tags = append([]depcache.Tag(nil), tags...)
	return nil
}
