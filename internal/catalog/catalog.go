// Package catalog memoizes the set of known resource names per schema owner.
//
// The schema is assumed static for the process lifetime: once a set has been
// observed for an identity it never changes, so enumeration runs at most a
// handful of times per identity (once under non-adversarial scheduling) and
// every later lookup is served from the stored result.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Identity is an opaque handle naming the data model a query was issued
// against. Callers typically derive it from their connection or context type.
type Identity string

// Enumerator yields the known resource (table) names for a schema owner.
// Enumeration must be side-effect-free: racing first-time callers may both
// invoke it, and only one result is kept.
type Enumerator interface {
	Enumerate(ctx context.Context, identity Identity) ([]string, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func(ctx context.Context, identity Identity) ([]string, error)

// Enumerate calls f.
func (f EnumeratorFunc) Enumerate(ctx context.Context, identity Identity) ([]string, error) {
	return f(ctx, identity)
}

// Catalog caches one ordered resource set per identity.
type Catalog struct {
	enum Enumerator

	mu   sync.RWMutex
	sets map[Identity][]string
}

// New creates a Catalog backed by enum.
func New(enum Enumerator) *Catalog {
	return &Catalog{
		enum: enum,
		sets: make(map[Identity][]string),
	}
}

// Resolve returns the memoized resource set for identity, computing it on
// first use. The returned slice is the caller's own copy; mutating it does not
// affect the catalog. An enumeration failure is a configuration defect and is
// returned to the caller rather than cached; the next call retries.
//
// Concurrent first-time callers may each run the enumeration, but the first
// result stored wins and every caller converges on it.
func (c *Catalog) Resolve(ctx context.Context, identity Identity) ([]string, error) {
	c.mu.RLock()
	set, ok := c.sets[identity]
	c.mu.RUnlock()
	if ok {
		return slices.Clone(set), nil
	}

	names, err := c.enum.Enumerate(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("catalog: enumerate resources for %q: %w", identity, err)
	}
	computed := normalize(names)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.sets[identity]; ok {
		// Lost the race; keep the first successfully observed set.
		return slices.Clone(existing), nil
	}
	c.sets[identity] = computed
	return slices.Clone(computed), nil
}

// normalize produces the ordered set form: sorted, deduplicated, no empties.
func normalize(names []string) []string {
	set := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			set = append(set, name)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}
