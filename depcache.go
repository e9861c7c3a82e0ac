// Package depcache decides, for each read query, which logical resources it
// depends on, and for each write command, which cached results must be
// discarded.
//
// The engine exposes two operations to the surrounding command-interception
// layer: ResolveReadDependencies, whose result is attached to the cached
// entry, and InvalidateIfMutating, which purges the store by dependency tag
// after a write. Resource inference is heuristic and biased toward
// conservative invalidation: when in doubt, everything under the
// UnknownDependency sentinel is purged.
package depcache

import (
	"context"
	"errors"

	"github.com/electwix/depcache/internal/catalog"
	"github.com/electwix/depcache/internal/deptag"
	"github.com/electwix/depcache/internal/invalidate"
	"github.com/electwix/depcache/internal/logging"
	"github.com/electwix/depcache/internal/policy"
)

// Aliases re-export the engine's vocabulary so callers outside this module
// can name the types involved in the two public operations.
type (
	// Tag labels a cached result with one resource it depends on.
	Tag = deptag.Tag
	// Identity names the data model a query was issued against.
	Identity = catalog.Identity
	// Policy is the caller-owned per-query cache configuration.
	Policy = policy.Policy
	// Enumerator yields the known resource names for a schema owner.
	Enumerator = catalog.Enumerator
	// EnumeratorFunc adapts a function to the Enumerator interface.
	EnumeratorFunc = catalog.EnumeratorFunc
	// Store is the purge surface required of the external cache store.
	Store = invalidate.Store
	// Logger is the best-effort diagnostic sink.
	Logger = logging.Logger
)

// UnknownDependency is the sentinel tag for commands whose resources could
// not be determined.
const UnknownDependency = deptag.Unknown

// Options configures an Engine.
type Options struct {
	// Enumerator supplies the known resource names per schema owner.
	// Required; enumeration failure is a fatal configuration error.
	Enumerator Enumerator
	// Logger receives resolution and purge diagnostics. Nil disables them.
	Logger Logger
	// Policies maps query names to declared cache policies, used by
	// PolicyFor. Optional.
	Policies map[string]Policy
}

// Engine is the dependency-tagged cache invalidation engine.
type Engine struct {
	coord    *invalidate.Coordinator
	policies map[string]Policy
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Enumerator == nil {
		return nil, errors.New("depcache: an Enumerator is required")
	}
	return &Engine{
		coord:    invalidate.New(catalog.New(opts.Enumerator), opts.Logger),
		policies: opts.Policies,
	}, nil
}

// PolicyFor returns the declared policy for a query name, or the default
// policy when none was declared.
func (e *Engine) PolicyFor(query string) Policy {
	if p, ok := e.policies[query]; ok {
		return p
	}
	return policy.Default()
}

// ResolveReadDependencies computes the dependency tags for a read command;
// the caller attaches them to the resulting cache entry. The returned set is
// never empty.
func (e *Engine) ResolveReadDependencies(ctx context.Context, p Policy, owner Identity, sql string) ([]Tag, error) {
	return e.coord.ResolveReadDependencies(ctx, p, owner, sql)
}

// InvalidateIfMutating purges store entries affected by sql when it is a
// mutating command, reporting whether a purge happened. Call it after the
// write took effect and before any subsequent read may repopulate the cache.
func (e *Engine) InvalidateIfMutating(ctx context.Context, sql string, owner Identity, p Policy, store Store) (bool, error) {
	return e.coord.InvalidateIfMutating(ctx, sql, owner, p, store)
}

// IsMutating reports whether sql is classified as a mutating command.
func IsMutating(sql string) bool {
	return deptag.IsMutating(sql)
}
