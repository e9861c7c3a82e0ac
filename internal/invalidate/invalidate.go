// Package invalidate coordinates cache purges for mutating commands.
package invalidate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/electwix/depcache/internal/catalog"
	"github.com/electwix/depcache/internal/deptag"
	"github.com/electwix/depcache/internal/logging"
	"github.com/electwix/depcache/internal/policy"
)

// Store is the purge surface the coordinator requires of a cache store. The
// engine never reads or writes entries; it only instructs the store to drop
// everything tagged with any of the given dependency tags. The store owns its
// own concurrency control and retry policy.
type Store interface {
	InvalidateByTags(ctx context.Context, tags []deptag.Tag) error
}

// Coordinator computes dependency tags for commands and drives tag purges on
// writes. It holds no locks across store calls.
type Coordinator struct {
	catalog    *catalog.Catalog
	resolver   *deptag.Resolver
	log        logging.Logger
	instanceID string
}

// New creates a Coordinator over cat, writing diagnostics to log. A nil log
// disables diagnostics.
func New(cat *catalog.Catalog, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Coordinator{
		catalog:    cat,
		resolver:   deptag.NewResolver(log),
		log:        log,
		instanceID: uuid.NewString(),
	}
}

// ResolveReadDependencies computes the dependency tags a read command touches;
// the caller attaches them to the resulting cache entry. The set is never
// empty. A catalog enumeration failure is a configuration error and is
// returned as-is.
func (c *Coordinator) ResolveReadDependencies(ctx context.Context, p policy.Policy, identity catalog.Identity, sql string) ([]deptag.Tag, error) {
	known, err := c.catalog.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	return c.resolver.Resolve(p, known, sql), nil
}

// InvalidateIfMutating purges the store entries affected by sql when it is a
// mutating command, reporting whether a purge happened. Non-mutating commands
// return false with no work done.
//
// The purged set always includes the Unknown sentinel, even when specific
// resources resolved: a write may touch tables the heuristic missed, and
// every unresolvable read entry lives under the sentinel.
//
// The caller must invoke this only after the write has taken effect, and
// before a subsequent read may repopulate the cache.
func (c *Coordinator) InvalidateIfMutating(ctx context.Context, sql string, identity catalog.Identity, p policy.Policy, store Store) (bool, error) {
	if !deptag.IsMutating(sql) {
		return false, nil
	}

	known, err := c.catalog.Resolve(ctx, identity)
	if err != nil {
		return false, err
	}

	tags := c.resolver.Resolve(p, known, sql)
	tags = deptag.Add(tags, deptag.Unknown)

	if err := store.InvalidateByTags(ctx, tags); err != nil {
		return false, fmt.Errorf("invalidate tags %v: %w", deptag.Strings(tags), err)
	}

	if !p.Quiet {
		c.log.Info("invalidated cache tags",
			"instance", c.instanceID,
			"owner", string(identity),
			"tags", deptag.Strings(tags))
	}
	return true, nil
}

// InstanceID identifies this coordinator in purge log lines.
func (c *Coordinator) InstanceID() string {
	return c.instanceID
}
