// Package store provides the reference cache store used by tests and the
// explain tool. Production deployments supply their own store; the engine
// only requires the purge-by-tag operation.
package store

import (
	"time"

	"github.com/electwix/depcache/internal/deptag"
	"github.com/electwix/depcache/internal/policy"
)

// Entry associates a cached value with the dependency tags it was resolved
// to and its expiration.
type Entry struct {
	Value     any
	Tags      []deptag.Tag
	ExpiresAt time.Time
	Mode      policy.Mode
	ttl       time.Duration
}

// IsExpired reports whether the entry has passed its expiration.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}
