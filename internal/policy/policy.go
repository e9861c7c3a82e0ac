// Package policy describes per-query cache policies: explicitly declared
// dependency tags, cache duration, expiration mode, and whether dependency
// resolution should be logged. Policies are owned by the caller issuing the
// query and are read-only to the invalidation engine.
package policy

import "time"

// Mode selects how a cached entry's TTL is interpreted.
type Mode string

const (
	// ModeAbsolute expires an entry a fixed duration after it was stored.
	ModeAbsolute Mode = "absolute"
	// ModeSliding renews the expiration on every hit.
	ModeSliding Mode = "sliding"
)

// DefaultTTL applies when a policy does not specify a duration.
const DefaultTTL = 5 * time.Minute

// Policy is the per-query cache configuration.
type Policy struct {
	// Dependencies are caller-declared dependency tags, used as the fallback
	// when the resolver cannot match any known resource in the command text.
	Dependencies []string
	// TTL is the cache duration; zero means DefaultTTL.
	TTL time.Duration
	// Mode is the expiration mode; empty means ModeAbsolute.
	Mode Mode
	// Quiet suppresses dependency resolution diagnostics for this query.
	// The zero value logs, matching the engine-wide default.
	Quiet bool
}

// Default returns the policy applied to queries with no declared policy.
func Default() Policy {
	return Policy{TTL: DefaultTTL, Mode: ModeAbsolute}
}

// Duration returns the effective TTL.
func (p Policy) Duration() time.Duration {
	if p.TTL <= 0 {
		return DefaultTTL
	}
	return p.TTL
}

// ValidMode reports whether m names a known expiration mode. The empty string
// is valid and means ModeAbsolute.
func ValidMode(m Mode) bool {
	switch m {
	case "", ModeAbsolute, ModeSliding:
		return true
	default:
		return false
	}
}
