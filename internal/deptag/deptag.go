// Package deptag infers which logical resources a SQL command touches and
// expresses them as dependency tags for cache invalidation.
//
// The inference is a deliberate heuristic: command text is scanned for the
// structural markers that precede a table reference rather than parsed with a
// grammar. A wrong answer that misses a table would serve stale data, so every
// fallback in this package degrades toward the Unknown sentinel, which
// over-invalidates but never under-invalidates.
package deptag

import "slices"

// Tag labels a cached result with one logical resource it depends on. A tag is
// either a normalized resource name or the Unknown sentinel.
type Tag string

// Unknown is the reserved tag applied when no specific resource could be
// determined. Reads that cannot be resolved are cached under it, and every
// mutating command purges it, so unparseable traffic stays correct at the cost
// of cache hit-rate.
const Unknown Tag = "UnknownDependency"

// NewSet returns names as a sorted, deduplicated tag set.
func NewSet(names ...string) []Tag {
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		tags = append(tags, Tag(name))
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

// Add returns the set with tag included, preserving sorted order.
func Add(set []Tag, tag Tag) []Tag {
	idx, found := slices.BinarySearch(set, tag)
	if found {
		return set
	}
	return slices.Insert(slices.Clone(set), idx, tag)
}

// Strings converts a tag set back to plain strings for logging and store calls.
func Strings(set []Tag) []string {
	out := make([]string, len(set))
	for i, tag := range set {
		out[i] = string(tag)
	}
	return out
}
