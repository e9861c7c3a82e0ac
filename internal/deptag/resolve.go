package deptag

import (
	"slices"

	"github.com/electwix/depcache/internal/logging"
	"github.com/electwix/depcache/internal/policy"
)

// Resolver turns command text into dependency tags. It is a pure function of
// its inputs aside from best-effort diagnostics.
type Resolver struct {
	Log logging.Logger
}

// NewResolver creates a Resolver writing diagnostics to log. A nil log
// disables diagnostics.
func NewResolver(log logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Resolver{Log: log}
}

// Resolve computes the dependency tag set for a command, cascading through
// three sources so the result is never empty:
//
//  1. candidate identifiers extracted from the text, intersected with the
//     known resource names;
//  2. the policy's explicitly declared dependencies;
//  3. the Unknown sentinel.
//
// Commands that touch zero resources and commands whose resources cannot be
// determined are indistinguishable here; both land on the sentinel.
func (r *Resolver) Resolve(p policy.Policy, known []string, sql string) []Tag {
	candidates := ExtractCandidates(sql)
	matched := intersect(known, candidates)

	var tags []Tag
	switch {
	case len(matched) > 0:
		tags = NewSet(matched...)
	case len(p.Dependencies) > 0:
		tags = NewSet(p.Dependencies...)
	default:
		tags = []Tag{Unknown}
	}

	if !p.Quiet {
		r.log().Debug("resolved dependencies",
			"known", known,
			"candidates", candidates,
			"tags", Strings(tags))
	}
	return tags
}

func (r *Resolver) log() logging.Logger {
	if r.Log == nil {
		return logging.NewNopLogger()
	}
	return r.Log
}

// intersect returns the known names that appear among the candidates, by
// exact string match.
func intersect(known, candidates []string) []string {
	matched := make([]string, 0, len(candidates))
	for _, name := range known {
		if slices.Contains(candidates, name) {
			matched = append(matched, name)
		}
	}
	return matched
}
