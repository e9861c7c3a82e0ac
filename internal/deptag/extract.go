package deptag

import (
	"slices"
	"strings"
)

// markers are the keywords that typically precede a table reference.
var markers = map[string]struct{}{
	"FROM":   {},
	"JOIN":   {},
	"INTO":   {},
	"UPDATE": {},
}

// quoteChars covers bracket, backtick, and quote styles across dialects.
const quoteChars = "[]`'\""

// ExtractCandidates scans sql for identifiers that follow a FROM, JOIN, INTO,
// or UPDATE marker and returns them as a sorted, deduplicated list. The scan
// is whitespace-token based, not grammatical: it is cheap, total, and wrong
// often enough that callers must intersect the result against a catalog of
// known resource names before trusting it.
func ExtractCandidates(sql string) []string {
	tokens := strings.Fields(sql)
	seen := make(map[string]struct{})
	for i, tok := range tokens {
		if _, ok := markers[strings.ToUpper(tok)]; !ok {
			continue
		}
		// A marker as the final token has nothing to name.
		if i+1 >= len(tokens) {
			continue
		}
		if name := normalizeCandidate(tokens[i+1]); name != "" {
			seen[name] = struct{}{}
		}
	}

	candidates := make([]string, 0, len(seen))
	for name := range seen {
		candidates = append(candidates, name)
	}
	slices.Sort(candidates)
	return candidates
}

// normalizeCandidate strips one leading schema qualifier and any surrounding
// quoting from a raw token, so schema.table and [dbo].[Products] both reduce
// to a bare table name. Only the second dot segment is ever taken; deeper
// qualifiers like server.schema.table collapse to their second segment, and
// that truncation rule is load-bearing for catalog matching.
func normalizeCandidate(tok string) string {
	parts := strings.Split(tok, ".")
	name := parts[0]
	if len(parts) > 1 {
		name = parts[1]
	}
	return strings.Trim(name, quoteChars)
}
