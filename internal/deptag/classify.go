package deptag

import "strings"

// mutatingPrefixes are the statement verbs that change data or schema. The
// trailing space keeps identifiers like "updated_at" from matching.
var mutatingPrefixes = []string{"insert ", "update ", "delete ", "create "}

// IsMutating reports whether sql contains a data- or schema-changing
// statement. Each line is trimmed and checked case-insensitively for a
// mutating verb at its start; multi-line formatted SQL is expected to place
// the verb at the beginning of a line. Unusual formatting can produce false
// negatives, which the caller treats as a read.
func IsMutating(sql string) bool {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range mutatingPrefixes {
			if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
				return true
			}
		}
	}
	return false
}
