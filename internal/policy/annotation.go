package policy

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// annotationRegex matches @cache directives embedded in SQL comments:
	// -- @cache ttl=5m
	// -- @cache ttl=1h invalidate=users
	// -- @cache ttl=30s invalidate=posts,comments mode=sliding quiet
	annotationRegex = regexp.MustCompile(`^@cache(\s+.*)?$`)

	// ttlRegex matches ttl values
	ttlRegex = regexp.MustCompile(`ttl=(\d+)([smhd])`)

	// invalidateRegex matches declared dependency lists
	invalidateRegex = regexp.MustCompile(`invalidate=([^\s]+)`)

	// modeRegex matches the expiration mode
	modeRegex = regexp.MustCompile(`mode=([^\s]+)`)
)

// ParseAnnotation parses a cache directive from a single comment line.
// Leading comment markers ("--", "#") are tolerated. Returns ok=false if the
// line carries no directive, or the parsed policy and true otherwise. An
// unrecognized mode falls back to absolute rather than failing: annotations
// live inside SQL text and must never break the query they describe.
func ParseAnnotation(line string) (Policy, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "--")
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimSpace(trimmed)

	m := annotationRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return Policy{}, false
	}

	p := Default()
	content := strings.TrimSpace(m[1])
	if content == "" {
		// Bare @cache means enabled with defaults.
		return p, true
	}

	if matches := ttlRegex.FindStringSubmatch(content); len(matches) == 3 {
		amount, _ := strconv.Atoi(matches[1])
		switch matches[2] {
		case "s":
			p.TTL = time.Duration(amount) * time.Second
		case "m":
			p.TTL = time.Duration(amount) * time.Minute
		case "h":
			p.TTL = time.Duration(amount) * time.Hour
		case "d":
			p.TTL = time.Duration(amount) * 24 * time.Hour
		}
	}

	if matches := invalidateRegex.FindStringSubmatch(content); len(matches) == 2 {
		deps := strings.Split(matches[1], ",")
		p.Dependencies = make([]string, 0, len(deps))
		for _, dep := range deps {
			if d := strings.TrimSpace(dep); d != "" {
				p.Dependencies = append(p.Dependencies, d)
			}
		}
	}

	if matches := modeRegex.FindStringSubmatch(content); len(matches) == 2 {
		if mode := Mode(matches[1]); ValidMode(mode) {
			p.Mode = mode
		}
	}

	if hasWord(content, "quiet") {
		p.Quiet = true
	}

	return p, true
}

// FromSQL scans command text for a cache directive and returns the first one
// found, or ok=false when the text carries none.
func FromSQL(sql string) (Policy, bool) {
	for _, line := range strings.Split(sql, "\n") {
		if p, ok := ParseAnnotation(line); ok {
			return p, true
		}
	}
	return Policy{}, false
}

func hasWord(content, word string) bool {
	for _, field := range strings.Fields(content) {
		if field == word {
			return true
		}
	}
	return false
}
