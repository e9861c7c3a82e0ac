// Package config loads and validates the depcache configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/electwix/depcache/internal/catalog"
	"github.com/electwix/depcache/internal/fileset"
)

// Source identifies where the resource catalog is enumerated from.
type Source string

const (
	// SourceStatic uses the resource list declared in the config file.
	SourceStatic Source = "static"
	// SourcePostgres enumerates information_schema over a pgx connection.
	SourcePostgres Source = "postgres"
	// SourceSQLite enumerates sqlite_master from a database file.
	SourceSQLite Source = "sqlite"
)

var validSources = map[Source]struct{}{
	SourceStatic:   {},
	SourcePostgres: {},
	SourceSQLite:   {},
}

// CatalogConfig selects and parameterizes the schema enumerator.
type CatalogConfig struct {
	Source    Source   `toml:"source"`
	Schema    string   `toml:"schema"`
	DSN       string   `toml:"dsn"`
	Path      string   `toml:"path"`
	Resources []string `toml:"resources"`
}

// PoliciesConfig lists glob patterns for YAML policy files.
type PoliciesConfig struct {
	Files []string `toml:"files"`
}

// Config mirrors the expected depcache TOML schema.
type Config struct {
	Owner    string         `toml:"owner"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Policies PoliciesConfig `toml:"policies"`
}

// Plan is the fully-resolved configuration used by the engine wiring.
type Plan struct {
	Owner       catalog.Identity
	Source      Source
	Schema      string
	DSN         string
	Path        string
	Resources   []string
	PolicyFiles []string
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict   bool
	Resolver *fileset.Resolver
}

// Result wraps a loaded plan alongside any non-fatal warnings.
type Result struct {
	Plan     Plan
	Warnings []string
}

// Load reads, validates, and resolves a depcache configuration file.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	unknownKeys, err := collectUnknownKeys(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(unknownKeys) > 0 {
		slices.Sort(unknownKeys)
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknownKeys, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	if cfg.Owner == "" {
		return res, fmt.Errorf("%s: owner is required", path)
	}

	source, err := resolveSource(path, cfg.Catalog)
	if err != nil {
		return res, err
	}

	policyFiles, err := resolvePolicyFiles(path, cfg.Policies.Files, opts.Resolver)
	if err != nil {
		return res, err
	}

	res.Plan = Plan{
		Owner:       catalog.Identity(cfg.Owner),
		Source:      source,
		Schema:      cfg.Catalog.Schema,
		DSN:         cfg.Catalog.DSN,
		Path:        cfg.Catalog.Path,
		Resources:   cfg.Catalog.Resources,
		PolicyFiles: policyFiles,
	}

	return res, nil
}

func collectUnknownKeys(data []byte) ([]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	known := map[string]map[string]struct{}{
		"owner": nil,
		"catalog": {
			"source": {}, "schema": {}, "dsn": {}, "path": {}, "resources": {},
		},
		"policies": {
			"files": {},
		},
	}

	unknown := make([]string, 0)
	for key, value := range raw {
		keys, ok := known[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		record, isTable := value.(map[string]any)
		if keys == nil || !isTable {
			continue
		}
		for sub := range record {
			if _, ok := keys[sub]; !ok {
				unknown = append(unknown, key+"."+sub)
			}
		}
	}

	return unknown, nil
}

func resolveSource(path string, cfg CatalogConfig) (Source, error) {
	source := cfg.Source
	if source == "" {
		source = SourceStatic
	}
	if _, ok := validSources[source]; !ok {
		return "", fmt.Errorf("%s: unsupported catalog source %q", path, cfg.Source)
	}

	switch source {
	case SourceStatic:
		if len(cfg.Resources) == 0 {
			return "", fmt.Errorf("%s: catalog.resources must list at least one resource for a static catalog", path)
		}
	case SourcePostgres:
		if cfg.DSN == "" {
			return "", fmt.Errorf("%s: catalog.dsn is required for a postgres catalog", path)
		}
	case SourceSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("%s: catalog.path is required for a sqlite catalog", path)
		}
	}
	return source, nil
}

func resolvePolicyFiles(path string, patterns []string, override *fileset.Resolver) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var resolver fileset.Resolver
	if override != nil {
		resolver = *override
	} else {
		var err error
		resolver, err = fileset.NewOSResolver(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	files, err := resolver.Resolve(patterns)
	if err != nil {
		var noMatchErr fileset.NoMatchError
		if errors.As(err, &noMatchErr) {
			return nil, fmt.Errorf("%s: policy patterns matched no files: %s", path, strings.Join(noMatchErr.Patterns, ", "))
		}
		var patternErr fileset.PatternError
		if errors.As(err, &patternErr) {
			return nil, fmt.Errorf("%s: invalid policy glob %q: %w", path, patternErr.Pattern, patternErr.Err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return files, nil
}
