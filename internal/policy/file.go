package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileSchema mirrors the expected policy file layout:
//
//	policies:
//	  - query: list_users
//	    ttl: 10m
//	    mode: sliding
//	    dependencies: [users]
type fileSchema struct {
	Policies []filePolicy `yaml:"policies"`
}

type filePolicy struct {
	Query        string   `yaml:"query"`
	TTL          string   `yaml:"ttl"`
	Mode         string   `yaml:"mode"`
	Dependencies []string `yaml:"dependencies"`
	Quiet        bool     `yaml:"quiet"`
}

// LoadFiles reads YAML policy files and returns policies keyed by query name.
// A query declared in more than one file is a configuration error.
func LoadFiles(paths []string) (map[string]Policy, error) {
	policies := make(map[string]Policy)
	for _, path := range paths {
		if err := loadFile(path, policies); err != nil {
			return nil, err
		}
	}
	return policies, nil
}

func loadFile(path string, into map[string]Policy) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for i, fp := range file.Policies {
		if fp.Query == "" {
			return fmt.Errorf("%s: policy %d is missing a query name", path, i+1)
		}
		if _, exists := into[fp.Query]; exists {
			return fmt.Errorf("%s: duplicate policy for query %q", path, fp.Query)
		}

		p := Default()
		if fp.TTL != "" {
			ttl, err := time.ParseDuration(fp.TTL)
			if err != nil {
				return fmt.Errorf("%s: policy %q: invalid ttl %q: %w", path, fp.Query, fp.TTL, err)
			}
			if ttl <= 0 {
				return fmt.Errorf("%s: policy %q: ttl must be positive", path, fp.Query)
			}
			p.TTL = ttl
		}
		if fp.Mode != "" {
			mode := Mode(fp.Mode)
			if !ValidMode(mode) {
				return fmt.Errorf("%s: policy %q: unsupported mode %q", path, fp.Query, fp.Mode)
			}
			p.Mode = mode
		}
		p.Dependencies = append([]string(nil), fp.Dependencies...)
		p.Quiet = fp.Quiet

		into[fp.Query] = p
	}
	return nil
}
