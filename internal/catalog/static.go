package catalog

import (
	"context"
	"fmt"
)

// Static is an Enumerator over a fixed, configuration-declared resource list.
type Static struct {
	resources map[Identity][]string
}

// NewStatic creates a Static enumerator. The map is keyed by schema-owner
// identity; an identity absent from the map fails enumeration.
func NewStatic(resources map[Identity][]string) *Static {
	copied := make(map[Identity][]string, len(resources))
	for identity, names := range resources {
		copied[identity] = append([]string(nil), names...)
	}
	return &Static{resources: copied}
}

// Enumerate returns the declared resource names for identity.
func (s *Static) Enumerate(_ context.Context, identity Identity) ([]string, error) {
	names, ok := s.resources[identity]
	if !ok {
		return nil, fmt.Errorf("no resources declared for schema owner %q", identity)
	}
	return names, nil
}

var _ Enumerator = (*Static)(nil)
