package store

import (
	"context"
	"sync"
	"time"

	"github.com/electwix/depcache/internal/deptag"
	"github.com/electwix/depcache/internal/policy"
)

// Memory is an in-process tag-indexed store. Every entry is tracked under
// each of its dependency tags so a purge touches only the affected keys.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	byTag   map[deptag.Tag]map[string]struct{}
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]Entry),
		byTag:   make(map[deptag.Tag]map[string]struct{}),
	}
}

// Set stores value under key, indexed by tags, expiring after ttl. A sliding
// mode entry renews its expiration on every hit.
func (m *Memory) Set(_ context.Context, key string, value any, tags []deptag.Tag, ttl time.Duration, mode policy.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropLocked(key)
	m.entries[key] = Entry{
		Value:     value,
		Tags:      append([]deptag.Tag(nil), tags...),
		ExpiresAt: time.Now().Add(ttl),
		Mode:      mode,
		ttl:       ttl,
	}
	for _, tag := range tags {
		keys, ok := m.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Get retrieves the value stored under key, if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.IsExpired() {
		return nil, false
	}
	if entry.Mode == policy.ModeSliding {
		entry.ExpiresAt = time.Now().Add(entry.ttl)
		m.entries[key] = entry
	}
	return entry.Value, true
}

// InvalidateByTags removes every entry indexed under any of the given tags.
func (m *Memory) InvalidateByTags(_ context.Context, tags []deptag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for key := range m.byTag[tag] {
			m.dropLocked(key)
		}
		delete(m.byTag, tag)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Cleanup removes expired entries and their tag index references.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.entries {
		if entry.IsExpired() {
			m.dropLocked(key)
		}
	}
}

// dropLocked removes key and its tag index references. Caller holds mu.
func (m *Memory) dropLocked(key string) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range entry.Tags {
		if keys, ok := m.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.byTag, tag)
			}
		}
	}
}
