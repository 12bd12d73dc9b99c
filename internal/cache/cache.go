// Package cache stores tagged read responses so that a mutation can drop
// every cached read it affects in one call.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotConfigured = errors.New("redis_not_configured")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is the in-process Store used when no redis is configured.
// Expired entries are dropped on read and by a periodic sweep run from Set.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	tags      map[string]map[string]struct{}
	now       func() time.Time
	nextSweep time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(m.now()) {
		m.remove(key)
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(sweepInterval)
	}
	m.remove(key)
	entry := memoryEntry{value: append([]byte(nil), value...), tags: append([]string(nil), tags...)}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	m.entries[key] = entry
	for _, tag := range tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *MemoryStore) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range tags {
		for key := range m.tags[tag] {
			m.remove(key)
		}
		delete(m.tags, tag)
	}
	return nil
}

// Len reports the number of stored entries and indexed tags.
func (m *MemoryStore) Len() (entries, tags int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), len(m.tags)
}

func (m *MemoryStore) sweep(now time.Time) {
	for key, entry := range m.entries {
		if entry.expired(now) {
			m.remove(key)
		}
	}
}

// remove drops key and its tag memberships. Callers hold mu.
func (m *MemoryStore) remove(key string) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range entry.tags {
		keys := m.tags[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.tags, tag)
		}
	}
}
