package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is a process-local cache with the same versioning rules as
// CacheService. Only safe to use when a single process serves the store,
// as with the in-memory account repository.
type MemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]memoryEntry
	versions map[string]int64
	now      func() time.Time
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:      defaultTTL,
		entries:  make(map[string]memoryEntry),
		versions: make(map[string]int64),
		now:      time.Now,
	}
}

func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *MemoryCache) SetVersioned(ctx context.Context, key, versionKey string, version int64, value interface{}) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cache value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.versions[versionKey] > version {
		return false, nil
	}
	m.entries[key] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	return true, nil
}

func (m *MemoryCache) Invalidate(ctx context.Context, versionKey string, version int64, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version > m.versions[versionKey] {
		m.versions[versionKey] = version
	}
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}
