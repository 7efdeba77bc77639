// Package cache wraps an in-memory TTL store behind the small interface
// the API client and classifier depend on, so tests can substitute a
// no-op or deterministic implementation.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the key→value TTL contract injected into callers.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// Manager is the production Store backed by go-cache.
type Manager struct {
	cache *gocache.Cache
}

// NewManager creates a store with the given default TTL. Expired entries
// are swept every ten minutes.
func NewManager(defaultTTL time.Duration) *Manager {
	return &Manager{
		cache: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func (m *Manager) Get(key string) (interface{}, bool) {
	return m.cache.Get(key)
}

func (m *Manager) Set(key string, value interface{}, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}

func (m *Manager) Delete(key string) {
	m.cache.Delete(key)
}

func (m *Manager) Flush() {
	m.cache.Flush()
}

// Disabled is a Store that never hits; useful in tests and when caching
// is turned off.
type Disabled struct{}

func (Disabled) Get(string) (interface{}, bool)         { return nil, false }
func (Disabled) Set(string, interface{}, time.Duration) {}
