// Package session holds per-user interaction state: the ban-list and
// the submitted preference text. The pipeline never sees this store;
// it receives read-only snapshots by value on each invocation.
package session

import (
	"sort"
	"strings"
	"sync"
)

// Store is the in-memory session state.
type Store struct {
	mu             sync.RWMutex
	bannedSources  map[string]struct{}
	preferenceText string
}

func NewStore() *Store {
	return &Store{bannedSources: make(map[string]struct{})}
}

// BanSource adds a source name to the ban-list. Reports whether the
// entry was new; empty names are rejected.
func (s *Store) BanSource(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(name)
	if _, exists := s.bannedSources[key]; exists {
		return false
	}
	s.bannedSources[key] = struct{}{}
	return true
}

// UnbanSource removes a source from the ban-list.
func (s *Store) UnbanSource(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bannedSources, strings.ToLower(strings.TrimSpace(name)))
}

// SetPreference replaces the submitted preference text.
func (s *Store) SetPreference(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferenceText = text
}

// Snapshot returns copies of the session state for one pipeline
// invocation. Mutating the returned slice never affects the store.
func (s *Store) Snapshot() (bannedSources []string, preferenceText string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	banned := make([]string, 0, len(s.bannedSources))
	for name := range s.bannedSources {
		banned = append(banned, name)
	}
	sort.Strings(banned)
	return banned, s.preferenceText
}
