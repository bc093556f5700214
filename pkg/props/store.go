// Package props is the named string property storage used to persist test plans.
package props

import (
	"sort"
	"sync"
)

// Store gets and sets named string properties. A missing property reads as "".
type Store interface {
	Get(name string) string
	Set(name, value string)
}

// MemoryStore keeps properties in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	props map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{props: make(map[string]string)}
}

func (s *MemoryStore) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props[name]
}

func (s *MemoryStore) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[name] = value
}

// Keys returns the stored property names in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.props))
	for k := range s.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
