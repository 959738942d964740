// Package inmemcache provides a map-backed offline.Store for tests and local
// development.
package inmemcache

import (
	"sort"
	"sync"

	"github.com/kisanhq/kisan/core/offline"
)

type store struct {
	mu          sync.RWMutex
	generations map[string]map[string]offline.Entry
}

func NewStore() offline.Store {
	return &store{generations: make(map[string]map[string]offline.Entry)}
}

func (s *store) Get(generation, key string) (offline.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.generations[generation]
	if !ok {
		return offline.Entry{}, offline.ErrEntryNotFound
	}
	entry, ok := entries[key]
	if !ok {
		return offline.Entry{}, offline.ErrEntryNotFound
	}
	return entry, nil
}

func (s *store) Put(generation, key string, entry offline.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries(generation)[key] = entry
	return nil
}

// PutAll commits every entry under one lock; a failed install never stages
// anything here, so the all-or-nothing guarantee holds trivially.
func (s *store) PutAll(generation string, entries map[string]offline.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.entries(generation)
	for key, entry := range entries {
		table[key] = entry
	}
	return nil
}

func (s *store) Generations() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *store) DeleteGeneration(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.generations, name)
	return nil
}

// entries returns the table for a generation, creating it if needed; callers
// must hold the write lock.
func (s *store) entries(generation string) map[string]offline.Entry {
	table, ok := s.generations[generation]
	if !ok {
		table = make(map[string]offline.Entry)
		s.generations[generation] = table
	}
	return table
}
