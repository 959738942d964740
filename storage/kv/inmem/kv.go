// Package inmemkv provides a map-backed key-value repository, standing in for
// the origin-scoped persistent store in tests and local development.
package inmemkv

import (
	"sync"

	"github.com/kisanhq/kisan/core/session"
)

type repository struct {
	mu    sync.RWMutex
	table map[string]string
}

func NewRepository() session.Repository {
	return &repository{table: make(map[string]string)}
}

func (repo *repository) Get(key string) (string, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	value, ok := repo.table[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return value, nil
}

func (repo *repository) Set(key, value string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.table[key] = value
	return nil
}

// Delete removes the given keys; absent keys are not an error.
func (repo *repository) Delete(keys ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, key := range keys {
		delete(repo.table, key)
	}
	return nil
}
