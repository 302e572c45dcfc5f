package kv

import (
	"context"
	"sync"
)

// MemoryRepository keeps pairs in a map. It is safe for concurrent use.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, key string, fn func(current string, found bool) (string, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, found := r.data[key]
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	r.data[key] = next
	return nil
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Updater    = (*MemoryRepository)(nil)
)
