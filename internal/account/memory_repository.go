package account

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory account store for tests and local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

// Put stores or replaces a record.
func (r *MemoryRepository) Put(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UserUID] = rec
}

func (r *MemoryRepository) FindByUserUID(_ context.Context, userUID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userUID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
