package session

import (
	"context"
	"sync"
	"time"

	"admin-console/internal/models"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !rec.ExpiresAt.After(time.Now()) {
		delete(m.records, id)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s models.Session, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = Record{Session: s, ExpiresAt: expiresAt}
	return nil
}

func (m *MemoryStore) Renew(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.ExpiresAt = expiresAt
	m.records[id] = rec
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}
