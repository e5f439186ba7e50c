package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

// MemoryStorage is an in-process Storage for development and tests.
// Snapshots are stored by value, so callers never alias the saved copy.
type MemoryStorage struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]engine.Snapshot
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snaps: make(map[uuid.UUID]engine.Snapshot),
	}
}

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) SaveSnapshot(ctx context.Context, id uuid.UUID, snap *engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[id] = *snap
	return nil
}

func (m *MemoryStorage) LoadSnapshot(ctx context.Context, id uuid.UUID) (*engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

func (m *MemoryStorage) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

func (m *MemoryStorage) ListSessions(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.snaps))
	for id := range m.snaps {
		ids = append(ids, id)
	}
	return ids, nil
}
