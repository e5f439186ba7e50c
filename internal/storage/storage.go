package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

// ErrNotFound is returned when no snapshot exists for a session.
var ErrNotFound = errors.New("session snapshot not found")

// Storage persists session snapshots so a restarted service can offer
// reconnecting clients their last known state. The live simulation never
// reads from storage; snapshots are mirrors, not the source of truth.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveSnapshot(ctx context.Context, id uuid.UUID, snap *engine.Snapshot) error
	LoadSnapshot(ctx context.Context, id uuid.UUID) (*engine.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
	ListSessions(ctx context.Context) ([]uuid.UUID, error)
}
