package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/internal/storage"
	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

// ErrSessionNotFound is returned for commands against unknown session IDs.
var ErrSessionNotFound = fmt.Errorf("session not found")

// mirrorInterval is how often an idle session's snapshot is persisted.
// Commands also persist eagerly, so this only bounds tick-driven drift.
const mirrorInterval = 30 * time.Second

type session struct {
	runner *engine.Runner
	cancel context.CancelFunc
}

// Manager owns all live game sessions. Each session runs its own engine
// goroutine; the manager routes commands to it and mirrors snapshots to
// storage so clients can inspect sessions that have since shut down.
type Manager struct {
	cat   *catalog.Catalog
	tun   engine.Tuning
	store storage.Storage
	log   *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func NewManager(cat *catalog.Catalog, tun engine.Tuning, store storage.Storage, log *slog.Logger) *Manager {
	return &Manager{
		cat:      cat,
		tun:      tun,
		store:    store,
		log:      log,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Create spins up a new game session and returns its initial snapshot.
func (m *Manager) Create(ctx context.Context) (engine.Snapshot, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	eng := engine.New(m.cat, m.tun, rng, m.log)
	id := eng.ID()

	runner := engine.NewRunner(eng, m.log.With("session_id", id))
	runCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.sessions[id] = &session{runner: runner, cancel: cancel}
	m.mu.Unlock()

	go runner.Run(runCtx)
	go m.mirrorLoop(runCtx, id, runner)

	snap, err := runner.Snapshot(ctx)
	if err != nil {
		m.remove(id)
		return engine.Snapshot{}, err
	}
	m.persist(ctx, id, &snap)

	m.log.Info("session created", "session_id", id)
	return snap, nil
}

// mirrorLoop periodically persists a session's snapshot while it runs.
func (m *Manager) mirrorLoop(ctx context.Context, id uuid.UUID, runner *engine.Runner) {
	ticker := time.NewTicker(mirrorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-runner.Done():
			return
		case <-ticker.C:
			snap, err := runner.Snapshot(ctx)
			if err != nil {
				continue
			}
			m.persist(ctx, id, &snap)
		}
	}
}

func (m *Manager) persist(ctx context.Context, id uuid.UUID, snap *engine.Snapshot) {
	if err := m.store.SaveSnapshot(ctx, id, snap); err != nil {
		m.log.Warn("Failed to persist session snapshot", "session_id", id, "error", err)
	}
}

func (m *Manager) get(id uuid.UUID) (*session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.cancel()
	}
}

// Snapshot reads a session's current state: live sessions answer from their
// engine, stopped ones from the storage mirror.
func (m *Manager) Snapshot(ctx context.Context, id uuid.UUID) (engine.Snapshot, error) {
	if s, ok := m.get(id); ok {
		snap, err := s.runner.Snapshot(ctx)
		if err == nil {
			return snap, nil
		}
		if err != engine.ErrStopped {
			return engine.Snapshot{}, err
		}
	}
	snap, err := m.store.LoadSnapshot(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return engine.Snapshot{}, ErrSessionNotFound
		}
		return engine.Snapshot{}, err
	}
	return *snap, nil
}

// Do executes a command on the session's engine goroutine and, on success,
// mirrors the resulting snapshot to storage.
func (m *Manager) Do(ctx context.Context, id uuid.UUID, fn func(*engine.Engine) error) (engine.Snapshot, error) {
	s, ok := m.get(id)
	if !ok {
		return engine.Snapshot{}, ErrSessionNotFound
	}

	var snap engine.Snapshot
	err := s.runner.Do(ctx, func(e *engine.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		snap = e.Snapshot()
		return nil
	})
	if err == engine.ErrStopped {
		return engine.Snapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return engine.Snapshot{}, err
	}

	m.persist(ctx, id, &snap)
	return snap, nil
}

// Delete stops a session and removes its stored snapshot.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	_, live := m.get(id)
	if !live {
		if _, err := m.store.LoadSnapshot(ctx, id); err == storage.ErrNotFound {
			return ErrSessionNotFound
		}
	}
	m.remove(id)
	if err := m.store.DeleteSnapshot(ctx, id); err != nil {
		return err
	}
	m.log.Info("session deleted", "session_id", id)
	return nil
}

// List returns the IDs of all live sessions.
func (m *Manager) List() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown stops every live session, mirroring a final snapshot first.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sessions := make(map[uuid.UUID]*session, len(m.sessions))
	for id, s := range m.sessions {
		sessions[id] = s
	}
	m.sessions = make(map[uuid.UUID]*session)
	m.mu.Unlock()

	for id, s := range sessions {
		if snap, err := s.runner.Snapshot(ctx); err == nil {
			m.persist(ctx, id, &snap)
		}
		s.cancel()
	}
	m.log.Info("all sessions stopped", "count", len(sessions))
}
