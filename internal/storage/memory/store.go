// Package memory is an in-memory snapshot store used in tests and when no
// data path is configured.
package memory

import (
	"context"
	"sync"

	"github.com/medscribe/clinical-copilot/internal/storage"
)

// Store keeps the latest snapshot in memory.
type Store struct {
	mu   sync.RWMutex
	snap *storage.Snapshot
}

var _ storage.SnapshotStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil
	}
	copied := *s.snap
	return &copied, nil
}

func (s *Store) Save(_ context.Context, snap *storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	copied.Version = storage.SchemaVersion
	s.snap = &copied
	return nil
}

func (s *Store) Close() error { return nil }
