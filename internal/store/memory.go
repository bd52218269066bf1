package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
)

// Snapshot is one loaded and cleaned source. It is never mutated after it
// is stored, so readers share it without copying.
type Snapshot struct {
	Key      string
	Raw      models.Table
	Table    models.Table
	Report   models.CleanReport
	Quality  models.DataQuality
	LoadedAt time.Time
}

// Query returns the cleaned rows dated within [from, to]. Zero bounds are open.
func (s *Snapshot) Query(from, to time.Time) models.Table {
	return s.Table.Between(from, to)
}

type LoadFunc func(ctx context.Context) (*Snapshot, error)

// MemoryStore is a read-through cache of snapshots keyed by source path.
// Concurrent misses on the same key share one load.
type MemoryStore struct {
	mu      sync.RWMutex
	snaps   map[string]*Snapshot
	group   singleflight.Group
	enabled bool
}

// NewMemoryStore returns a store; with enabled false every call loads.
func NewMemoryStore(enabled bool) *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot), enabled: enabled}
}

func (s *MemoryStore) Get(key string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[key]
	return snap, ok
}

// GetOrLoad returns the cached snapshot for key or runs load once for all
// concurrent callers. Failed loads are not cached.
func (s *MemoryStore) GetOrLoad(ctx context.Context, key string, load LoadFunc) (*Snapshot, error) {
	if s.enabled {
		if snap, ok := s.Get(key); ok {
			observability.RecordCache(true)
			return snap, nil
		}
	}
	observability.RecordCache(false)

	ch := s.group.DoChan(key, func() (any, error) {
		// Shared by every waiter, so not tied to this caller's cancellation.
		snap, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		snap.Key = key
		if snap.LoadedAt.IsZero() {
			snap.LoadedAt = time.Now().UTC()
		}
		if s.enabled {
			s.mu.Lock()
			s.snaps[key] = snap
			s.mu.Unlock()
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops key and reports whether it was cached.
func (s *MemoryStore) Invalidate(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.snaps[key]
	delete(s.snaps, key)
	s.group.Forget(key)
	return ok
}
