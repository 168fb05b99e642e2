package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/dungeonforge/pkg/layout"
	"github.com/matzehuels/dungeonforge/pkg/observability"
)

// MemoryStore keeps layouts in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*layout.Layout
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*layout.Layout)}
}

func (s *MemoryStore) Save(ctx context.Context, l *layout.Layout) error {
	s.mu.Lock()
	s.layouts[l.ID] = l
	s.mu.Unlock()

	observability.Store().OnSave(ctx, "memory", l.Level, len(l.Rooms), nil)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	s.mu.RLock()
	l, ok := s.layouts[id]
	s.mu.RUnlock()

	observability.Store().OnLoad(ctx, "memory", id, ok)
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *MemoryStore) List(_ context.Context, level string) ([]*layout.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*layout.Layout
	for _, l := range s.layouts {
		if level == "" || l.Level == level {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *layout.Layout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Len returns the number of stored layouts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layouts)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
