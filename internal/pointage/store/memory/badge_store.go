package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// BadgeStore holds badge records in memory.
type BadgeStore struct {
	mu       sync.RWMutex
	badges   map[string]store.Badge
	lastUsed map[string]time.Time
}

func NewBadgeStore() *BadgeStore {
	return &BadgeStore{
		badges:   make(map[string]store.Badge),
		lastUsed: make(map[string]time.Time),
	}
}

func (s *BadgeStore) PutBadge(b store.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[b.Token] = b
}

func (s *BadgeStore) Resolve(_ context.Context, token string) (store.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.badges[token]
	if !ok {
		return store.Badge{}, store.ErrNotFound
	}
	return b, nil
}

func (s *BadgeStore) MarkUsed(_ context.Context, token string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed[token] = t
	return nil
}
