package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// ReaderStore tracks registered readers in memory.
type ReaderStore struct {
	mu      sync.RWMutex
	readers map[string]store.Reader
}

func NewReaderStore() *ReaderStore {
	return &ReaderStore{readers: make(map[string]store.Reader)}
}

func (s *ReaderStore) PutReader(r store.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readers[r.ID] = r
}

func (s *ReaderStore) ListReaders(_ context.Context) ([]store.Reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Reader, 0, len(s.readers))
	for _, r := range s.readers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ReaderStore) MarkReader(_ context.Context, id string, online bool, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.readers[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Online = online
	r.LastSeen = &t
	s.readers[id] = r
	return nil
}
