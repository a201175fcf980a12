package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// DecisionStore is an in-memory append-only access decision log.
type DecisionStore struct {
	mu   sync.Mutex
	recs []store.DecisionRecord
}

func NewDecisionStore() *DecisionStore {
	return &DecisionStore{}
}

func (s *DecisionStore) Record(_ context.Context, rec store.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *DecisionStore) ListRecent(_ context.Context, limit int) ([]store.DecisionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.recs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]store.DecisionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.recs[i])
	}
	return out, nil
}

func (s *DecisionStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.recs[:0]
	var deleted int64
	for _, rec := range s.recs {
		if rec.DecidedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.recs = kept
	return deleted, nil
}

// Decisions returns a copy of all recorded decisions, oldest first.
// Test-only helper.
func (s *DecisionStore) Decisions() []store.DecisionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.DecisionRecord, len(s.recs))
	copy(out, s.recs)
	return out
}
