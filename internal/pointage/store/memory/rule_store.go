package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// RuleStore holds window and access rules in memory.  Rules are snapshots:
// the getters copy, so a caller's view never changes mid-evaluation.
type RuleStore struct {
	mu          sync.RWMutex
	windowRules []store.WindowRule
	accessRules []store.AccessRule
}

func NewRuleStore() *RuleStore {
	return &RuleStore{}
}

func (s *RuleStore) PutWindowRule(r store.WindowRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowRules = append(s.windowRules, r)
}

func (s *RuleStore) PutAccessRule(r store.AccessRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessRules = append(s.accessRules, r)
}

func (s *RuleStore) ActiveWindowRule(_ context.Context, department string) (store.WindowRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		found bool
		best  store.WindowRule
	)
	for _, r := range s.windowRules {
		if !r.Active || r.Department != department {
			continue
		}
		// Oldest active rule wins, keeping evaluation deterministic when
		// an administrator leaves several active.
		if !found || r.CreatedAt.Before(best.CreatedAt) {
			best = r
			found = true
		}
	}
	if !found {
		return store.WindowRule{}, store.ErrNotFound
	}
	return best, nil
}

func (s *RuleStore) ActiveAccessRules(_ context.Context, accessPoint string) ([]store.AccessRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.AccessRule
	for _, r := range s.accessRules {
		if r.Active && r.AccessPoint == accessPoint {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
