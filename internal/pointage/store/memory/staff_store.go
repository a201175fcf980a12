package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// StaffStore holds staff records and approved leave spans in memory.
// It implements both store.StaffStore and store.LeaveStore.
type StaffStore struct {
	mu      sync.RWMutex
	members map[string]store.Member
	leaves  map[string][]leaveSpan // identity -> approved spans
}

type leaveSpan struct {
	startDay string // "2006-01-02", inclusive
	endDay   string
}

func NewStaffStore() *StaffStore {
	return &StaffStore{
		members: make(map[string]store.Member),
		leaves:  make(map[string][]leaveSpan),
	}
}

func (s *StaffStore) PutMember(m store.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.Identity] = m
}

// PutApprovedLeave registers an approved absence covering [startDay, endDay].
func (s *StaffStore) PutApprovedLeave(identity, startDay, endDay string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves[identity] = append(s.leaves[identity], leaveSpan{startDay, endDay})
}

func (s *StaffStore) Member(_ context.Context, identity string) (store.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[identity]
	if !ok {
		return store.Member{}, store.ErrNotFound
	}
	return m, nil
}

func (s *StaffStore) ListIdentities(_ context.Context, afterID string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.members))
	for id, m := range s.members {
		if m.Active && id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *StaffStore) IsOnApprovedLeave(_ context.Context, identity, day string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, span := range s.leaves[identity] {
		// Day strings are ISO dates, so lexical order is chronological.
		if span.startDay <= day && day <= span.endDay {
			return true, nil
		}
	}
	return false, nil
}
