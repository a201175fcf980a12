package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// EventStore is an in-memory append-only punch log for tests and dev.
type EventStore struct {
	mu          sync.Mutex
	byDay       map[string][]store.Event // key: identity + "\x00" + day
	corrections []store.Correction
}

func NewEventStore() *EventStore {
	return &EventStore{byDay: make(map[string][]store.Event)}
}

func dayKey(identity, day string) string { return identity + "\x00" + day }

func (s *EventStore) Append(_ context.Context, ev store.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(ev.Identity, ev.Day)
	if ev.Action == types.ActionArrival && hasOpenArrival(s.byDay[key]) {
		return store.ErrConflict
	}
	s.byDay[key] = append(s.byDay[key], ev)
	return nil
}

func (s *EventStore) ListDay(_ context.Context, identity, day string) ([]store.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evs := s.byDay[dayKey(identity, day)]
	out := make([]store.Event, len(evs))
	copy(out, evs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *EventStore) Correct(_ context.Context, c store.Correction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = append(s.corrections, c)
	return nil
}

// Corrections returns a copy of all correction records.  Test-only helper.
func (s *EventStore) Corrections() []store.Correction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Correction, len(s.corrections))
	copy(out, s.corrections)
	return out
}

// hasOpenArrival reports whether the day has more arrivals than departures,
// i.e. an ARRIVAL not yet closed by a DEPARTURE.
func hasOpenArrival(evs []store.Event) bool {
	open := 0
	for _, ev := range evs {
		switch ev.Action {
		case types.ActionArrival:
			open++
		case types.ActionDeparture:
			open--
		}
	}
	return open > 0
}
