package memory

import (
	"context"
	"sync"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// NotificationStore collects notification requests in memory.
type NotificationStore struct {
	mu    sync.Mutex
	notes []store.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Notify(_ context.Context, n store.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return nil
}

// Notifications returns a copy of everything notified.  Test-only helper.
func (s *NotificationStore) Notifications() []store.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Notification, len(s.notes))
	copy(out, s.notes)
	return out
}
