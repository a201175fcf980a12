package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// NotificationStore persists notification requests.  Delivery and
// de-duplication belong to whatever drains this table, not to the writers.
type NotificationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewNotificationStore(db *sql.DB, writer *dbpkg.Worker) *NotificationStore {
	return &NotificationStore{db: db, writer: writer}
}

func (s *NotificationStore) Notify(ctx context.Context, n store.Notification) error {
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO notifications(recipient, kind, message, read, created_at_ms)
VALUES (?, ?, ?, 0, ?);
`, n.Recipient, n.Kind, n.Message, nowMs); err != nil {
			return fmt.Errorf("Notify insert: %w", err)
		}
		return nil
	})
}
