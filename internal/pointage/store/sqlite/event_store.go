package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

// Append inserts one punch.  For an ARRIVAL, the open-arrival check and the
// insert run inside the same single-writer transaction, so two concurrent
// scans for the same identity cannot both slip past the duplicate check.
func (s *EventStore) Append(ctx context.Context, ev store.Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	tsMs := ev.Timestamp.UTC().UnixMilli()
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if ev.Action == types.ActionArrival {
			var arrivals, departures int
			err := tx.QueryRowContext(ctx, `
SELECT
  COUNT(CASE WHEN action = ? THEN 1 END),
  COUNT(CASE WHEN action = ? THEN 1 END)
FROM attendance_events
WHERE identity = ? AND day = ?;
`, types.ActionArrival, types.ActionDeparture, ev.Identity, ev.Day).Scan(&arrivals, &departures)
			if err != nil {
				return fmt.Errorf("Append open-arrival check: %w", err)
			}
			if arrivals > departures {
				return store.ErrConflict
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_events(
  id, identity, day, ts_ms, action, access_point, note, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, ev.ID, ev.Identity, ev.Day, tsMs, ev.Action, ev.AccessPoint, ev.Note, nowMs); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}

func (s *EventStore) ListDay(ctx context.Context, identity, day string) ([]store.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, identity, day, ts_ms, action, access_point, note
FROM attendance_events
WHERE identity = ? AND day = ?
ORDER BY ts_ms ASC;
`, identity, day)
	if err != nil {
		return nil, fmt.Errorf("ListDay query: %w", err)
	}
	defer rows.Close()

	var out []store.Event
	for rows.Next() {
		var ev store.Event
		var tsMs int64
		if err := rows.Scan(&ev.ID, &ev.Identity, &ev.Day, &tsMs, &ev.Action, &ev.AccessPoint, &ev.Note); err != nil {
			return nil, fmt.Errorf("ListDay scan: %w", err)
		}
		ev.Timestamp = time.UnixMilli(tsMs).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *EventStore) Correct(ctx context.Context, c store.Correction) error {
	if c.CorrectedAt.IsZero() {
		c.CorrectedAt = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM attendance_events WHERE id = ?;`, c.EventID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("Correct lookup: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO event_corrections(
  id, event_id, previous_action, new_action, reason, corrected_by, corrected_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?);
`, c.ID, c.EventID, c.PreviousAction, c.NewAction, c.Reason, c.CorrectedBy,
			c.CorrectedAt.UTC().UnixMilli()); err != nil {
			return fmt.Errorf("Correct insert: %w", err)
		}
		return nil
	})
}
