package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/pointage/store"
)

type DecisionStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDecisionStore(db *sql.DB, writer *dbpkg.Worker) *DecisionStore {
	return &DecisionStore{db: db, writer: writer}
}

func (s *DecisionStore) Record(ctx context.Context, rec store.DecisionRecord) error {
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now().UTC()
	}

	var granted int
	if rec.Granted {
		granted = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_decisions(identity, badge_token, access_point, granted, reason, rule_name, decided_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);
`, rec.Identity, rec.BadgeToken, rec.AccessPoint, granted, rec.Reason, rec.RuleName,
			rec.DecidedAt.UTC().UnixMilli()); err != nil {
			return fmt.Errorf("Record insert: %w", err)
		}
		return nil
	})
}

func (s *DecisionStore) ListRecent(ctx context.Context, limit int) ([]store.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT identity, badge_token, access_point, granted, reason, rule_name, decided_at_ms
FROM access_decisions
ORDER BY decided_at_ms DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent query: %w", err)
	}
	defer rows.Close()

	var out []store.DecisionRecord
	for rows.Next() {
		var rec store.DecisionRecord
		var granted int
		var decidedMs int64
		if err := rows.Scan(&rec.Identity, &rec.BadgeToken, &rec.AccessPoint, &granted, &rec.Reason, &rec.RuleName, &decidedMs); err != nil {
			return nil, fmt.Errorf("ListRecent scan: %w", err)
		}
		rec.Granted = granted == 1
		rec.DecidedAt = time.UnixMilli(decidedMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes decision rows decided before the given cutoff.
// Returns the number of rows deleted.
func (s *DecisionStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM access_decisions
WHERE decided_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
