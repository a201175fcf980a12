package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/pointage/store"
)

type ReaderStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewReaderStore(db *sql.DB, writer *dbpkg.Worker) *ReaderStore {
	return &ReaderStore{db: db, writer: writer}
}

func (s *ReaderStore) ListReaders(ctx context.Context) ([]store.Reader, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, access_point, addr, online, last_seen_ms
FROM readers
ORDER BY id ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("ListReaders query: %w", err)
	}
	defer rows.Close()

	var out []store.Reader
	for rows.Next() {
		var (
			r          store.Reader
			online     int
			lastSeenMs sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.AccessPoint, &r.Addr, &online, &lastSeenMs); err != nil {
			return nil, fmt.Errorf("ListReaders scan: %w", err)
		}
		r.Online = online == 1
		if lastSeenMs.Valid {
			t := time.UnixMilli(lastSeenMs.Int64).UTC()
			r.LastSeen = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ReaderStore) MarkReader(ctx context.Context, id string, online bool, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	var onlineInt int
	if online {
		onlineInt = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE readers
SET online = ?, last_seen_ms = ?
WHERE id = ?;
`, onlineInt, t.UTC().UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("MarkReader update: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}
