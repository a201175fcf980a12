package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/pointage/store"
)

type BadgeStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBadgeStore(db *sql.DB, writer *dbpkg.Worker) *BadgeStore {
	return &BadgeStore{db: db, writer: writer}
}

func (s *BadgeStore) Resolve(ctx context.Context, token string) (store.Badge, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return store.Badge{}, store.ErrNotFound
	}

	var (
		b         store.Badge
		active    int
		expiresMs sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT token, identity, active, expires_at_ms
FROM badges
WHERE token = ?;
`, token).Scan(&b.Token, &b.Identity, &active, &expiresMs)
	if err == sql.ErrNoRows {
		return store.Badge{}, store.ErrNotFound
	}
	if err != nil {
		return store.Badge{}, fmt.Errorf("Resolve query: %w", err)
	}

	b.Active = active == 1
	if expiresMs.Valid {
		t := time.UnixMilli(expiresMs.Int64).UTC()
		b.ExpiresAt = &t
	}
	return b, nil
}

func (s *BadgeStore) MarkUsed(ctx context.Context, token string, t time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE badges
SET last_used_at_ms = ?
WHERE token = ?;
`, ms, token); err != nil {
			return fmt.Errorf("MarkUsed update: %w", err)
		}
		return nil
	})
}
