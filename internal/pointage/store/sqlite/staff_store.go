package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// StaffStore reads staff records and approved leave spans.  It implements
// both store.StaffStore and store.LeaveStore.
type StaffStore struct {
	db *sql.DB
}

func NewStaffStore(db *sql.DB) *StaffStore {
	return &StaffStore{db: db}
}

func (s *StaffStore) Member(ctx context.Context, identity string) (store.Member, error) {
	var m store.Member
	var active int
	err := s.db.QueryRowContext(ctx, `
SELECT identity, department, active
FROM staff
WHERE identity = ?;
`, identity).Scan(&m.Identity, &m.Department, &active)
	if err == sql.ErrNoRows {
		return store.Member{}, store.ErrNotFound
	}
	if err != nil {
		return store.Member{}, fmt.Errorf("Member query: %w", err)
	}
	m.Active = active == 1
	return m, nil
}

func (s *StaffStore) ListIdentities(ctx context.Context, afterID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT identity
FROM staff
WHERE active = 1 AND identity > ?
ORDER BY identity ASC
LIMIT ?;
`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListIdentities query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ListIdentities scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *StaffStore) IsOnApprovedLeave(ctx context.Context, identity, day string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
SELECT 1
FROM leaves
WHERE identity = ? AND status = 'APPROVED' AND start_day <= ? AND end_day >= ?
LIMIT 1;
`, identity, day, day).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsOnApprovedLeave query: %w", err)
	}
	return true, nil
}
