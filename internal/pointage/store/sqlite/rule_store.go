package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// RuleStore reads the rule configuration tables.  The core never writes
// rules; administrators manage them out of band, so no worker is needed.
type RuleStore struct {
	db *sql.DB
}

func NewRuleStore(db *sql.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ActiveWindowRule returns the department's oldest active window rule so
// evaluation stays deterministic when several are active.
func (s *RuleStore) ActiveWindowRule(ctx context.Context, department string) (store.WindowRule, error) {
	var (
		r           store.WindowRule
		startMin    int
		endMin      int
		createdAtMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT department, start_minute, end_minute, grace_minutes, minimum_hours, created_at_ms
FROM window_rules
WHERE department = ? AND active = 1
ORDER BY created_at_ms ASC
LIMIT 1;
`, department).Scan(&r.Department, &startMin, &endMin, &r.GraceMinutes, &r.MinimumHours, &createdAtMs)
	if err == sql.ErrNoRows {
		return store.WindowRule{}, store.ErrNotFound
	}
	if err != nil {
		return store.WindowRule{}, fmt.Errorf("ActiveWindowRule query: %w", err)
	}

	r.Start = types.TimeOfDay(startMin)
	r.End = types.TimeOfDay(endMin)
	r.Active = true
	r.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	return r, nil
}

// ActiveAccessRules returns the active rules at accessPoint sorted by
// priority descending, ties by creation order.
func (s *RuleStore) ActiveAccessRules(ctx context.Context, accessPoint string) ([]store.AccessRule, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, rule_type, access_point, priority, conditions, valid_from_ms, valid_until_ms, created_at_ms
FROM access_rules
WHERE access_point = ? AND active = 1
ORDER BY priority DESC, created_at_ms ASC, id ASC;
`, accessPoint)
	if err != nil {
		return nil, fmt.Errorf("ActiveAccessRules query: %w", err)
	}
	defer rows.Close()

	var out []store.AccessRule
	var ids []int64
	for rows.Next() {
		var (
			id          int64
			r           store.AccessRule
			conditions  string
			validFrom   sql.NullInt64
			validUntil  sql.NullInt64
			createdAtMs int64
		)
		if err := rows.Scan(&id, &r.Name, &r.Type, &r.AccessPoint, &r.Priority,
			&conditions, &validFrom, &validUntil, &createdAtMs); err != nil {
			return nil, fmt.Errorf("ActiveAccessRules scan: %w", err)
		}
		r.Conditions = json.RawMessage(conditions)
		r.Active = true
		r.CreatedAt = time.UnixMilli(createdAtMs).UTC()
		if validFrom.Valid {
			t := time.UnixMilli(validFrom.Int64).UTC()
			r.ValidFrom = &t
		}
		if validUntil.Valid {
			t := time.UnixMilli(validUntil.Int64).UTC()
			r.ValidUntil = &t
		}
		r.Departments = make(map[string]struct{})
		r.AllowedIDs = make(map[string]struct{})
		out = append(out, r)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		if err := s.loadScopes(ctx, id, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *RuleStore) loadScopes(ctx context.Context, ruleID int64, r *store.AccessRule) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT department FROM access_rule_departments WHERE rule_id = ?;`, ruleID)
	if err != nil {
		return fmt.Errorf("loadScopes departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return fmt.Errorf("loadScopes department scan: %w", err)
		}
		r.Departments[dept] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	userRows, err := s.db.QueryContext(ctx,
		`SELECT identity FROM access_rule_users WHERE rule_id = ?;`, ruleID)
	if err != nil {
		return fmt.Errorf("loadScopes users: %w", err)
	}
	defer userRows.Close()
	for userRows.Next() {
		var identity string
		if err := userRows.Scan(&identity); err != nil {
			return fmt.Errorf("loadScopes user scan: %w", err)
		}
		r.AllowedIDs[identity] = struct{}{}
	}
	return userRows.Err()
}
