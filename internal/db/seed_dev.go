package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev loads a small working dataset for local development: one
// department window rule, two staff members with badges, a reader and a
// pair of access rules on the main entrance.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	staff := []struct{ identity, name, dept string }{
		{"BG20260001", "Amina Haddad", "ENG"},
		{"BG20260002", "Yacine Merbah", "OPS"},
	}
	for _, s := range staff {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO staff(identity, display_name, department, active, created_at_ms)
VALUES (?, ?, ?, 1, ?);`, s.identity, s.name, s.dept, now); err != nil {
			return fmt.Errorf("seed staff %s: %w", s.identity, err)
		}
	}

	badges := []struct{ token, identity string }{
		{"04AABBCCDD2280", "BG20260001"},
		{"04EEFF00112280", "BG20260002"},
	}
	for _, b := range badges {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO badges(token, identity, active, created_at_ms)
VALUES (?, ?, 1, ?);`, b.token, b.identity, now); err != nil {
			return fmt.Errorf("seed badge %s: %w", b.token, err)
		}
	}

	// 08:00-18:00 window for both departments, 15 minutes of grace.
	for _, dept := range []string{"ENG", "OPS"} {
		if _, err := db.ExecContext(ctx, `
INSERT INTO window_rules(department, start_minute, end_minute, grace_minutes, minimum_hours, active, created_at_ms)
SELECT ?, 480, 1080, 15, 8.0, 1, ?
WHERE NOT EXISTS (SELECT 1 FROM window_rules WHERE department = ?);`,
			dept, now, dept); err != nil {
			return fmt.Errorf("seed window rule %s: %w", dept, err)
		}
	}

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO readers(id, access_point, addr, online, created_at_ms)
VALUES ('reader-001', 'main-entrance', '127.0.0.1:9000', 0, ?);`, now); err != nil {
		return fmt.Errorf("seed reader: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO access_rules(name, rule_type, access_point, priority, conditions, active, created_at_ms)
SELECT 'office-hours', 'TIME_BASED', 'main-entrance', 10,
       '{"start_time":"08:00","end_time":"18:00"}', 1, ?
WHERE NOT EXISTS (SELECT 1 FROM access_rules WHERE name = 'office-hours');`, now); err != nil {
		return fmt.Errorf("seed time rule: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO access_rules(name, rule_type, access_point, priority, conditions, active, created_at_ms)
SELECT 'ops-after-hours', 'USER_BASED', 'main-entrance', 5, '{}', 1, ?
WHERE NOT EXISTS (SELECT 1 FROM access_rules WHERE name = 'ops-after-hours');`, now); err != nil {
		return fmt.Errorf("seed user rule: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO access_rule_users(rule_id, identity)
SELECT id, 'BG20260002' FROM access_rules WHERE name = 'ops-after-hours';`); err != nil {
		return fmt.Errorf("seed user rule allow-list: %w", err)
	}

	return nil
}
