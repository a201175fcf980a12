package db

import (
	"context"
	"path/filepath"
	"testing"
)

// Opening through this package alone must work: the driver registration
// lives here, not in some other package the server may or may not link.
func TestOpen_FreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointage.db")

	conn, err := Open(context.Background(), Config{Path: path, Env: "dev"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	var applied int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations;`).Scan(&applied); err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("expected migrations to be applied on open")
	}

	var tables int
	err = conn.QueryRow(`
SELECT COUNT(*) FROM sqlite_master
WHERE type = 'table' AND name IN ('staff', 'attendance_events', 'access_decisions');
`).Scan(&tables)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if tables != 3 {
		t.Fatalf("expected core tables to exist, found %d of 3", tables)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointage.db")
	ctx := context.Background()

	first, err := Open(ctx, Config{Path: path, Env: "dev"})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	// Reopening must not re-apply migrations.
	second, err := Open(ctx, Config{Path: path, Env: "dev"})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	var applied int
	if err := second.QueryRow(`SELECT COUNT(*) FROM schema_migrations;`).Scan(&applied); err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected exactly 1 applied migration, got %d", applied)
	}
}
