package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestRunMigrationsIdempotent(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// the index migrations are not rerunnable on their own; the ledger has to
	// carry a second run past them
	if err := RunMigrations(conn, ""); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(conn, ""); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if n < 2 {
		t.Fatalf("expected every migration recorded once, got %d rows", n)
	}
	var dup int
	if err := conn.QueryRow("SELECT COUNT(*) - COUNT(DISTINCT name) FROM schema_migrations").Scan(&dup); err != nil {
		t.Fatalf("check duplicate records: %v", err)
	}
	if dup != 0 {
		t.Fatalf("migrations recorded more than once: %d duplicates", dup)
	}
}

func TestRunMigrationsRecordsNames(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := RunMigrations(conn, ""); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	var got int
	err = conn.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = ?", "0001_init.sql").Scan(&got)
	if err != nil {
		t.Fatalf("query ledger: %v", err)
	}
	if got != 1 {
		t.Fatalf("0001_init.sql not recorded")
	}
}
