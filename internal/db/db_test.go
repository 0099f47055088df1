package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app.sqlite3", "app.sqlite3?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"},
		{"file:app.sqlite3?mode=rwc", "file:app.sqlite3?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"},
	}

	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(database); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.ExecContext(context.Background(),
		`INSERT INTO items (project_id, name) VALUES (?, ?)`, 42, "Orphan")
	if err == nil {
		t.Fatal("expected foreign key violation for unknown project")
	}
}
