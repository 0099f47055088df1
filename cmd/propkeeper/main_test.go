package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/propkeeper/internal/db"
	"github.com/erazemk/propkeeper/internal/logging"
	"github.com/erazemk/propkeeper/internal/store"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("expected length 16, got %d", len(a))
	}
	b, _ := generatePassword(16)
	if a == b {
		t.Error("expected two generated passwords to differ")
	}
}

func TestAddUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := addUser(ctx, database, "props", "supersecret", "Prop Master")
	if err != nil {
		t.Fatalf("addUser: %v", err)
	}
	if user.FullName == nil || *user.FullName != "Prop Master" {
		t.Errorf("unexpected full name %v", user.FullName)
	}

	if _, err := addUser(ctx, database, "props", "supersecret", ""); err == nil {
		t.Error("expected error for duplicate username")
	}

	stored, err := store.GetUserByUsername(ctx, database, "props")
	if err != nil || stored == nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if stored.PasswordHash == "supersecret" {
		t.Error("expected password to be hashed")
	}
}

func TestRunUserCommands(t *testing.T) {
	t.Setenv("PROPKEEPER_LOGGING_LEVEL", "disabled")
	dbPath := filepath.Join(t.TempDir(), "test.sqlite3")
	defer logging.Init(logging.Config{Level: "disabled", Output: io.Discard})

	var out bytes.Buffer
	if err := run([]string{"init", "-db", dbPath}, &out); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := run([]string{"user", "add", "-db", dbPath, "-username", "dresser", "-full-name", "Set Dresser"}, &out); err != nil {
		t.Fatalf("user add: %v", err)
	}
	if !strings.Contains(out.String(), "Password: ") {
		t.Errorf("expected generated password in output, got %q", out.String())
	}

	out.Reset()
	if err := run([]string{"user", "list", "-db", dbPath}, &out); err != nil {
		t.Fatalf("user list: %v", err)
	}
	if !strings.Contains(out.String(), "dresser") || !strings.Contains(out.String(), "Set Dresser") {
		t.Errorf("expected user in listing, got %q", out.String())
	}

	if err := run([]string{"bogus"}, &out); err == nil {
		t.Error("expected error for unknown command")
	}
}
