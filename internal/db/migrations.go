package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: lookup indexes for the three item list scopes.
	`CREATE INDEX IF NOT EXISTS idx_items_project_id ON items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_acquisition_id ON items(acquisition_id)`,
	`CREATE INDEX IF NOT EXISTS idx_acquisitions_scene_id ON acquisitions(scene_id)`,
}

// Migrate ensures the schema exists and applies all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
