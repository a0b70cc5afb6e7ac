package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS classification_cache (
		fingerprint TEXT PRIMARY KEY,
		filename    TEXT NOT NULL,
		category    TEXT NOT NULL
		            CHECK(category IN ('plan','codegen','refactor','debug','feature','review','meta','config')),
		title       TEXT NOT NULL,
		preview     TEXT NOT NULL,
		confidence  TEXT NOT NULL DEFAULT 'low'
		            CHECK(confidence IN ('high','medium','low')),
		source      TEXT NOT NULL DEFAULT 'openai'
		            CHECK(source IN ('openai','keyword')),
		created_at  TEXT NOT NULL
	)`,

	// Record which model produced an API classification
	`ALTER TABLE classification_cache ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
}
