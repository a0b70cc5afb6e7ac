package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/lapsehq/lapse/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewFileTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in
// the pool, which is what concurrency and reopen tests need.
func NewFileTestDB(t *testing.T, name string) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("failed to create file test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database, path
}
