package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// OpenDB already migrated once; repeat runs must not fail.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesCacheTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='classification_cache'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "classification_cache", name)
}

func TestMigrate_ModelColumnExists(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(classification_cache)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "model" {
			found = true
		}
	}
	require.NoError(t, rows.Err())
	assert.True(t, found, "classification_cache should have model column")
}

func TestMigrate_CategoryCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO classification_cache (fingerprint, filename, category, title, preview, created_at)
		VALUES ('f1', 'a.md', 'INVALID', 'T', 'P', '2025-07-01T00:00:00Z')`)
	assert.Error(t, err, "invalid category should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO classification_cache (fingerprint, filename, category, title, preview, created_at)
		VALUES ('f1', 'a.md', 'debug', 'T', 'P', '2025-07-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_ConfidenceAndSourceDefaults(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO classification_cache (fingerprint, filename, category, title, preview, created_at)
		VALUES ('f1', 'a.md', 'plan', 'T', 'P', '2025-07-01T00:00:00Z')`)
	require.NoError(t, err)

	var confidence, source, model string
	err = db.QueryRow(`SELECT confidence, source, model FROM classification_cache WHERE fingerprint = 'f1'`).
		Scan(&confidence, &source, &model)
	require.NoError(t, err)
	assert.Equal(t, "low", confidence)
	assert.Equal(t, "openai", source)
	assert.Equal(t, "", model)
}

func TestMigrate_SourceCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO classification_cache (fingerprint, filename, category, title, preview, source, created_at)
		VALUES ('f1', 'a.md', 'plan', 'T', 'P', 'oracle', '2025-07-01T00:00:00Z')`)
	assert.Error(t, err, "unknown source should be rejected by CHECK constraint")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory" journal mode; WAL only applies to
	// file DBs. The file-backed variant below asserts the real mode.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileBackedUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	err = db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestOpenDB_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "cache.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO classification_cache (fingerprint, filename, category, title, preview, created_at)
		VALUES ('f1', 'a.md', 'plan', 'T', 'P', '2025-07-01T00:00:00Z')`)
	assert.NoError(t, err)
}
