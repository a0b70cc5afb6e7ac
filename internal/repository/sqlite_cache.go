package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lapsehq/lapse/internal/domain"
)

// SQLiteCacheRepo implements CacheRepo using a SQLite database.
type SQLiteCacheRepo struct {
	db *sql.DB
}

// NewSQLiteCacheRepo creates a new SQLiteCacheRepo.
func NewSQLiteCacheRepo(db *sql.DB) *SQLiteCacheRepo {
	return &SQLiteCacheRepo{db: db}
}

func (r *SQLiteCacheRepo) Get(ctx context.Context, fingerprint string) (*CacheEntry, error) {
	query := `SELECT fingerprint, filename, category, title, preview, confidence, source, model, created_at
		FROM classification_cache WHERE fingerprint = ?`
	row := r.db.QueryRowContext(ctx, query, fingerprint)

	var e CacheEntry
	var category, confidence, source, createdAtStr string
	err := row.Scan(
		&e.Fingerprint, &e.Filename, &category,
		&e.Classification.Title, &e.Classification.Preview,
		&confidence, &source, &e.Classification.Model, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cache entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	e.Classification.Category = domain.Category(category)
	e.Classification.Confidence = domain.Confidence(confidence)
	e.Classification.Source = domain.Source(source)
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}

// Put inserts an entry, silently keeping the existing row when the
// fingerprint is already cached. Concurrent workers may race on the same
// fingerprint; first write wins and both results are equivalent.
func (r *SQLiteCacheRepo) Put(ctx context.Context, e *CacheEntry) error {
	query := `INSERT OR IGNORE INTO classification_cache
		(fingerprint, filename, category, title, preview, confidence, source, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		e.Fingerprint,
		e.Filename,
		string(e.Classification.Category),
		e.Classification.Title,
		e.Classification.Preview,
		string(e.Classification.Confidence),
		string(e.Classification.Source),
		e.Classification.Model,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting cache entry: %w", err)
	}
	return nil
}

func (r *SQLiteCacheRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classification_cache`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
