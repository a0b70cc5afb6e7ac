package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lapsehq/lapse/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CacheEntry is a persisted classification keyed by session fingerprint.
// Rows are append-only: a fingerprint is written once and reused until the
// underlying transcript content changes, which changes the fingerprint.
type CacheEntry struct {
	Fingerprint    string
	Filename       string
	Classification domain.Classification
	CreatedAt      time.Time
}

type CacheRepo interface {
	Get(ctx context.Context, fingerprint string) (*CacheEntry, error)
	Put(ctx context.Context, e *CacheEntry) error
	Count(ctx context.Context) (int, error)
}
