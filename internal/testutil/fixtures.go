package testutil

import (
	"time"

	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/repository"
)

// Cache entry options
type EntryOption func(*repository.CacheEntry)

func WithCategory(c domain.Category) EntryOption {
	return func(e *repository.CacheEntry) {
		e.Classification.Category = c
	}
}

func WithConfidence(c domain.Confidence) EntryOption {
	return func(e *repository.CacheEntry) {
		e.Classification.Confidence = c
	}
}

func WithSource(s domain.Source) EntryOption {
	return func(e *repository.CacheEntry) {
		e.Classification.Source = s
		if s == domain.SourceKeyword {
			e.Classification.Model = ""
		}
	}
}

func WithFilename(name string) EntryOption {
	return func(e *repository.CacheEntry) {
		e.Filename = name
	}
}

func WithCreatedAt(ts time.Time) EntryOption {
	return func(e *repository.CacheEntry) {
		e.CreatedAt = ts
	}
}

// NewTestEntry creates a cache entry with sensible defaults for tests.
func NewTestEntry(fingerprint string, opts ...EntryOption) *repository.CacheEntry {
	e := &repository.CacheEntry{
		Fingerprint: fingerprint,
		Filename:    fingerprint + ".md",
		Classification: domain.Classification{
			Category:   domain.CategoryCodegen,
			Title:      "Test Session",
			Preview:    "A short preview of the request.",
			Confidence: domain.ConfidenceHigh,
			Source:     domain.SourceOpenAI,
			Model:      "gpt-4o-mini",
		},
		CreatedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestSession creates an extracted session with sensible defaults.
func NewTestSession(filename, excerpt string) domain.Session {
	return domain.Session{
		Filename:  filename,
		StartedAt: time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC),
		Title:     "Test Session",
		Excerpt:   excerpt,
	}
}
