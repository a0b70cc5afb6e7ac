package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// TitleMaxLen and PreviewMaxLen bound the human-readable fields of a
	// classification; the validator truncates at word boundaries to enforce them.
	TitleMaxLen   = 80
	PreviewMaxLen = 120

	// ExcerptMaxLen bounds how much of the first user request is kept for
	// prompting and fingerprinting.
	ExcerptMaxLen = 2000
)

// Session is one transcript file reduced to what the pipeline needs.
// Immutable after extraction.
type Session struct {
	Filename  string
	StartedAt time.Time
	Title     string
	Excerpt   string
}

// Fingerprint is the cache key for the session: a hash over filename and
// extracted excerpt, so editing a transcript invalidates its cached
// classification while untouched files are never reclassified.
func (s Session) Fingerprint() string {
	h := sha256.Sum256([]byte(s.Filename + "\n" + s.Excerpt))
	return hex.EncodeToString(h[:])
}

// Classification is the validated categorization outcome for one session.
type Classification struct {
	Category   Category
	Title      string
	Preview    string
	Confidence Confidence
	Source     Source
	Model      string
}
