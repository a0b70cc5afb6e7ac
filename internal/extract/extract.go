package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lapsehq/lapse/internal/domain"
)

// ErrNoUserRequest signals that a transcript holds nothing extractable;
// the caller skips the file and continues the batch.
var ErrNoUserRequest = errors.New("no user request found")

var (
	filenamePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_(\d{2}-\d{2})Z-(.+)\.md$`)
	userBlockPattern = regexp.MustCompile(`(?s)_\*\*User.*?\*\*_\s*\n\s*(.+?)(?:\n---|\n_\*\*)`)
)

// ParseFilename derives the session start time and display title from the
// export naming convention YYYY-MM-DD_HH-MMZ-title-slug.md.
func ParseFilename(name string) (time.Time, string, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", fmt.Errorf("filename %q does not match the export convention", name)
	}
	ts, err := time.Parse("2006-01-02T15-04", m[1]+"T"+m[2])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing timestamp from %q: %w", name, err)
	}
	return ts, titleCase(strings.ReplaceAll(m[3], "-", " ")), nil
}

// File reads one transcript and reduces it to a Session. The timestamp
// comes from the filename convention, falling back to file mtime; the
// excerpt is the first user-authored request, bounded at a word boundary.
func File(path string) (domain.Session, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Session{}, fmt.Errorf("reading %s: %w", name, err)
	}

	startedAt, title, err := ParseFilename(name)
	if err != nil {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return domain.Session{}, fmt.Errorf("stat %s: %w", name, statErr)
		}
		startedAt = info.ModTime().UTC()
		title = titleCase(strings.ReplaceAll(strings.TrimSuffix(name, ".md"), "-", " "))
	}

	excerpt := firstUserRequest(string(data))
	if excerpt == "" {
		return domain.Session{}, fmt.Errorf("%s: %w", name, ErrNoUserRequest)
	}

	return domain.Session{
		Filename:  name,
		StartedAt: startedAt,
		Title:     title,
		Excerpt:   domain.TruncateAtWord(excerpt, domain.ExcerptMaxLen),
	}, nil
}

// firstUserRequest isolates the first user-authored block from SpecStory
// markdown. When no block markers are present it falls back to the first
// line that is not a heading, comment, marker, rule, or fenced code.
func firstUserRequest(content string) string {
	if m := userBlockPattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "<!--") || strings.HasPrefix(trimmed, "_**") ||
			strings.HasPrefix(trimmed, "---") {
			continue
		}
		return trimmed
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
