package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/lapsehq/lapse/internal/domain"
)

const (
	// Gaps to the next session are clamped to this range; anything longer
	// likely spans a break, anything shorter still counts as one minute.
	minSessionMinutes = 1
	maxSessionMinutes = 240

	// The last session has no successor to measure against.
	lastSessionMinutes = 30
)

// ClassifiedSession pairs an extracted session with its classification.
type ClassifiedSession struct {
	Session        domain.Session
	Classification domain.Classification
}

// Build assembles the dataset from classified sessions. Sessions are
// ordered by start time (filename breaks ties), durations are derived
// from the gap to the following session. The duration is an approximation
// of working time, not a measurement; transcripts only record when a
// session began.
func Build(sessions []ClassifiedSession, generated time.Time) *Dataset {
	sorted := make([]ClassifiedSession, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Session, sorted[j].Session
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		return a.Filename < b.Filename
	})

	entries := make([]Entry, 0, len(sorted))
	for i, cs := range sorted {
		entries = append(entries, Entry{
			Category:   string(cs.Classification.Category),
			Title:      cs.Classification.Title,
			StartTime:  cs.Session.StartedAt.UTC().Format(time.RFC3339),
			Duration:   durationMinutes(sorted, i),
			Confidence: string(cs.Classification.Confidence),
			Filename:   cs.Session.Filename,
			Preview:    cs.Classification.Preview,
		})
	}

	total := 0
	for _, e := range entries {
		total += e.Duration
	}

	return &Dataset{
		Sessions:      entries,
		TotalDuration: total,
		Categories:    aggregate(entries, total),
		Metadata: Metadata{
			Generated:     generated.UTC().Format(time.RFC3339),
			TotalSessions: len(entries),
			TimeRange:     timeRange(entries),
		},
	}
}

func durationMinutes(sorted []ClassifiedSession, i int) int {
	if i == len(sorted)-1 {
		return lastSessionMinutes
	}
	gap := sorted[i+1].Session.StartedAt.Sub(sorted[i].Session.StartedAt)
	minutes := int(gap.Minutes())
	if minutes < minSessionMinutes {
		return minSessionMinutes
	}
	if minutes > maxSessionMinutes {
		return maxSessionMinutes
	}
	return minutes
}

// aggregate computes per-category stats for categories with at least one
// session, in taxonomy priority order.
func aggregate(entries []Entry, total int) map[string]CategoryStat {
	stats := make(map[string]CategoryStat)
	for _, cat := range domain.Categories() {
		duration := 0
		count := 0
		for _, e := range entries {
			if e.Category != string(cat) {
				continue
			}
			duration += e.Duration
			count++
		}
		if count == 0 {
			continue
		}

		percentage := 0.0
		if total > 0 {
			percentage = math.Round(float64(duration)/float64(total)*1000) / 10
		}
		stats[string(cat)] = CategoryStat{
			Duration:   duration,
			Percentage: percentage,
			Sessions:   count,
			Color:      cat.Color(),
		}
	}
	return stats
}

func timeRange(entries []Entry) TimeRange {
	if len(entries) == 0 {
		return TimeRange{}
	}
	start := entries[0].StartTime
	end := entries[len(entries)-1].StartTime
	return TimeRange{Start: &start, End: &end}
}
