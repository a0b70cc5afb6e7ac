package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/timeline"
)

// ansiPattern matches ANSI escape sequences for stripping before comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func classifiedFor(cat domain.Category, conf domain.Confidence, src domain.Source) timeline.ClassifiedSession {
	return timeline.ClassifiedSession{
		Session: domain.Session{Filename: "a.md"},
		Classification: domain.Classification{
			Category:   cat,
			Title:      "Fix login redirect",
			Confidence: conf,
			Source:     src,
		},
	}
}

func TestProgressLine_APIResult(t *testing.T) {
	cs := classifiedFor(domain.CategoryDebug, domain.ConfidenceHigh, domain.SourceOpenAI)
	got := stripANSI(ProgressLine(cs, false))
	assert.Equal(t, "  ✓ Fix login redirect -> debug (high)", got)
}

func TestProgressLine_CacheHitAnnotated(t *testing.T) {
	cs := classifiedFor(domain.CategoryDebug, domain.ConfidenceHigh, domain.SourceOpenAI)
	got := stripANSI(ProgressLine(cs, true))
	assert.Equal(t, "  ✓ Fix login redirect -> debug (high, cached)", got)
}

func TestProgressLine_KeywordFallbackAnnotated(t *testing.T) {
	cs := classifiedFor(domain.CategoryPlan, domain.ConfidenceMedium, domain.SourceKeyword)
	got := stripANSI(ProgressLine(cs, false))
	assert.Equal(t, "  ✓ Fix login redirect -> plan (medium, keyword)", got)
}

func TestProgressLine_CachedKeywordReadsAsCacheHit(t *testing.T) {
	cs := classifiedFor(domain.CategoryPlan, domain.ConfidenceLow, domain.SourceKeyword)
	got := stripANSI(ProgressLine(cs, true))
	assert.Equal(t, "  ✓ Fix login redirect -> plan (low, cached)", got)
}

func TestSummary_BreakdownRows(t *testing.T) {
	d := &timeline.Dataset{
		TotalDuration: 90,
		Categories: map[string]timeline.CategoryStat{
			"debug": {Duration: 60, Percentage: 66.7, Sessions: 2},
			"plan":  {Duration: 30, Percentage: 33.3, Sessions: 1},
		},
		Metadata: timeline.Metadata{TotalSessions: 3},
	}

	got := stripANSI(Summary(d))

	assert.Contains(t, got, "Total sessions: 3\nTotal duration: 90 minutes\n")
	assert.Contains(t, got, "Category breakdown:\n")
	assert.Contains(t, got, "  debug      █████████████░░░░░░░  66.7% (  60 min) - 2 sessions\n")
	assert.Contains(t, got, "  plan       ██████░░░░░░░░░░░░░░  33.3% (  30 min) - 1 sessions\n")
}

func TestSummary_SortedByDurationDesc(t *testing.T) {
	d := &timeline.Dataset{
		TotalDuration: 100,
		Categories: map[string]timeline.CategoryStat{
			"plan":  {Duration: 10, Percentage: 10, Sessions: 1},
			"meta":  {Duration: 70, Percentage: 70, Sessions: 3},
			"debug": {Duration: 20, Percentage: 20, Sessions: 2},
		},
		Metadata: timeline.Metadata{TotalSessions: 6},
	}

	got := stripANSI(Summary(d))

	meta := strings.Index(got, "meta")
	debug := strings.Index(got, "debug")
	plan := strings.Index(got, "plan")
	assert.True(t, meta < debug && debug < plan, "rows out of order:\n%s", got)
}

func TestSummary_EmptyDatasetOmitsBreakdown(t *testing.T) {
	d := &timeline.Dataset{Categories: map[string]timeline.CategoryStat{}}

	got := stripANSI(Summary(d))

	assert.Equal(t, "Total sessions: 0\nTotal duration: 0 minutes\n", got)
}

func TestBreakdownBar_Proportional(t *testing.T) {
	assert.Equal(t, strings.Repeat(emptyBlock, 20), breakdownBar(0))
	assert.Equal(t, strings.Repeat(filledBlock, 10)+strings.Repeat(emptyBlock, 10), breakdownBar(50))
	assert.Equal(t, strings.Repeat(filledBlock, 20), breakdownBar(100))
}

func TestBreakdownBar_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, strings.Repeat(emptyBlock, 20), breakdownBar(-5))
	assert.Equal(t, strings.Repeat(filledBlock, 20), breakdownBar(150))
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{135, "2h 15m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.min))
	}
}
