package tui

import (
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/teatest"
	"github.com/lapsehq/lapse/internal/timeline"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func testDataset() *timeline.Dataset {
	return &timeline.Dataset{
		Sessions: []timeline.Entry{
			{Category: "plan", Title: "Design the schema", StartTime: "2025-07-01T09:00:00Z", Duration: 30, Confidence: "high", Filename: "a.md", Preview: "how should we model sessions"},
			{Category: "debug", Title: "Fix login redirect", StartTime: "2025-07-01T10:00:00Z", Duration: 60, Confidence: "medium", Filename: "b.md", Preview: "login loops forever"},
			{Category: "debug", Title: "Trace nil deref", StartTime: "2025-07-01T11:00:00Z", Duration: 45, Confidence: "low", Filename: "c.md", Preview: "panic in request handler"},
		},
		TotalDuration: 135,
		Categories: map[string]timeline.CategoryStat{
			"plan":  {Duration: 30, Percentage: 22.2, Sessions: 1},
			"debug": {Duration: 105, Percentage: 77.8, Sessions: 2},
		},
		Metadata: timeline.Metadata{TotalSessions: 3},
	}
}

func newDriver(t *testing.T, ds *timeline.Dataset, w, h int) *teatest.Driver {
	t.Helper()
	return teatest.New(t, newModel(ds), teatest.WithSize(w, h))
}

// current unwraps the driver's model for state assertions.
func current(d *teatest.Driver) model {
	return d.Model.(model)
}

func TestNewModel_StartsUnfiltered(t *testing.T) {
	m := newModel(testDataset())

	assert.Len(t, m.entries, 3)
	assert.Equal(t, 0, m.filterIdx)
	assert.Equal(t, []domain.Category{domain.CategoryPlan, domain.CategoryDebug}, m.filters)
}

func TestModel_WindowSizeMakesReady(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)

	m := current(d)
	assert.True(t, m.ready)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
}

func TestModel_CursorNavigation(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)

	d.Press('j')
	assert.Equal(t, 1, current(d).cursor)

	d.Press('j')
	d.Press('j')
	assert.Equal(t, 2, current(d).cursor, "cursor stops at the last entry")

	d.Press('k')
	d.PressKey(tea.KeyUp)
	d.PressKey(tea.KeyUp)
	assert.Equal(t, 0, current(d).cursor, "cursor stops at the first entry")
}

func TestModel_FilterCycling(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)

	d.PressKey(tea.KeyTab)
	m := current(d)
	assert.Equal(t, 1, m.filterIdx)
	require.Len(t, m.entries, 1)
	assert.Equal(t, "plan", m.entries[0].Category)

	d.PressKey(tea.KeyTab)
	m = current(d)
	require.Len(t, m.entries, 2)
	assert.Equal(t, "debug", m.entries[0].Category)

	d.PressKey(tea.KeyTab)
	m = current(d)
	assert.Equal(t, 0, m.filterIdx)
	assert.Len(t, m.entries, 3, "cycle wraps back to all sessions")
}

func TestModel_FilterResetsCursor(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)
	d.Press('j')
	require.Equal(t, 1, current(d).cursor)

	d.PressKey(tea.KeyTab)

	m := current(d)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.listOffset)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, name := range []string{"q", "esc", "ctrl+c"} {
		d := newDriver(t, testDataset(), 100, 30)
		switch name {
		case "q":
			d.Press('q')
		case "esc":
			d.PressKey(tea.KeyEsc)
		case "ctrl+c":
			d.PressKey(tea.KeyCtrlC)
		}

		assert.True(t, d.Quitting, "%s quits", name)
		assert.True(t, current(d).quitting, "%s sets the model quitting flag", name)
	}
}

func TestModel_ViewEmptyBeforeReady(t *testing.T) {
	d := teatest.New(t, newModel(testDataset()))
	assert.Empty(t, d.View())
}

func TestModel_ViewRendersPanelsAndStatus(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)

	got := stripANSI(d.View())

	assert.Contains(t, got, "lapse timeline")
	assert.Contains(t, got, "Design the schema")
	assert.Contains(t, got, "3/3 sessions")
	assert.Contains(t, got, "all categories")
}

func TestModel_ViewReflectsActiveFilter(t *testing.T) {
	d := newDriver(t, testDataset(), 100, 30)
	d.PressKey(tea.KeyTab)

	got := stripANSI(d.View())

	assert.Contains(t, got, "1/3 sessions")
	assert.Contains(t, got, "● plan")
	assert.NotContains(t, got, "Fix login redirect")
}

func TestModel_EmptyDatasetShowsPlaceholder(t *testing.T) {
	ds := &timeline.Dataset{Categories: map[string]timeline.CategoryStat{}}
	d := newDriver(t, ds, 100, 30)

	assert.Contains(t, stripANSI(d.View()), "No sessions")
}

func TestModel_ScrollFollowsCursor(t *testing.T) {
	// Height 10 leaves a 5-line panel: two visible items.
	d := newDriver(t, testDataset(), 100, 10)

	d.Press('j')
	d.Press('j')

	m := current(d)
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, 1, m.listOffset)

	d.Press('k')
	d.Press('k')
	assert.Equal(t, 0, current(d).listOffset, "scrolling up follows the cursor back")
}

func TestEntryLines_SelectedMarker(t *testing.T) {
	e := testDataset().Sessions[0]

	selected := stripANSI(entryLines(e, 40, true)[0])
	normal := stripANSI(entryLines(e, 40, false)[0])

	assert.True(t, len(selected) > 2 && selected[:2] == "> ", "selected line starts with marker: %q", selected)
	assert.True(t, len(normal) > 2 && normal[:2] == "  ", "normal line starts with padding: %q", normal)
}

func TestEntryLines_TruncatesLongTitle(t *testing.T) {
	e := testDataset().Sessions[0]
	e.Title = "An extremely long session title that cannot possibly fit in a narrow list panel"

	line1 := stripANSI(entryLines(e, 24, false)[0])

	assert.NotContains(t, line1, "narrow list panel")
	assert.LessOrEqual(t, len([]rune(line1)), 24)
}

func TestEntryDate_FallsBackToRawValue(t *testing.T) {
	e := timeline.Entry{StartTime: "not-a-timestamp"}
	assert.Equal(t, "not-a-timestamp", entryDate(e))

	e.StartTime = "2025-07-01T09:30:00Z"
	assert.Equal(t, "07-01 09:30", entryDate(e))
}

func TestRenderDetail_Fields(t *testing.T) {
	e := testDataset().Sessions[1]

	got := stripANSI(renderDetail(e, 60))

	assert.Contains(t, got, "Fix login redirect")
	assert.Contains(t, got, "● debug")
	assert.Contains(t, got, "Jul 1, 2025 10:00")
	assert.Contains(t, got, "1h")
	assert.Contains(t, got, "medium")
	assert.Contains(t, got, "b.md")
	assert.Contains(t, got, "login loops forever")
}

func TestPresentCategories_TaxonomyOrder(t *testing.T) {
	ds := &timeline.Dataset{
		Categories: map[string]timeline.CategoryStat{
			"meta":  {},
			"debug": {},
			"plan":  {},
		},
	}

	got := presentCategories(ds)

	assert.Equal(t, []domain.Category{domain.CategoryPlan, domain.CategoryDebug, domain.CategoryMeta}, got)
}
