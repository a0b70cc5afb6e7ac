package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lapsehq/lapse/internal/cli/formatter"
	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/timeline"
)

// renderDetail renders the right panel content for one session.
func renderDetail(e timeline.Entry, width int) string {
	var b strings.Builder
	b.WriteString(formatter.Bold(e.Title) + "\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Category", formatter.CategoryBadge(domain.Category(e.Category))},
		{"Started", entryTimestamp(e)},
		{"Duration", formatter.FormatMinutes(e.Duration)},
		{"Confidence", formatter.ConfidenceStyle(domain.Confidence(e.Confidence)).Render(e.Confidence)},
		{"Transcript", e.Filename},
	}
	for _, r := range rows {
		b.WriteString(formatter.Dim(fmt.Sprintf("%-11s", r.label)) + " " + r.value + "\n")
	}

	if e.Preview != "" {
		b.WriteString("\n" + formatter.Dim("Preview") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(e.Preview) + "\n")
	}

	return b.String()
}

// entryTimestamp renders the session start as "Jan 2, 2006 15:04",
// falling back to the raw value when it does not parse.
func entryTimestamp(e timeline.Entry) string {
	t, err := time.Parse(time.RFC3339, e.StartTime)
	if err != nil {
		return e.StartTime
	}
	return t.Format("Jan 2, 2006 15:04")
}
