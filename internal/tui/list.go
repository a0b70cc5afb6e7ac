package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lapsehq/lapse/internal/cli/formatter"
	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/timeline"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: the session list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(formatter.ColorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, e := range m.entries {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, entryLines(e, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// entryLines formats a single session as two lines:
//
//	line 1: [>] ● title
//	line 2:     date  duration  confidence (dimmed)
func entryLines(e timeline.Entry, width int, selected bool) []string {
	bullet := formatter.CategoryStyle(domain.Category(e.Category)).Render("●")

	title := strings.ReplaceAll(e.Title, "\n", " ")
	titleMax := width - 2 - 2 - 2 // prefix + bullet + padding
	if titleMax < 0 {
		titleMax = 0
	}
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "")
	}

	line1 := fmt.Sprintf("%s %s", bullet, title)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	meta := fmt.Sprintf("%s  %s  %s", entryDate(e), formatter.FormatMinutes(e.Duration), e.Confidence)
	metaMax := width - 4 // indent
	if metaMax < 0 {
		metaMax = 0
	}
	if runewidth.StringWidth(meta) > metaMax {
		meta = runewidth.Truncate(meta, metaMax, "")
	}
	line2 := "    " + formatter.Dim(meta)

	return []string{line1, line2}
}

// entryDate renders the session start as "MM-DD HH:MM", falling back to
// the raw value when it does not parse.
func entryDate(e timeline.Entry) string {
	t, err := time.Parse(time.RFC3339, e.StartTime)
	if err != nil {
		return e.StartTime
	}
	return t.Format("01-02 15:04")
}

// adjustListScroll keeps the cursor visible within the list panel.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
