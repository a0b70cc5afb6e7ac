package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/timeline"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"

	breakdownBarWidth = 20
)

// ProgressLine renders one per-session result line as classification
// completes, e.g. `  ✓ Fix login redirect -> debug (high)`. Cache hits
// and keyword fallbacks are annotated inside the parentheses.
func ProgressLine(cs timeline.ClassifiedSession, cached bool) string {
	c := cs.Classification
	note := ConfidenceStyle(c.Confidence).Render(string(c.Confidence))
	switch {
	case cached:
		note += Dim(", cached")
	case c.Source == domain.SourceKeyword:
		note += Dim(", keyword")
	}
	return fmt.Sprintf("  %s %s -> %s (%s)",
		StyleGreen.Render("✓"),
		c.Title,
		CategoryStyle(c.Category).Render(string(c.Category)),
		note)
}

// Summary renders session totals and the per-category breakdown,
// most time first.
func Summary(d *timeline.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total sessions: %d\n", d.Metadata.TotalSessions)
	fmt.Fprintf(&b, "Total duration: %d minutes\n", d.TotalDuration)
	if len(d.Categories) == 0 {
		return b.String()
	}

	b.WriteString("\n" + Bold("Category breakdown:") + "\n")
	for _, name := range breakdownOrder(d.Categories) {
		stat := d.Categories[name]
		cat := domain.Category(name)
		// Pad before styling; the escape codes would count against the width.
		label := CategoryStyle(cat).Render(fmt.Sprintf("%-10s", name))
		bar := CategoryStyle(cat).Render(breakdownBar(stat.Percentage))
		fmt.Fprintf(&b, "  %s %s %5.1f%% (%4d min) - %d sessions\n",
			label, bar, stat.Percentage, stat.Duration, stat.Sessions)
	}
	return b.String()
}

// breakdownOrder sorts category names by total duration, descending.
// Taxonomy order breaks ties so the listing is stable run to run.
func breakdownOrder(stats map[string]timeline.CategoryStat) []string {
	names := make([]string, 0, len(stats))
	for _, c := range domain.Categories() {
		if _, ok := stats[string(c)]; ok {
			names = append(names, string(c))
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return stats[names[i]].Duration > stats[names[j]].Duration
	})
	return names
}

func breakdownBar(pct float64) string {
	f := pct / 100
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	filled := int(f * float64(breakdownBarWidth))
	if filled > breakdownBarWidth {
		filled = breakdownBarWidth
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, breakdownBarWidth-filled)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
