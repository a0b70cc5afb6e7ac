package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lapsehq/lapse/internal/domain"
)

// Gruvbox-inspired color palette for the CLI chrome. Category colors come
// from the taxonomy, not from here.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle returns a style colored with the category's taxonomy color.
func CategoryStyle(c domain.Category) lipgloss.Style {
	hex := c.Color()
	if hex == "" {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// CategoryBadge returns a colored category indicator such as "● debug".
func CategoryBadge(c domain.Category) string {
	return CategoryStyle(c).Render("● " + string(c))
}

// ConfidenceStyle returns the style corresponding to the given confidence level.
func ConfidenceStyle(c domain.Confidence) lipgloss.Style {
	switch c {
	case domain.ConfidenceHigh:
		return StyleGreen
	case domain.ConfidenceMedium:
		return StyleYellow
	case domain.ConfidenceLow:
		return StyleRed
	default:
		return StyleDim
	}
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
