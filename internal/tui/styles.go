package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lapsehq/lapse/internal/cli/formatter"
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(formatter.ColorHeader).
			Bold(true)

	styleListSelected = lipgloss.NewStyle().
				Foreground(formatter.ColorYellow).
				Bold(true)

	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(formatter.ColorDim)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(formatter.ColorBlue)

	styleStatusBar = lipgloss.NewStyle().
			Foreground(formatter.ColorDim).
			Padding(0, 1)
)
