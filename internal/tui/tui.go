// Package tui renders a generated timeline dataset as an interactive
// two-panel viewer: a scrolling session list on the left, details for
// the selected session on the right, with a tab-cycled category filter.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapsehq/lapse/internal/cli/formatter"
	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/timeline"
)

type model struct {
	ds      *timeline.Dataset
	filters []domain.Category

	// entries is the filtered view over ds.Sessions.
	entries    []timeline.Entry
	filterIdx  int // 0 = all, else filters[filterIdx-1]
	cursor     int
	listOffset int

	detail   viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

func newModel(ds *timeline.Dataset) model {
	return model{
		ds:      ds,
		filters: presentCategories(ds),
		entries: ds.Sessions,
		detail:  viewport.New(0, 0),
	}
}

// Run starts the viewer and blocks until the user quits.
func Run(ds *timeline.Dataset) error {
	p := tea.NewProgram(newModel(ds), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// presentCategories returns the categories that occur in the dataset,
// in taxonomy order, so the filter cycle is stable.
func presentCategories(ds *timeline.Dataset) []domain.Category {
	var out []domain.Category
	for _, c := range domain.Categories() {
		if _, ok := ds.Categories[string(c)]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = viewport.New(m.detailWidth(), m.panelHeight())
		m.adjustListScroll(m.panelHeight())
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshDetail()
			}
			return m, nil

		case key.Matches(msg, keys.Filter):
			m.filterIdx = (m.filterIdx + 1) % (len(m.filters) + 1)
			m.applyFilter()
			return m, nil

		case key.Matches(msg, keys.DetailUp):
			m.detail.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.DetailDn):
			m.detail.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.detail.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.detail.LineDown(m.panelHeight())
			return m, nil
		}
	}

	return m, nil
}

// applyFilter rebuilds the visible entries for the active filter and
// resets the selection.
func (m *model) applyFilter() {
	if m.filterIdx == 0 {
		m.entries = m.ds.Sessions
	} else {
		cat := string(m.filters[m.filterIdx-1])
		filtered := make([]timeline.Entry, 0, len(m.ds.Sessions))
		for _, e := range m.ds.Sessions {
			if e.Category == cat {
				filtered = append(filtered, e)
			}
		}
		m.entries = filtered
	}
	m.cursor = 0
	m.listOffset = 0
	m.refreshDetail()
}

func (m *model) refreshDetail() {
	if !m.ready {
		return
	}
	if len(m.entries) == 0 || m.cursor >= len(m.entries) {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(renderDetail(m.entries[m.cursor], m.detailWidth()))
	m.detail.GotoTop()
}

// View renders the full viewer.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	header := m.headerBar()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.statusBar())
}

func (m model) headerBar() string {
	title := styleTitle.Render("lapse timeline")
	totals := formatter.Dim(fmt.Sprintf("%d sessions, %s",
		m.ds.Metadata.TotalSessions, formatter.FormatMinutes(m.ds.TotalDuration)))
	return fmt.Sprintf(" %s  %s  %s", title, totals, m.filterLabel())
}

func (m model) filterLabel() string {
	if m.filterIdx == 0 {
		return formatter.Dim("all categories")
	}
	return formatter.CategoryBadge(m.filters[m.filterIdx-1])
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d/%d sessions", len(m.entries), len(m.ds.Sessions)),
		"j/k navigate",
		"tab filter",
		"C-u/C-d detail",
		"q quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// layout helpers

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for the list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for the detail pane, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract header row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}
