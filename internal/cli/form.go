package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapsehq/lapse/internal/cli/formatter"
	"github.com/lapsehq/lapse/internal/config"
)

// lapseHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func lapseHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// initValues holds the string-typed form state for the init wizard. Numeric
// fields stay strings until apply so huh validation owns the parsing.
type initValues struct {
	historyDir       string
	output           string
	workspaceStorage string
	workers          string
	useOpenAI        bool
	model            string
}

// initFormValues seeds the wizard from the loaded config so existing settings
// show up as the editable defaults.
func initFormValues(cfg *config.Config) initValues {
	return initValues{
		historyDir:       cfg.HistoryDir,
		output:           cfg.Output,
		workspaceStorage: cfg.WorkspaceStorage,
		workers:          strconv.Itoa(cfg.Workers),
		useOpenAI:        cfg.UseOpenAI,
		model:            cfg.OpenAIModel,
	}
}

// apply writes the form results back onto cfg. Empty inputs keep the value
// the form was seeded with.
func (v initValues) apply(cfg *config.Config) {
	if v.historyDir != "" {
		cfg.HistoryDir = v.historyDir
	}
	if v.output != "" {
		cfg.Output = v.output
	}
	if v.workspaceStorage != "" {
		cfg.WorkspaceStorage = v.workspaceStorage
	}
	cfg.Workers = parsePositiveInt(v.workers, cfg.Workers)
	cfg.UseOpenAI = v.useOpenAI
	if v.model != "" {
		cfg.OpenAIModel = v.model
	}
}

// initForm creates the huh form for the init wizard.
func initForm(v *initValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("History directory").
				Description("Where scraped session transcripts live").
				Placeholder(v.historyDir).
				Value(&v.historyDir),
			huh.NewInput().
				Title("Timeline output").
				Description("Path for the generated timeline JSON").
				Placeholder(v.output).
				Value(&v.output),
			huh.NewInput().
				Title("Workspace storage").
				Description("Editor workspaceStorage directory to scrape").
				Placeholder(v.workspaceStorage).
				Value(&v.workspaceStorage),
			huh.NewInput().
				Title("Workers").
				Description("Concurrent classification workers (max 5)").
				Placeholder(v.workers).
				Value(&v.workers).
				Validate(validatePositiveInt),
			huh.NewConfirm().
				Title("Classify with OpenAI?").
				Description("Falls back to keywords when no API key is set").
				Value(&v.useOpenAI),
			huh.NewInput().
				Title("OpenAI model").
				Placeholder(v.model).
				Value(&v.model),
		),
	).WithTheme(lapseHuhTheme()).WithShowHelp(false)
}

// parsePositiveInt parses s as a positive integer, returning fallback if s is
// empty, non-numeric, or non-positive. Used after huh form validation has
// already ensured the string is valid, so this is a safe conversion.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
