package cli

import (
	"io"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lapsehq/lapse/internal/timeline"
	"github.com/lapsehq/lapse/internal/tui"
)

// App holds the cross-command dependencies. The function fields exist so
// tests can stub the interactive surfaces.
type App struct {
	// Log is the application logger; commands adjust its level.
	Log *logrus.Logger

	// IsInteractive reports whether stdout is attached to a terminal.
	IsInteractive func() bool

	// RunViewer launches the dataset viewer.
	RunViewer func(ds *timeline.Dataset) error

	// RunForm executes an interactive form.
	RunForm func(f *huh.Form) error
}

func (a *App) logger() *logrus.Logger {
	if a.Log != nil {
		return a.Log
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func (a *App) isInteractive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runViewer(ds *timeline.Dataset) error {
	if a.RunViewer != nil {
		return a.RunViewer(ds)
	}
	return tui.Run(ds)
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

// NewRootCmd creates the top-level "lapse" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "lapse",
		Short: "Turn AI coding session history into a timeline",
	}

	root.AddCommand(
		newGenerateCmd(app),
		newScrapeCmd(app),
		newViewCmd(app),
		newInitCmd(app),
	)

	return root
}
