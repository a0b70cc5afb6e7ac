package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lapsehq/lapse/internal/config"
	"github.com/lapsehq/lapse/internal/timeline"
)

func newViewCmd(app *App) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a generated timeline dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.Output = input
			}

			ds, err := timeline.Read(cfg.Output)
			if err != nil {
				return err
			}
			if !app.isInteractive() {
				return fmt.Errorf("view requires an interactive terminal (stdout is not a TTY)")
			}
			return app.runViewer(ds)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Timeline dataset to view (defaults to the configured output)")

	return cmd
}
