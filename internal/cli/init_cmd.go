package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lapsehq/lapse/internal/config"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive setup: write the lapse config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			v := initFormValues(cfg)
			if err := app.runForm(initForm(&v)); err != nil {
				return err
			}
			v.apply(cfg)

			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
