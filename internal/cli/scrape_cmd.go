package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lapsehq/lapse/internal/config"
	"github.com/lapsehq/lapse/internal/scrape"
)

func newScrapeCmd(app *App) *cobra.Command {
	var (
		outDir           string
		workspaceStorage string
		every            time.Duration
		logFile          string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Export Cursor chat history into the transcript directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.HistoryDir = outDir
			}
			if flags.Changed("workspace-storage") {
				cfg.WorkspaceStorage = workspaceStorage
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				log.SetOutput(io.MultiWriter(cmd.ErrOrStderr(), f))
			}

			s := scrape.New(cfg.WorkspaceStorage, cfg.HistoryDir, log)
			if every > 0 {
				return s.RunEvery(cmd.Context(), every)
			}
			stats, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scrape complete: %s\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write chat exports into (defaults to the history dir)")
	cmd.Flags().StringVar(&workspaceStorage, "workspace-storage", "", "Cursor workspaceStorage directory to scan")
	cmd.Flags().DurationVar(&every, "every", 0, "Re-run on this interval until interrupted (e.g. 24h)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Also append logs to this file")

	return cmd
}
