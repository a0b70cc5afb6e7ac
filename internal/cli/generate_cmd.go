package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lapsehq/lapse/internal/classify"
	"github.com/lapsehq/lapse/internal/cli/formatter"
	"github.com/lapsehq/lapse/internal/config"
	"github.com/lapsehq/lapse/internal/db"
	"github.com/lapsehq/lapse/internal/llm"
	"github.com/lapsehq/lapse/internal/pipeline"
	"github.com/lapsehq/lapse/internal/repository"
	"github.com/lapsehq/lapse/internal/timeline"
)

// localDatasetName is the duplicate copy --also-write-local drops into
// the working directory.
const localDatasetName = "timeline-data.json"

type generateFlags struct {
	historyDir     string
	output         string
	dbPath         string
	openAIModel    string
	workers        int
	noOpenAI       bool
	dryRun         bool
	alsoWriteLocal bool
	verbose        bool
}

// apply copies the flags the user explicitly set onto the loaded
// config, leaving the default -> file -> env chain untouched otherwise.
func (f generateFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("history-dir") {
		cfg.HistoryDir = f.historyDir
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("db") {
		cfg.DBPath = f.dbPath
	}
	if flags.Changed("openai-model") {
		cfg.OpenAIModel = f.openAIModel
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.noOpenAI {
		cfg.UseOpenAI = false
	}
}

func newGenerateCmd(app *App) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Classify session transcripts and build the timeline dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), cfg)

			log := app.logger()
			if f.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			out := cmd.OutOrStdout()

			llmCfg := cfg.LLM()
			var classifier classify.Classifier
			if llmCfg.Enabled && llmCfg.APIKey != "" {
				var observer llm.Observer = llm.NoopObserver{}
				if llmCfg.LogCalls {
					observer = llm.NewLogObserver(log)
				}
				classifier = classify.NewOpenAIClassifier(llm.NewOpenAIClient(llmCfg, observer))
			} else {
				if llmCfg.Enabled {
					fmt.Fprintln(out, "No OpenAI API key found, using keyword classification.")
				}
				classifier = classify.NewKeywordClassifier()
			}

			database, err := db.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening cache database: %w", err)
			}
			defer database.Close()

			p := pipeline.New(classifier, repository.NewSQLiteCacheRepo(database), log, pipeline.Options{
				Workers: cfg.Workers,
				OnResult: func(cs timeline.ClassifiedSession, fromCache bool) {
					fmt.Fprintln(out, formatter.ProgressLine(cs, fromCache))
				},
			})

			result, err := p.Run(cmd.Context(), cfg.HistoryDir)
			if err != nil {
				return err
			}
			if result.Stats.Processed() == 0 {
				return fmt.Errorf("no sessions found in %s (%s)", cfg.HistoryDir, result.Stats)
			}

			ds := timeline.Build(result.Sessions, time.Now())

			if f.dryRun {
				data, err := ds.Encode()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if err := ds.Write(cfg.Output); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTimeline data saved to: %s\n", cfg.Output)
			if f.alsoWriteLocal {
				if err := ds.Write(localDatasetName); err != nil {
					return err
				}
				fmt.Fprintf(out, "Also wrote: ./%s\n", localDatasetName)
			}
			fmt.Fprint(out, formatter.Summary(ds))
			fmt.Fprintf(out, "\nRun stats: %s\n", result.Stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.historyDir, "history-dir", "", "Directory containing session transcripts")
	cmd.Flags().StringVar(&f.output, "output", "", "Timeline dataset output path")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Classification cache database path")
	cmd.Flags().StringVar(&f.openAIModel, "openai-model", "", "OpenAI model to classify with")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent classification workers")
	cmd.Flags().BoolVar(&f.noOpenAI, "no-openai", false, "Disable OpenAI and use keyword classification")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the dataset JSON to stdout instead of writing files")
	cmd.Flags().BoolVar(&f.alsoWriteLocal, "also-write-local", false, "Also write timeline-data.json to the current directory")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Enable debug logging")

	return cmd
}
