package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-pathmine/internal/config"
	"github.com/miradorstack/mirador-pathmine/internal/ingest"
	"github.com/miradorstack/mirador-pathmine/internal/models"
	"github.com/miradorstack/mirador-pathmine/internal/utils"
)

// app carries state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand builds the pathmine command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pathmine",
		Short: "Mine transition patterns that separate outcome cohorts",
		Long: `pathmine - transition pattern mining over coded step sequences
  - mine frequent transitions across all entities
  - compare survivor and non-survivor cohorts per phase
  - export do/avoid recommendations, paths and graphs`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(newAnalyzeCommand(a))
	root.AddCommand(newMineCommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}

// Execute runs the root command until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = utils.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.JSON)
	return nil
}

// readEpisodes loads the configured input and groups it into episodes.
func (a *app) readEpisodes(input string) ([]models.Episode, error) {
	if input == "" {
		input = a.cfg.Input.Path
	}
	if input == "" {
		return nil, fmt.Errorf("no input file: pass --input or set input.path")
	}
	records, err := ingest.ReadFile(input, ingest.Options{
		Columns:       a.cfg.Input.Columns,
		Normalization: models.CodeNormalization(a.cfg.Input.Normalization),
	})
	if err != nil {
		return nil, err
	}
	labeler, err := ingest.NewLabeler(a.cfg.Labels.Path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("load label rules: %w", err)
	}
	episodes := ingest.GroupEpisodes(records, labeler)
	a.logger.Info("records loaded",
		slog.String("path", input),
		slog.Int("records", len(records)),
		slog.Int("episodes", len(episodes)),
	)
	return episodes, nil
}
