package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-pathmine/internal/engine"
	"github.com/miradorstack/mirador-pathmine/internal/export"
	"github.com/miradorstack/mirador-pathmine/internal/metrics"
	"github.com/miradorstack/mirador-pathmine/internal/patterns"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var input, out, textfile string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full cohort analysis and export its artefacts",
		Long: `Mine frequent transitions over every entity, then compare the
positive and negative cohorts of each configured phase.

Writes report.json, mining.json, phasewise_recommendations.csv,
avoid_paths_<phase>.txt and DOT graphs into the output directory.

Examples:
  pathmine analyze --input data.csv --out results
  pathmine analyze --config pathmine.yaml --metrics-textfile pathmine.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.Output.Dir
			}
			if textfile == "" {
				textfile = a.cfg.Output.MetricsTextfile
			}

			episodes, err := a.readEpisodes(input)
			if err != nil {
				return err
			}
			thresholds, err := engine.ThresholdsFromConfig(a.cfg)
			if err != nil {
				return err
			}
			writer, err := export.NewDirWriter(out, a.cfg.Output.Graphs, a.logger)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			if err := metrics.Register(reg); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			pipeline := engine.NewPipeline(a.logger, patterns.NewMiner(a.logger, writer), thresholds)
			report, err := pipeline.Run(cmd.Context(), episodes)
			if err != nil {
				return err
			}
			if err := writer.WriteReport(report); err != nil {
				return err
			}
			if textfile != "" {
				if err := metrics.WriteTextfile(textfile, reg); err != nil {
					return fmt.Errorf("write metrics textfile: %w", err)
				}
				a.logger.Debug("metrics textfile written", slog.String("path", textfile))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "run %s: %d frequent transitions, %d recommendations\n",
				report.RunID, len(report.Mining.Frequent), len(report.Recommendations))
			for _, phase := range report.Phases {
				status := fmt.Sprintf("accuracy %.3f", phase.Accuracy)
				if phase.Degenerate {
					status = "degenerate"
				}
				fmt.Fprintf(w, "  %-8s do=%d avoid=%d harmful=%d paths=%d %s\n",
					phase.Phase, len(phase.Do), len(phase.Avoid), len(phase.Harmful), len(phase.Paths), status)
			}
			fmt.Fprintf(w, "artefacts in %s\n", writer.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file of coded step records")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&textfile, "metrics-textfile", "", "Write run metrics in textfile format")
	return cmd
}
