package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-pathmine/internal/engine"
	"github.com/miradorstack/mirador-pathmine/internal/export"
	"github.com/miradorstack/mirador-pathmine/internal/ingest"
	"github.com/miradorstack/mirador-pathmine/internal/patterns"
)

func newMineCommand(a *app) *cobra.Command {
	var input, out string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine frequent transitions and their one-hop extensions",
		Long: `Mine transitions taken by at least the configured threshold of
entities, extend them by one hop and group them into components.

Examples:
  pathmine mine --input data.csv
  pathmine mine --input data.csv --out results`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			episodes, err := a.readEpisodes(input)
			if err != nil {
				return err
			}
			thresholds, err := engine.ThresholdsFromConfig(a.cfg)
			if err != nil {
				return err
			}

			var sink patterns.Sink
			if out != "" {
				writer, err := export.NewDirWriter(out, a.cfg.Output.Graphs, a.logger)
				if err != nil {
					return err
				}
				sink = writer
			}

			report, err := patterns.NewMiner(a.logger, sink).Mine(cmd.Context(), "all", ingest.AllTraces(episodes), thresholds.Mining)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d entities, threshold %d\n", report.Entities, report.Threshold)
			for _, t := range report.Frequent {
				fmt.Fprintf(w, "frequent  %s\n", t)
			}
			for _, t := range report.Extensions {
				fmt.Fprintf(w, "extension %s\n", t)
			}
			for i, comp := range report.Components {
				fmt.Fprintf(w, "component %d: %v\n", i+1, comp)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file of coded step records")
	cmd.Flags().StringVar(&out, "out", "", "Also write mining.json and frequent.dot here")
	return cmd
}
