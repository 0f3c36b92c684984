package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/envdata-hub/internal/pipeline"
)

func newCorrelateCmd() *cobra.Command {
	var q pipeline.CorrelationQuery
	var showJoined bool
	var plotDir string

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Print the snow, groundwater and AQI correlation matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCLIEnv()
			if err != nil {
				return err
			}
			p := pipeline.New(env.source, nil, env.logger, env.metrics)
			report, err := p.Correlation(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range report.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			if showJoined {
				renderTable(out, report.Joined)
				fmt.Fprintln(out)
			}
			renderMatrix(out, report.Matrix)

			if plotDir == "" {
				return nil
			}
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return fmt.Errorf("create plot dir: %w", err)
			}
			for _, s := range report.Scatter {
				if len(s.Points) == 0 {
					env.logger.Warn("no points to plot", "x", s.X, "y", s.Y)
					continue
				}
				path, err := plotScatter(plotDir, s)
				if err != nil {
					return err
				}
				env.logger.Info("scatter plot saved", "path", path, "points", len(s.Points))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&q.YearFrom, "from", 0, "first water year (0 for unbounded)")
	cmd.Flags().IntVar(&q.YearTo, "to", 0, "last water year (0 for unbounded)")
	cmd.Flags().BoolVar(&showJoined, "joined", false, "also print the joined yearly table")
	cmd.Flags().StringVar(&plotDir, "plot-dir", "", "write a PNG scatter plot per column pair to this directory")
	return cmd
}
