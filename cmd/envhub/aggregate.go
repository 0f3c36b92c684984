package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

type aggregateFlags struct {
	dataset string
	by      []string
	column  string
	reducer string
	as      string
}

func newAggregateCmd() *cobra.Command {
	var f aggregateFlags

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group a dataset and print one reduced column",
		Example: `  envhub aggregate --dataset snow --by Site --by "Water Year" --column "Snow Depth (in)"
  envhub aggregate --dataset aqi --by Year --reducer count`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, ok := domain.SchemaFor(f.dataset)
			if !ok {
				return fmt.Errorf("unknown dataset %q (want %s, %s or %s)",
					f.dataset, domain.KindSnow, domain.KindGroundwater, domain.KindAQI)
			}
			reducer := domain.Reducer(f.reducer)
			if !reducer.Valid() {
				return fmt.Errorf("unknown reducer %q", f.reducer)
			}

			env, err := newCLIEnv()
			if err != nil {
				return err
			}
			ds, err := env.source.Load(cmd.Context(), f.dataset, schema)
			if err != nil {
				return err
			}
			t, err := domain.Aggregate(ds, f.by, []domain.Aggregation{{Column: f.column, Reducer: reducer, As: f.as}})
			if err != nil {
				return err
			}
			if t.IsEmpty() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: aggregation produced no rows")
			}
			renderTable(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset kind: snow, groundwater or aqi")
	cmd.Flags().StringArrayVar(&f.by, "by", nil, "group-by column (repeatable)")
	cmd.Flags().StringVar(&f.column, "column", "", "column to reduce (optional for count)")
	cmd.Flags().StringVar(&f.reducer, "reducer", string(domain.Mean), "mean, sum, count, min, max, first, last, median, q1 or q3")
	cmd.Flags().StringVar(&f.as, "as", "", "output column name")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}
