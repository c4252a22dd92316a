package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rcpsp/core/runlog"
)

func newRunsCmd(load configLoader) *cobra.Command {
	var q runlog.Query
	var since time.Duration
	c := &cobra.Command{
		Use:   "runs",
		Short: "List recorded solver runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := runlog.NewStore(cfg.History.Module())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			recs, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tINSTANCE\tSTATUS\tMAKESPAN\tBOUND\tNODES\tELAPSED")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%d\t%.1fms\n",
					r.Timestamp.Format(time.RFC3339), r.ID, r.Instance, r.Status, r.Makespan, r.LowerBound, r.Nodes, r.ElapsedMS)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&q.Instance, "instance", "", "only runs of this instance")
	c.Flags().StringVar(&q.Status, "status", "", "only runs with this status")
	c.Flags().IntVar(&q.Limit, "limit", 20, "show at most this many recent runs")
	c.Flags().DurationVar(&since, "since", 0, "only runs newer than this duration")
	return c
}
