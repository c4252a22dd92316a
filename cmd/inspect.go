package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rcpsp/app"
	"github.com/kilianp07/rcpsp/core/cpm"
	"github.com/kilianp07/rcpsp/core/formulation"
)

func newInspectCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarise an instance, its critical path and model size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			gen, err := cfg.Generator.Build()
			if err != nil {
				return err
			}
			p := &app.Planner{Generator: gen}
			inst, m, err := p.Model(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "instance\t%s\n", inst.Name)
			fmt.Fprintf(tw, "jobs\t%d\n", inst.NJobs)
			caps := make([]string, inst.NResources)
			for r := range caps {
				caps[r] = fmt.Sprint(inst.Capacity(r))
			}
			fmt.Fprintf(tw, "resources\t%d [%s]\n", inst.NResources, strings.Join(caps, " "))
			fmt.Fprintf(tw, "horizon\t%d\n", inst.Horizon)
			fmt.Fprintf(tw, "total duration\t%d\n", inst.TotalDuration())
			fmt.Fprintf(tw, "big-M\t%g\n", formulation.BigM(inst, gen.BigMSlack))
			fmt.Fprintf(tw, "dropped successors\t%d\n", len(inst.DroppedSuccessors))
			if cp, err := cpm.Analyze(inst); err != nil {
				fmt.Fprintf(tw, "critical path\t%v\n", err)
			} else {
				fmt.Fprintf(tw, "critical path bound\t%d\n", cp.LowerBound)
				fmt.Fprintf(tw, "critical path\t%s\n", joinInts(cp.CriticalPath))
			}
			stats := m.Stats()
			fmt.Fprintf(tw, "variables\t%d\n", stats.Variables)
			for _, kind := range []string{"continuous", "integer", "binary"} {
				fmt.Fprintf(tw, "  %s\t%d\n", kind, stats.ByKind[kind])
			}
			fmt.Fprintf(tw, "constraints\t%d\n", stats.Constraints)
			for _, class := range stats.Classes() {
				fmt.Fprintf(tw, "  %s\t%d\n", class, stats.ByClass[class])
			}
			return tw.Flush()
		},
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}
