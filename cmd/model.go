package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rcpsp/app"
	"github.com/kilianp07/rcpsp/pkg/export"
)

func newModelCmd(load configLoader) *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "model <file>",
		Short: "Generate the MILP of an instance in LP format",
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
			_, m, err := p.Model(args[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return export.WriteLP(cmd.OutOrStdout(), m)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteLP(f, m); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			stats := m.Stats()
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s: %d variables, %d constraints\n", out, stats.Variables, stats.Constraints)
			return err
		},
	}
	c.Flags().StringVarP(&out, "output", "o", "", "LP file to write (stdout when empty)")
	return c
}
