package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rcpsp/app"
	"github.com/kilianp07/rcpsp/config"
)

// NewRootCmd builds the rcpsp command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "rcpsp",
		Short:         "Resource-constrained project scheduling with MILP",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	root.AddCommand(
		newSolveCmd(load),
		newModelCmd(load),
		newInspectCmd(load),
		newRunsCmd(load),
	)
	return root
}

type configLoader func() (*config.Config, error)

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

func newPlanner(cfg *config.Config) (*app.Planner, error) {
	p, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	return p, nil
}
