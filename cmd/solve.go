package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rcpsp/app"
	"github.com/kilianp07/rcpsp/infra/logger"
	"github.com/kilianp07/rcpsp/pkg/export"
)

func newSolveCmd(load configLoader) *cobra.Command {
	var (
		outDir    string
		formats   []string
		nodeLimit int
		timeLimit int
	)
	c := &cobra.Command{
		Use:   "solve <file|dir>...",
		Short: "Solve instances and print the best order",
		Long: "Solve parses each instance, generates the MILP, solves it with the built-in\n" +
			"branch and bound and prints the best order. Directories are expanded to\n" +
			"their regular files in name order. An instance without feasible schedule\n" +
			"is reported and does not fail the command.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Formats = formats
				if err := cfg.Output.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("node-limit") {
				cfg.Solver.NodeLimit = nodeLimit
			}
			if cmd.Flags().Changed("time-limit") {
				cfg.Solver.TimeLimitSeconds = timeLimit
			}
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			p, err := newPlanner(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := p.Close(); err != nil {
					logger.New("solve").Errorf("planner close: %v", err)
				}
			}()
			for _, f := range files {
				if err := solveOne(ctx, cmd.OutOrStdout(), p, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().StringVarP(&outDir, "out", "o", "", "directory for report files")
	c.Flags().StringSliceVar(&formats, "format", nil, "report formats: json, csv, lp, html, order")
	c.Flags().IntVar(&nodeLimit, "node-limit", 0, "branch and bound node limit")
	c.Flags().IntVar(&timeLimit, "time-limit", 0, "solve time limit in seconds")
	return c
}

func solveOne(ctx context.Context, w io.Writer, p *app.Planner, path string) error {
	out, err := p.Run(ctx, path)
	if err != nil {
		return err
	}
	name := out.Instance.Name
	if !out.Feasible() {
		_, err := fmt.Fprintf(w, "%s: no feasible schedule (%s)\n", name, out.Result.Status)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %s, makespan %g, critical path bound %d, %d nodes\n",
		name, out.Result.Status, out.Schedule.Makespan, out.Bound, out.Result.Nodes); err != nil {
		return err
	}
	if err := export.WriteOrder(w, out.Schedule); err != nil {
		return err
	}
	for _, f := range out.Files {
		if _, err := fmt.Fprintf(w, "wrote %s\n", f); err != nil {
			return err
		}
	}
	return nil
}

// collectFiles expands directories to their regular files in name order,
// skipping .DS_Store.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, a)
			continue
		}
		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || e.Name() == ".DS_Store" {
				continue
			}
			files = append(files, filepath.Join(a, e.Name()))
		}
	}
	return files, nil
}
