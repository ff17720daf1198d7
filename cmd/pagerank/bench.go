package main

import (
	"fmt"
	"log/slog"

	"github.com/lioia/pagerank-bench/pkg/bench"
	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/rank"
	"github.com/lioia/pagerank-bench/pkg/report"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench [graph]",
	Short: "Measure every backend and container combination",
	Long: "bench runs PageRank with every graph backend and rank container on the " +
		"standard graph configurations, or on the given graph file or generator.",
	Args: cobra.MaximumNArgs(1),
	RunE: runBench,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Rank the 10-node example graph with every rank container",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	flags := benchCmd.Flags()
	flags.Int("runs", 0, "repetitions of every combination")
	flags.Int("workers", 0, "combinations measured in parallel")
	flags.Bool("all-backends", true, "measure every graph backend instead of the configured one")
	flags.Bool("all-containers", true, "measure every rank container instead of the configured one")
	flags.Bool("summary", true, "print the summary tables")
	// Without a graph or a generator, bench uses the standard configurations
	addGraphFlags(benchCmd, "")

	demoCmd.Flags().Bool("representations", false, "compare the graph backends instead of the rank containers")

	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(demoCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	opts := bench.Options{
		Config:  engineConfig(),
		Runs:    config.Runs,
		Workers: config.Workers,
		Logger:  slog.Default().With("component", "bench"),
	}

	generator, _ := cmd.Flags().GetString("generator")
	if len(args) > 0 || config.Graph != "" || generator != "" {
		spec, err := loadSpec(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}
		opts.Graphs = []generate.Spec{spec}
	} else {
		opts.Graphs = generate.Configurations()
	}

	backend, container, err := configuredKinds()
	if err != nil {
		return err
	}
	if all, _ := cmd.Flags().GetBool("all-backends"); !all {
		opts.Backends = []graph.Kind{backend}
	}
	if all, _ := cmd.Flags().GetBool("all-containers"); !all {
		opts.Containers = []rank.Kind{container}
	}

	result, err := bench.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.Measurements(out, result); err != nil {
		return err
	}
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		if err := report.Summary(out, result.Summary()); err != nil {
			return err
		}
	}
	return writeOutput(result)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	opts := bench.DemoOptions(engineConfig())
	if representations, _ := cmd.Flags().GetBool("representations"); representations {
		opts = bench.RepresentationOptions(engineConfig())
	}
	result, err := bench.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.Measurements(out, result); err != nil {
		return err
	}

	// Every combination computes the same ranks, the first one is shown
	for _, m := range result.Measurements {
		if m.Failed() {
			continue
		}
		shown := pagerank.Result{Ranks: m.Ranks, Iterations: int(m.Iterations), Converged: m.Converged, State: pagerank.Terminated}
		if m.Converged {
			shown.State = pagerank.Converged
		}
		if err := report.TopRanks(out, shown, 5); err != nil {
			return err
		}
		break
	}
	if err := report.Summary(out, result.Summary()); err != nil {
		return err
	}
	fmt.Fprintf(out, "demo %s completed in %s\n", result.ID, report.Duration(result.Elapsed))
	return writeOutput(result)
}
