package main

import (
	"fmt"
	"os"

	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/report"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [graph]",
	Short: "Compute PageRank on a graph file or a generated graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRank,
}

var statsCmd = &cobra.Command{
	Use:   "stats [graph]",
	Short: "Show the structure of a graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

var renderCmd = &cobra.Command{
	Use:   "render [graph]",
	Short: "Draw a graph with nodes sized by their rank",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	rankCmd.Flags().Int("top", 10, "highest ranked nodes to show (-1 for every node)")
	rankCmd.Flags().Bool("trace", false, "print the delta of every iteration")
	renderCmd.Flags().String("format", "svg", "output format (dot, svg, png)")
	renderCmd.Flags().String("out", "graph.svg", "output file")
	renderCmd.Flags().Bool("plain", false, "draw the structure without ranking it")

	for _, cmd := range []*cobra.Command{rankCmd, statsCmd, renderCmd} {
		addGraphFlags(cmd, "original")
		rootCmd.AddCommand(cmd)
	}
}

type rankOutput struct {
	Graph     string              `json:"graph"`
	Backend   string              `json:"backend"`
	Container string              `json:"container"`
	Config    pagerank.Config     `json:"config"`
	Result    pagerank.Result     `json:"result"`
	Top       []pagerank.NodeRank `json:"top"`
}

func rankSpec(spec generate.Spec, opts ...pagerank.Option) (graph.Graph, pagerank.Result, error) {
	backend, container, err := configuredKinds()
	if err != nil {
		return nil, pagerank.Result{}, err
	}
	g, err := spec.Build(backend)
	if err != nil {
		return nil, pagerank.Result{}, err
	}
	opts = append(opts, pagerank.WithLogger(utils.EngineLogger()))
	result, err := pagerank.Rank(g, container, engineConfig(), opts...)
	if err != nil {
		return nil, pagerank.Result{}, err
	}
	utils.EngineLog("rank", "%s ranked with %s/%s in %d iterations", spec.Name, backend, container, result.Iterations)
	return g, result, nil
}

func runRank(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	var opts []pagerank.Option
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		opts = append(opts, pagerank.WithObserver(func(it pagerank.Iteration) {
			fmt.Fprintf(cmd.OutOrStdout(), "iteration %3d  delta %.3e\n", it.Number, it.Delta)
		}))
	}
	_, result, err := rankSpec(spec, opts...)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	if err := report.TopRanks(cmd.OutOrStdout(), result, top); err != nil {
		return err
	}
	return writeOutput(rankOutput{
		Graph:     spec.Name,
		Backend:   config.Backend,
		Container: config.Container,
		Config:    engineConfig(),
		Result:    result,
		Top:       result.Top(top),
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	backend, _, err := configuredKinds()
	if err != nil {
		return err
	}
	g, err := spec.Build(backend)
	if err != nil {
		return err
	}
	stats, err := generate.GraphStats(g)
	if err != nil {
		return err
	}
	if err := report.GraphInfo(cmd.OutOrStdout(), spec.Name, stats, graph.Footprint(g)); err != nil {
		return err
	}
	return writeOutput(stats)
}

func runRender(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	spec, err := loadSpec(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}

	var g graph.Graph
	var ranks []float64
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		backend, _, err := configuredKinds()
		if err != nil {
			return err
		}
		if g, err = spec.Build(backend); err != nil {
			return err
		}
	} else {
		var result pagerank.Result
		if g, result, err = rankSpec(spec); err != nil {
			return err
		}
		ranks = result.Ranks
	}

	out, _ := cmd.Flags().GetString("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := report.Render(f, g, ranks, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "graph written to %s\n", out)
	return nil
}
