package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/rank"
	"github.com/spf13/cobra"
)

// addGraphFlags registers the flags selecting a generated graph, used when
// no graph file is given
func addGraphFlags(cmd *cobra.Command, generator string) {
	flags := cmd.Flags()
	flags.String("generator", generator, "graph generator (original, random, scalefree, chain, star, complete)")
	flags.Int("nodes", 0, "nodes of the generated graph")
	flags.Float64("probability", 0, "edge probability of the random generator")
	flags.Int("attach", 0, "edges added per node by the scale-free generator")
	flags.Int64("seed", 0, "generator seed")
}

// loadSpec reads the graph named by the first argument (a file path or an
// http(s) URL), the configured graph, or generates one from the flags
func loadSpec(ctx context.Context, cmd *cobra.Command, args []string) (generate.Spec, error) {
	resource := config.Graph
	if len(args) > 0 {
		resource = args[0]
	}
	if resource != "" {
		n, edges, err := graph.LoadResource(ctx, resource)
		if err != nil {
			return generate.Spec{}, err
		}
		return generate.Spec{Name: resource, Nodes: n, Edges: edges}, nil
	}

	var params generate.Params
	flags := cmd.Flags()
	params.Generator, _ = flags.GetString("generator")
	params.Nodes, _ = flags.GetInt("nodes")
	params.Probability, _ = flags.GetFloat64("probability")
	params.Attach, _ = flags.GetInt("attach")
	params.Seed, _ = flags.GetInt64("seed")
	return generate.Generate(params)
}

func configuredKinds() (graph.Kind, rank.Kind, error) {
	backend, err := graph.ParseKind(config.Backend)
	if err != nil {
		return "", "", err
	}
	container, err := rank.ParseKind(config.Container)
	if err != nil {
		return "", "", err
	}
	return backend, container, nil
}

// writeOutput stores v as indented JSON in the configured output file
func writeOutput(v any) error {
	if config.Output == "" {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(config.Output, data, 0o644)
}
