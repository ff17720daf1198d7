package main

import (
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	env    utils.EnvVars
	config utils.Config
)

var rootCmd = &cobra.Command{
	Use:   "pagerank",
	Short: "Compare PageRank over different graph and rank data structures",
	Long: "pagerank computes PageRank with interchangeable graph backends " +
		"(linked list, matrix, hash map, edge list) and rank containers " +
		"(hash table, array, map, matrix row) and benchmarks every combination.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "configuration file (default config.json)")
	flags.Float64("damping", 0, "damping factor")
	flags.Float64("tolerance", 0, "convergence tolerance")
	flags.Int("max-iterations", 0, "iteration cap")
	flags.String("backend", "", "graph backend (linked, matrix, hashmap, edgelist)")
	flags.String("container", "", "rank container (hashtable, array, map, matrix)")
	flags.StringP("output", "o", "", "write the result as JSON to this file")
}

// setup reads the environment and the configuration file; flags set on the
// command line take precedence over both
func setup(cmd *cobra.Command, _ []string) error {
	env = utils.ReadEnvVars()
	utils.InitLog(env.LogConfig())

	path, _ := cmd.Flags().GetString("config")
	var err error
	if config, err = utils.LoadConfiguration(path); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("damping") {
		config.Damping, _ = flags.GetFloat64("damping")
	}
	if flags.Changed("tolerance") {
		config.Tolerance, _ = flags.GetFloat64("tolerance")
	}
	if flags.Changed("max-iterations") {
		config.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("backend") {
		config.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("container") {
		config.Container, _ = flags.GetString("container")
	}
	if flags.Changed("output") {
		config.Output, _ = flags.GetString("output")
	}
	if flags.Lookup("runs") != nil && flags.Changed("runs") {
		config.Runs, _ = flags.GetInt("runs")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		config.Workers, _ = flags.GetInt("workers")
	}
	return engineConfig().Validate()
}

// engineConfig is the engine part of the loaded configuration
func engineConfig() pagerank.Config {
	return pagerank.Config{
		Damping:       config.Damping,
		Tolerance:     config.Tolerance,
		MaxIterations: config.MaxIterations,
	}
}

func main() {
	utils.FailOnError("command failed", rootCmd.Execute())
}
