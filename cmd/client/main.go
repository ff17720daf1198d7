package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/job"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/queue"
	"github.com/lioia/pagerank-bench/pkg/report"
	"github.com/lioia/pagerank-bench/pkg/server"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var rootCmd = &cobra.Command{
	Use:           "client [graph]",
	Short:         "Send a graph to the Ranker service or to the work queue and print its ranks",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("api", "127.0.0.1:1234", "gRPC Ranker address")
	flags.Bool("queue", false, "publish the graph on the work queue and wait for a worker")
	flags.String("backend", "", "graph backend used by the server")
	flags.String("container", "", "rank container used by the server")
	flags.Int("top", 10, "highest ranked nodes to show")
	flags.Duration("timeout", 30*time.Second, "time to wait for the ranks")
}

func run(cmd *cobra.Command, args []string) error {
	env := utils.ReadEnvVars()
	utils.InitLog(env.LogConfig())

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	n, edges, err := graph.LoadResource(ctx, args[0])
	if err != nil {
		return err
	}
	request := job.Request{Nodes: n, Edges: make([][2]int, len(edges))}
	for i, e := range edges {
		request.Edges[i] = [2]int{e.From, e.To}
	}
	request.Backend, _ = cmd.Flags().GetString("backend")
	request.Container, _ = cmd.Flags().GetString("container")

	var response job.Response
	if useQueue, _ := cmd.Flags().GetBool("queue"); useQueue {
		response, err = viaQueue(ctx, env, request)
	} else {
		api, _ := cmd.Flags().GetString("api")
		response, err = viaGRPC(ctx, api, request)
	}
	if err != nil {
		return err
	}
	if response.Error != "" {
		return fmt.Errorf("ranking failed: %s", response.Error)
	}

	state := pagerank.Terminated
	if response.Converged {
		state = pagerank.Converged
	}
	top, _ := cmd.Flags().GetInt("top")
	return report.TopRanks(cmd.OutOrStdout(), pagerank.Result{
		Ranks:      response.Ranks,
		Iterations: response.Iterations,
		Converged:  response.Converged,
		State:      state,
		Delta:      response.Delta,
	}, top)
}

func viaGRPC(ctx context.Context, api string, request job.Request) (job.Response, error) {
	conn, err := grpc.NewClient(api, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return job.Response{}, fmt.Errorf("connect to %s: %w", api, err)
	}
	defer conn.Close()
	return server.NewRankerClient(conn).Rank(ctx, request)
}

func viaQueue(ctx context.Context, env utils.EnvVars, request job.Request) (job.Response, error) {
	url := env.RabbitURL()
	if url == "" {
		return job.Response{}, errors.New("RABBIT_HOST is not set")
	}
	q, err := queue.Connect(url, env.WorkQueue, env.ResultQueue)
	if err != nil {
		return job.Response{}, err
	}
	defer q.Close()

	publisher := queue.NewPublisher(q.Channel, q.Work.Name, q.Result.Name, slog.Default())
	results, err := publisher.Results(ctx)
	if err != nil {
		return job.Response{}, err
	}
	id, err := publisher.Publish(ctx, request)
	if err != nil {
		return job.Response{}, err
	}
	slog.Info("job published, waiting for a worker", "id", id)
	for {
		select {
		case <-ctx.Done():
			return job.Response{}, ctx.Err()
		case response, ok := <-results:
			if !ok {
				return job.Response{}, ctx.Err()
			}
			if response.ID == id {
				return response, nil
			}
			utils.WarnLog("client", "skipping result of job %s", response.ID)
		}
	}
}

func main() {
	utils.FailOnError("command failed", rootCmd.Execute())
}
