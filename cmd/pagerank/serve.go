package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/lioia/pagerank-bench/pkg/queue"
	"github.com/lioia/pagerank-bench/pkg/server"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the gRPC Ranker service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Rank the jobs found on the work queue",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := server.New(server.Options{
		Logger:     slog.Default(),
		RequestLog: env.ServerLog,
	})
	err := s.Serve(ctx,
		fmt.Sprintf("%s:%d", env.Host, env.Port),
		fmt.Sprintf("%s:%d", env.Host, env.GrpcPort),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runWorker(cmd *cobra.Command, _ []string) error {
	url := env.RabbitURL()
	if url == "" {
		return errors.New("RABBIT_HOST is not set")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q, err := queue.Connect(url, env.WorkQueue, env.ResultQueue)
	if err != nil {
		return err
	}
	defer q.Close()
	utils.ServerLog("connected to %s (work: %s, result: %s)", env.RabbitHost, q.Work.Name, q.Result.Name)

	w := queue.NewWorker(q.Channel, q.Work.Name, q.Result.Name,
		queue.WithLogger(slog.Default().With("component", "worker")),
	)
	if err := w.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
