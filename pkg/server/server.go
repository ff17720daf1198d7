// Package server exposes the engine and the benchmark harness over HTTP
// (echo) and gRPC.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lioia/pagerank-bench/pkg/bench"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

type Options struct {
	Logger *slog.Logger
	// Log every HTTP request and gRPC call
	RequestLog bool
	// Upper bound on the nodes of a benchmark graph (default 5000)
	MaxBenchmarkNodes int
	// Upper bound on the repetitions of a benchmark (default 10)
	MaxBenchmarkRuns int
	// Largest accepted HTTP body, in echo's BodyLimit notation (default 32M)
	MaxBodySize string
	// Time given to in-flight requests on shutdown (default 5s)
	ShutdownTimeout time.Duration
}

type Server struct {
	opts     Options
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *bench.Metrics
	requests *prometheus.CounterVec
	echo     *echo.Echo
	grpc     *grpc.Server
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxBenchmarkNodes <= 0 {
		opts.MaxBenchmarkNodes = 5000
	}
	if opts.MaxBenchmarkRuns <= 0 {
		opts.MaxBenchmarkRuns = 10
	}
	if opts.MaxBodySize == "" {
		opts.MaxBodySize = "32M"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s := &Server{
		opts:     opts,
		logger:   opts.Logger.With("component", "server"),
		registry: registry,
		metrics:  bench.NewMetrics(registry),
		requests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "pagerank_requests_total",
			Help: "Requests served by transport, method and outcome",
		}, []string{"transport", "method", "code"}),
	}
	s.echo = s.newEcho()
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(s.unaryInterceptor))
	RegisterRankerServer(s.grpc, &rankerServer{server: s})
	return s
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(s.opts.MaxBodySize))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.requests.WithLabelValues("http", v.Method+" "+c.Path(), fmt.Sprint(v.Status)).Inc()
			if s.opts.RequestLog {
				s.logger.Info("request",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"error", v.Error,
				)
			}
			return nil
		},
	}))

	e.GET("/health", s.health)
	e.GET("/generators", s.generators)
	e.POST("/rank", s.rank)
	e.POST("/benchmark", s.benchmark)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	return e
}

// Handler serves the HTTP API
func (s *Server) Handler() http.Handler { return s.echo }

// GRPC returns the gRPC server with the Ranker service registered
func (s *Server) GRPC() *grpc.Server { return s.grpc }

// Serve runs the HTTP API on httpAddr and the gRPC server on grpcAddr until
// ctx is done or one of them fails
func (s *Server) Serve(ctx context.Context, httpAddr, grpcAddr string) error {
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", grpcAddr, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server started", "address", httpAddr)
		if err := s.echo.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.logger.Info("grpc server started", "address", lis.Addr().String())
		if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.grpc.GracefulStop()
		return s.echo.Shutdown(shutdown)
	})
	err = g.Wait()
	s.logger.Info("servers stopped")
	return err
}
