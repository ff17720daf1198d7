package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lioia/pagerank-bench/pkg/bench"
	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/job"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/rank"
	"github.com/lioia/pagerank-bench/pkg/utils"
)

var errTooLarge = errors.New("benchmark too large")

// BenchmarkRequest selects the graphs and combinations to measure; empty
// lists mean every generator configuration, backend or container
type BenchmarkRequest struct {
	Graphs        []generate.Params `json:"graphs"`
	Backends      []string          `json:"backends"`
	Containers    []string          `json:"containers"`
	Runs          int               `json:"runs"`
	Workers       int               `json:"workers"`
	Damping       *float64          `json:"damping"`
	Tolerance     float64           `json:"tolerance"`
	MaxIterations int               `json:"max_iterations"`
}

type BenchmarkResponse struct {
	Report  bench.Report  `json:"report"`
	Summary bench.Summary `json:"summary"`
}

type GeneratorsResponse struct {
	Generators     []string `json:"generators"`
	Configurations []string `json:"configurations"`
	Backends       []string `json:"backends"`
	Containers     []string `json:"containers"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) generators(c echo.Context) error {
	var response GeneratorsResponse
	response.Generators = generate.Names()
	for _, spec := range generate.Configurations() {
		response.Configurations = append(response.Configurations, spec.Name)
	}
	for _, k := range graph.Kinds() {
		response.Backends = append(response.Backends, string(k))
	}
	for _, k := range rank.Kinds() {
		response.Containers = append(response.Containers, string(k))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) rank(c echo.Context) error {
	var request job.Request
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.ID == "" {
		request.ID = utils.NewRunID()
	}
	response, err := job.Execute(request, pagerank.WithLogger(utils.EngineLogger()))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) benchmark(c echo.Context) error {
	var request BenchmarkRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	opts, err := s.benchmarkOptions(request)
	if err != nil {
		return httpError(err)
	}
	report, err := bench.Run(c.Request().Context(), opts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, BenchmarkResponse{Report: report, Summary: report.Summary()})
}

func (s *Server) benchmarkOptions(request BenchmarkRequest) (bench.Options, error) {
	opts := bench.Options{
		Runs:    request.Runs,
		Workers: request.Workers,
		Logger:  s.logger,
		Metrics: s.metrics,
		Config: job.Request{
			Damping:       request.Damping,
			Tolerance:     request.Tolerance,
			MaxIterations: request.MaxIterations,
		}.Config(),
	}
	if opts.Runs > s.opts.MaxBenchmarkRuns {
		return opts, fmt.Errorf("%w: at most %d runs", errTooLarge, s.opts.MaxBenchmarkRuns)
	}

	if len(request.Graphs) == 0 {
		opts.Graphs = generate.Configurations()
	}
	tooLarge := fmt.Errorf("%w: at most %d nodes", errTooLarge, s.opts.MaxBenchmarkNodes)
	for _, params := range request.Graphs {
		if params.Nodes > s.opts.MaxBenchmarkNodes {
			return opts, tooLarge
		}
		spec, err := generate.Generate(params)
		if err != nil {
			return opts, fmt.Errorf("%w: %w", job.ErrInvalidRequest, err)
		}
		// Generators fill in a default size
		if spec.Nodes > s.opts.MaxBenchmarkNodes {
			return opts, tooLarge
		}
		opts.Graphs = append(opts.Graphs, spec)
	}
	for _, name := range request.Backends {
		kind, err := graph.ParseKind(name)
		if err != nil {
			return opts, fmt.Errorf("%w: %w", job.ErrInvalidRequest, err)
		}
		opts.Backends = append(opts.Backends, kind)
	}
	for _, name := range request.Containers {
		kind, err := rank.ParseKind(name)
		if err != nil {
			return opts, fmt.Errorf("%w: %w", job.ErrInvalidRequest, err)
		}
		opts.Containers = append(opts.Containers, kind)
	}
	return opts, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, errTooLarge), errors.Is(err, job.ErrTooLarge), errors.Is(err, graph.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case job.IsClientError(err), errors.Is(err, bench.ErrNoGraphs):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}
