// Package bench runs the PageRank engine on every graph backend and rank
// container combination and records time, memory and iterations.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/rank"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	outcomeConverged  = "converged"
	outcomeTerminated = "terminated"
	outcomeError      = "error"
)

var ErrNoGraphs = errors.New("no graphs to benchmark")

type Options struct {
	Graphs     []generate.Spec
	Backends   []graph.Kind // Every backend when empty
	Containers []rank.Kind  // Every container when empty
	Config     pagerank.Config
	Runs       int // Repetitions of every combination (default 3)
	// Combinations measured at the same time (default 1). Allocation figures
	// are process wide, so they are only exact with a single worker.
	Workers int
	Logger  *slog.Logger
	Metrics *Metrics // Optional
}

// Measurement is the outcome of one graph × backend × container combination
type Measurement struct {
	Graph      string          `json:"graph"`
	GraphIndex int             `json:"graph_index"` // Position in Options.Graphs
	Backend    graph.Kind      `json:"backend"`
	Container  rank.Kind       `json:"container"`
	Nodes      int             `json:"nodes"`
	Edges      int             `json:"edges"`
	Runs       int             `json:"runs"`
	Times      []time.Duration `json:"times"`
	MeanTime   time.Duration   `json:"mean_time"`
	StdTime    time.Duration   `json:"std_time"`
	Iterations float64         `json:"iterations"` // Mean over the runs
	Converged  bool            `json:"converged"`  // Every run converged
	GraphBytes int             `json:"graph_bytes"`
	RankBytes  int             `json:"rank_bytes"`  // One rank vector; a run holds two at a time
	AllocBytes uint64          `json:"alloc_bytes"` // Mean heap allocation per run
	Ranks      []float64       `json:"ranks,omitempty"`
	Err        string          `json:"error,omitempty"`
}

func (m Measurement) Failed() bool { return m.Err != "" }

type Report struct {
	ID           string          `json:"id"`
	Started      time.Time       `json:"started"`
	Elapsed      time.Duration   `json:"elapsed"`
	Config       pagerank.Config `json:"config"`
	Measurements []Measurement   `json:"measurements"`
}

func (o *Options) withDefaults() {
	if len(o.Backends) == 0 {
		o.Backends = graph.Kinds()
	}
	if len(o.Containers) == 0 {
		o.Containers = rank.Kinds()
	}
	if o.Runs < 1 {
		o.Runs = 3
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Run measures every combination. A failing combination is reported in its
// Measurement and does not stop the others; only an invalid configuration
// or a cancelled context fail the whole run.
func Run(ctx context.Context, opts Options) (Report, error) {
	opts.withDefaults()
	if len(opts.Graphs) == 0 {
		return Report{}, ErrNoGraphs
	}
	if err := opts.Config.Validate(); err != nil {
		return Report{}, err
	}
	report := Report{
		ID:      utils.NewRunID(),
		Started: time.Now(),
		Config:  opts.Config,
	}
	logger := opts.Logger.With("run", report.ID)

	// One slot per combination, filled in place by the workers
	type job struct {
		index     int
		spec      generate.Spec
		backend   graph.Kind
		container rank.Kind
	}
	var jobs []job
	for index, spec := range opts.Graphs {
		for _, backend := range opts.Backends {
			for _, container := range opts.Containers {
				jobs = append(jobs, job{index: index, spec: spec, backend: backend, container: container})
			}
		}
	}
	report.Measurements = make([]Measurement, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m := measure(ctx, j.spec, j.backend, j.container, opts)
			m.GraphIndex = j.index
			if m.Failed() {
				logger.Warn("combination failed",
					"graph", m.Graph, "backend", m.Backend, "container", m.Container, "error", m.Err)
			} else {
				logger.Info("combination measured",
					"graph", m.Graph, "backend", m.Backend, "container", m.Container,
					"mean", m.MeanTime, "iterations", m.Iterations)
			}
			report.Measurements[i] = m
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	report.Elapsed = time.Since(report.Started)
	return report, nil
}

func measure(ctx context.Context, spec generate.Spec, backend graph.Kind, container rank.Kind, opts Options) Measurement {
	m := Measurement{
		Graph:     spec.Name,
		Backend:   backend,
		Container: container,
		Nodes:     spec.Nodes,
		Edges:     len(spec.Edges),
	}
	fail := func(err error) Measurement {
		m.Err = err.Error()
		opts.Metrics.observeRun(string(backend), string(container), outcomeError, 0, 0)
		return m
	}

	g, err := spec.Build(backend)
	if err != nil {
		return fail(fmt.Errorf("build graph: %w", err))
	}
	factory, err := rank.NewFactory(container)
	if err != nil {
		return fail(err)
	}
	engine, err := pagerank.New(opts.Config, factory, pagerank.WithLogger(utils.EngineLogger()))
	if err != nil {
		return fail(err)
	}
	m.GraphBytes = graph.Footprint(g)
	m.RankBytes = rank.Footprint(factory(spec.Nodes))
	opts.Metrics.observeFootprint(string(backend), string(container), m.GraphBytes, m.RankBytes)

	m.Converged = true
	var totalIterations int
	var totalAlloc uint64
	for run := 0; run < opts.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		start := time.Now()
		result, err := engine.Run(g)
		elapsed := time.Since(start)
		runtime.ReadMemStats(&after)
		if err != nil {
			return fail(err)
		}

		outcome := outcomeConverged
		if !result.Converged {
			outcome = outcomeTerminated
			m.Converged = false
		}
		opts.Metrics.observeRun(string(backend), string(container), outcome, elapsed.Seconds(), result.Iterations)

		m.Times = append(m.Times, elapsed)
		totalIterations += result.Iterations
		totalAlloc += after.TotalAlloc - before.TotalAlloc
		m.Ranks = result.Ranks
	}
	m.Runs = opts.Runs
	m.MeanTime, m.StdTime = meanStd(m.Times)
	m.Iterations = float64(totalIterations) / float64(opts.Runs)
	m.AllocBytes = totalAlloc / uint64(opts.Runs)
	return m
}

// Sample standard deviation, 0 for a single sample
func meanStd(times []time.Duration) (time.Duration, time.Duration) {
	if len(times) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, t := range times {
		sum += float64(t)
	}
	mean := sum / float64(len(times))
	if len(times) == 1 {
		return time.Duration(mean), 0
	}
	squares := 0.0
	for _, t := range times {
		squares += (float64(t) - mean) * (float64(t) - mean)
	}
	return time.Duration(mean), time.Duration(math.Sqrt(squares / float64(len(times)-1)))
}

// DemoOptions runs the notebook graph once with every rank container on the
// linked backend
func DemoOptions(cfg pagerank.Config) Options {
	return Options{
		Graphs:     []generate.Spec{generate.Original()},
		Backends:   []graph.Kind{graph.LinkedKind},
		Containers: rank.Kinds(),
		Config:     cfg,
		Runs:       1,
	}
}

// RepresentationOptions compares the graph backends on the notebook graph
// using the array container
func RepresentationOptions(cfg pagerank.Config) Options {
	return Options{
		Graphs:     []generate.Spec{generate.Original()},
		Backends:   graph.Kinds(),
		Containers: []rank.Kind{rank.ArrayKind},
		Config:     cfg,
		Runs:       1,
	}
}
