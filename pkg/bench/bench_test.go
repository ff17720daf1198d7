package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/rank"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEveryCombination(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	report, err := Run(context.Background(), Options{
		Graphs:     []generate.Spec{generate.Original()},
		Containers: []rank.Kind{rank.ArrayKind, rank.HashTableKind},
		Config:     pagerank.DefaultConfig(),
		Runs:       2,
		Workers:    4,
		Metrics:    metrics,
	})
	require.NoError(t, err)
	assert.Len(t, report.ID, 12)
	assert.Equal(t, pagerank.DefaultConfig(), report.Config)
	require.Len(t, report.Measurements, len(graph.Kinds())*2)

	// Measurements keep the graph, backend, container order
	assert.Equal(t, graph.Kinds()[0], report.Measurements[0].Backend)
	assert.Equal(t, rank.ArrayKind, report.Measurements[0].Container)
	assert.Equal(t, rank.HashTableKind, report.Measurements[1].Container)

	for _, m := range report.Measurements {
		require.False(t, m.Failed(), m.Err)
		assert.Equal(t, "Original (10 nodes)", m.Graph)
		assert.Equal(t, 10, m.Nodes)
		assert.Equal(t, 15, m.Edges)
		assert.Equal(t, 2, m.Runs)
		assert.Len(t, m.Times, 2)
		assert.True(t, m.Converged)
		assert.Equal(t, 40.0, m.Iterations)
		assert.Positive(t, m.GraphBytes)
		assert.Positive(t, m.RankBytes)
		assert.Len(t, m.Ranks, 10)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.runs.WithLabelValues("linked", "array", outcomeConverged)))
	assert.Equal(t, len(graph.Kinds())*2, testutil.CollectAndCount(metrics.runDuration))
	assert.Equal(t, float64(report.Measurements[0].GraphBytes),
		testutil.ToFloat64(metrics.footprint.WithLabelValues("graph", string(report.Measurements[0].Backend))))
}

func TestRunRecordsFailures(t *testing.T) {
	broken := generate.Spec{Name: "broken", Nodes: 2, Edges: []graph.Edge{{From: 0, To: 5}}}
	empty := generate.Spec{Name: "empty"}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	report, err := Run(context.Background(), Options{
		Graphs:     []generate.Spec{broken, generate.Chain(5), empty},
		Backends:   []graph.Kind{graph.LinkedKind},
		Containers: []rank.Kind{rank.MapKind},
		Config:     pagerank.DefaultConfig(),
		Runs:       1,
		Metrics:    metrics,
	})
	require.NoError(t, err)
	require.Len(t, report.Measurements, 3)

	assert.True(t, report.Measurements[0].Failed())
	assert.Contains(t, report.Measurements[0].Err, "build graph")
	assert.False(t, report.Measurements[1].Failed())
	assert.True(t, report.Measurements[2].Failed())
	assert.Equal(t, pagerank.ErrEmptyGraph.Error(), report.Measurements[2].Err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.runs.WithLabelValues("linked", "map", outcomeError)))
	assert.Equal(t, 2, report.Summary().Failures)
}

func TestRunTerminated(t *testing.T) {
	cfg := pagerank.DefaultConfig()
	cfg.MaxIterations = 3
	report, err := Run(context.Background(), Options{
		Graphs:     []generate.Spec{generate.Original()},
		Backends:   []graph.Kind{graph.MatrixKind},
		Containers: []rank.Kind{rank.MatrixKind},
		Config:     cfg,
		Runs:       1,
	})
	require.NoError(t, err)
	m := report.Measurements[0]
	assert.False(t, m.Converged)
	assert.Equal(t, 3.0, m.Iterations)
	assert.Zero(t, m.StdTime)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Options{Config: pagerank.DefaultConfig()})
	assert.ErrorIs(t, err, ErrNoGraphs)

	_, err = Run(context.Background(), Options{
		Graphs: []generate.Spec{generate.Original()},
		Config: pagerank.Config{Damping: 1, Tolerance: 1e-6, MaxIterations: 10},
	})
	assert.ErrorIs(t, err, pagerank.ErrConfiguration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, DemoOptions(pagerank.DefaultConfig()))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)

	mean, std = meanStd([]time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 6 * time.Millisecond})
	assert.Equal(t, 4*time.Millisecond, mean)
	assert.Equal(t, 2*time.Millisecond, std)
}

func TestSummary(t *testing.T) {
	report := Report{Measurements: []Measurement{
		{Graph: "a", Backend: graph.LinkedKind, Container: rank.ArrayKind, MeanTime: 30, Ranks: []float64{0.5, 0.5}},
		{Graph: "a", Backend: graph.LinkedKind, Container: rank.MapKind, MeanTime: 10, Ranks: []float64{0.4, 0.6}},
		{Graph: "a", Backend: graph.MatrixKind, Container: rank.ArrayKind, MeanTime: 50, Ranks: []float64{0.5, 0.5}},
		{Graph: "a", Backend: graph.MatrixKind, Container: rank.MapKind, Err: "boom"},
		{Graph: "b", GraphIndex: 1, Backend: graph.LinkedKind, Container: rank.ArrayKind, MeanTime: 10, Ranks: []float64{1}},
	}}
	s := report.Summary()
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, []Fastest{
		{Graph: "a", Backend: graph.LinkedKind, Container: rank.MapKind, MeanTime: 10},
		{Graph: "a", Backend: graph.MatrixKind, Container: rank.ArrayKind, MeanTime: 50},
		{Graph: "b", Backend: graph.LinkedKind, Container: rank.ArrayKind, MeanTime: 10},
	}, s.Fastest)
	assert.Equal(t, []ContainerRank{
		{Container: rank.MapKind, MeanTime: 10, Samples: 1},
		{Container: rank.ArrayKind, MeanTime: 30, Samples: 3},
	}, s.Containers)
	require.Len(t, s.Agreement, 2)
	assert.Equal(t, "a", s.Agreement[0].Graph)
	assert.Equal(t, 3, s.Agreement[0].Compared)
	assert.InDelta(t, 0.1, s.Agreement[0].MaxDeviation, 1e-12)
	assert.Zero(t, s.Agreement[1].MaxDeviation)
}

func TestSummarySeparatesGraphsWithTheSameName(t *testing.T) {
	opts := Options{
		Graphs: []generate.Spec{
			generate.Random(30, 0.2, 1),
			generate.Random(30, 0.2, 2),
		},
		Backends:   []graph.Kind{graph.LinkedKind, graph.MatrixKind},
		Containers: []rank.Kind{rank.ArrayKind},
		Config:     pagerank.DefaultConfig(),
		Runs:       1,
	}
	require.Equal(t, opts.Graphs[0].Name, opts.Graphs[1].Name)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Measurements[0].GraphIndex)
	assert.Equal(t, 1, report.Measurements[3].GraphIndex)

	s := report.Summary()
	require.Len(t, s.Agreement, 2)
	require.Len(t, s.Fastest, 4)
	for _, a := range s.Agreement {
		assert.Equal(t, 2, a.Compared)
		assert.Less(t, a.MaxDeviation, 1e-12)
	}
}

func TestPresets(t *testing.T) {
	demo := DemoOptions(pagerank.DefaultConfig())
	assert.Equal(t, rank.Kinds(), demo.Containers)
	assert.Equal(t, []graph.Kind{graph.LinkedKind}, demo.Backends)

	report, err := Run(context.Background(), RepresentationOptions(pagerank.DefaultConfig()))
	require.NoError(t, err)
	require.Len(t, report.Measurements, len(graph.Kinds()))
	assert.Less(t, report.Summary().Agreement[0].MaxDeviation, 1e-12)
}
