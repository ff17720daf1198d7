// Package report prints graphs, ranks and benchmark results as terminal
// tables and renders ranked graphs with graphviz.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/lioia/pagerank-bench/pkg/bench"
	"github.com/lioia/pagerank-bench/pkg/generate"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
)

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorMuted  = lipgloss.Color("#6C7086")
	colorError  = lipgloss.Color("#F38BA8")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleFailed = styleCell.Foreground(colorError)
	styleBorder = lipgloss.NewStyle().Foreground(colorMuted)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}

func write(w io.Writer, title string, t *table.Table) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", styleTitle.Render(title), t.Render())
	return err
}

// Bytes formats a byte count for humans, "-" when unknown
func Bytes[T int | uint64](n T) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

// Duration rounds d to a readable precision
func Duration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	}
	return d.String()
}

// GraphInfo prints the structure of a graph
func GraphInfo(w io.Writer, name string, stats generate.Stats, footprint int) error {
	t := newTable("Property", "Value").
		Row("Nodes", humanize.Comma(int64(stats.Nodes))).
		Row("Edges", humanize.Comma(int64(stats.Edges))).
		Row("Avg out-degree", strconv.FormatFloat(stats.AvgOutDegree, 'f', 2, 64)).
		Row("Max out-degree", strconv.Itoa(stats.MaxOutDegree)).
		Row("Min out-degree", strconv.Itoa(stats.MinOutDegree)).
		Row("Dangling nodes", strconv.Itoa(stats.Dangling)).
		Row("Density", strconv.FormatFloat(stats.Density, 'f', 4, 64)).
		Row("Footprint", Bytes(footprint))
	return write(w, name, t)
}

// TopRanks prints the k highest ranked nodes and the state of the run
func TopRanks(w io.Writer, result pagerank.Result, k int) error {
	t := newTable("#", "Node", "Rank")
	for i, nr := range result.Top(k) {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(nr.Node), strconv.FormatFloat(nr.Rank, 'f', 6, 64))
	}
	title := fmt.Sprintf("PageRank (%s after %d iterations, sum %.6f)",
		result.State, result.Iterations, result.Sum())
	return write(w, title, t)
}

// Measurements prints one row per combination of the report
func Measurements(w io.Writer, r bench.Report) error {
	t := newTable("Graph", "Backend", "Container", "Mean", "Std", "Iterations", "Converged", "Graph size", "Ranks size", "Allocated")
	var failed []int
	for i, m := range r.Measurements {
		if m.Failed() {
			failed = append(failed, i)
			t.Row(m.Graph, string(m.Backend), string(m.Container), "error: "+m.Err, "", "", "", "", "", "")
			continue
		}
		t.Row(
			m.Graph,
			string(m.Backend),
			string(m.Container),
			Duration(m.MeanTime),
			Duration(m.StdTime),
			strconv.FormatFloat(m.Iterations, 'f', 1, 64),
			strconv.FormatBool(m.Converged),
			Bytes(m.GraphBytes),
			Bytes(m.RankBytes),
			Bytes(m.AllocBytes),
		)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return styleHeader
		}
		for _, i := range failed {
			if row == i {
				return styleFailed
			}
		}
		return styleCell
	})
	title := fmt.Sprintf("Benchmark %s (%s, damping %g, tolerance %g)",
		r.ID, Duration(r.Elapsed), r.Config.Damping, r.Config.Tolerance)
	return write(w, title, t)
}

// Summary prints the aggregated view of a report
func Summary(w io.Writer, s bench.Summary) error {
	fastest := newTable("Graph", "Backend", "Fastest container", "Mean")
	for _, f := range s.Fastest {
		fastest.Row(f.Graph, string(f.Backend), string(f.Container), Duration(f.MeanTime))
	}
	if err := write(w, "Fastest container per graph", fastest); err != nil {
		return err
	}

	containers := newTable("#", "Container", "Mean", "Samples")
	for i, c := range s.Containers {
		containers.Row(strconv.Itoa(i+1), string(c.Container), Duration(c.MeanTime), strconv.Itoa(c.Samples))
	}
	if err := write(w, "Container ranking", containers); err != nil {
		return err
	}

	agreement := newTable("Graph", "Compared", "Max deviation")
	for _, a := range s.Agreement {
		agreement.Row(a.Graph, strconv.Itoa(a.Compared), strconv.FormatFloat(a.MaxDeviation, 'e', 2, 64))
	}
	if err := write(w, "Result agreement", agreement); err != nil {
		return err
	}
	if s.Failures > 0 {
		_, err := fmt.Fprintln(w, styleFailed.Render(fmt.Sprintf("%d combinations failed", s.Failures)))
		return err
	}
	return nil
}
