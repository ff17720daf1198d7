package bench

import (
	"math"
	"sort"
	"time"

	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/rank"
)

// Fastest is the quickest rank container for one graph and backend
type Fastest struct {
	Graph     string        `json:"graph"`
	Backend   graph.Kind    `json:"backend"`
	Container rank.Kind     `json:"container"`
	MeanTime  time.Duration `json:"mean_time"`
}

// ContainerRank orders the rank containers by their mean time over every
// successful measurement
type ContainerRank struct {
	Container rank.Kind     `json:"container"`
	MeanTime  time.Duration `json:"mean_time"`
	Samples   int           `json:"samples"`
}

// Agreement is the largest difference between the ranks computed by any two
// combinations on the same graph
type Agreement struct {
	Graph        string  `json:"graph"`
	MaxDeviation float64 `json:"max_deviation"`
	Compared     int     `json:"compared"`
}

type Summary struct {
	Fastest    []Fastest       `json:"fastest"`
	Containers []ContainerRank `json:"containers"`
	Agreement  []Agreement     `json:"agreement"`
	Failures   int             `json:"failures"`
}

// Summary aggregates the successful measurements of the report. Graphs are
// told apart by their position, so two graphs sharing a name stay separate.
// Groups are listed in the order they first appear in the report.
func (r Report) Summary() Summary {
	var s Summary

	type groupKey struct {
		graph   int
		backend graph.Kind
	}
	fastest := map[groupKey]int{}

	containerTotal := map[rank.Kind]time.Duration{}
	containerSamples := map[rank.Kind]int{}

	reference := map[int][]float64{}
	agreement := map[int]*Agreement{}
	var graphOrder []int

	for _, m := range r.Measurements {
		if m.Failed() {
			s.Failures++
			continue
		}

		key := groupKey{graph: m.GraphIndex, backend: m.Backend}
		if i, ok := fastest[key]; !ok {
			fastest[key] = len(s.Fastest)
			s.Fastest = append(s.Fastest, Fastest{Graph: m.Graph, Backend: m.Backend, Container: m.Container, MeanTime: m.MeanTime})
		} else if m.MeanTime < s.Fastest[i].MeanTime {
			s.Fastest[i].Container = m.Container
			s.Fastest[i].MeanTime = m.MeanTime
		}

		containerTotal[m.Container] += m.MeanTime
		containerSamples[m.Container]++

		ref, ok := reference[m.GraphIndex]
		if !ok {
			reference[m.GraphIndex] = m.Ranks
			agreement[m.GraphIndex] = &Agreement{Graph: m.Graph, Compared: 1}
			graphOrder = append(graphOrder, m.GraphIndex)
			continue
		}
		a := agreement[m.GraphIndex]
		a.Compared++
		if d := deviation(ref, m.Ranks); d > a.MaxDeviation {
			a.MaxDeviation = d
		}
	}

	for container, total := range containerTotal {
		samples := containerSamples[container]
		s.Containers = append(s.Containers, ContainerRank{
			Container: container,
			MeanTime:  total / time.Duration(samples),
			Samples:   samples,
		})
	}
	sort.Slice(s.Containers, func(i, j int) bool {
		if s.Containers[i].MeanTime == s.Containers[j].MeanTime {
			return s.Containers[i].Container < s.Containers[j].Container
		}
		return s.Containers[i].MeanTime < s.Containers[j].MeanTime
	})

	for _, index := range graphOrder {
		s.Agreement = append(s.Agreement, *agreement[index])
	}
	return s
}

// Max absolute difference; ranks lie in [0, 1] so vectors of different
// length get the largest possible value
func deviation(a, b []float64) float64 {
	if len(a) != len(b) {
		return 1
	}
	max := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}
	return max
}
