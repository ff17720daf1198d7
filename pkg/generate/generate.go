// Package generate builds the synthetic graphs used to compare the backends.
// Generators only emit edge lists, any backend can be built from them.
package generate

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

var ErrUnknownGenerator = errors.New("unknown generator")

// Spec is a generated graph: a name, the node count and the edge list
type Spec struct {
	Name  string
	Nodes int
	Edges []graph.Edge
}

func (s Spec) Build(kind graph.Kind) (graph.Graph, error) {
	return graph.Build(kind, s.Nodes, s.Edges)
}

// Original is the 10-node graph of the course notebook
func Original() Spec {
	edges := []graph.Edge{
		{From: 0, To: 1}, {From: 0, To: 3}, {From: 1, To: 2}, {From: 1, To: 4}, {From: 2, To: 5},
		{From: 3, To: 4}, {From: 3, To: 6}, {From: 4, To: 5}, {From: 4, To: 7}, {From: 5, To: 8},
		{From: 6, To: 7}, {From: 7, To: 8}, {From: 7, To: 9}, {From: 8, To: 9}, {From: 9, To: 6},
	}
	return Spec{Name: "Original (10 nodes)", Nodes: 10, Edges: edges}
}

// Random adds every edge i -> j (i != j) with probability p
func Random(n int, p float64, seed int64) Spec {
	rng := rand.New(rand.NewSource(seed))
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && rng.Float64() < p {
				edges = append(edges, graph.Edge{From: i, To: j})
			}
		}
	}
	return Spec{Name: fmt.Sprintf("Random (%d nodes, p=%g)", n, p), Nodes: n, Edges: edges}
}

// ScaleFree grows a graph by preferential attachment (simplified
// Barabási-Albert): every new node links to m existing nodes picked with
// probability proportional to their out-degree, repetitions allowed
func ScaleFree(n, m int, seed int64) Spec {
	name := fmt.Sprintf("Scale-Free (%d nodes, m=%d)", n, m)
	if n < m+1 {
		// Too small for a seed clique -> complete graph
		spec := Complete(n)
		spec.Name = name
		return spec
	}
	rng := rand.New(rand.NewSource(seed))
	var edges []graph.Edge
	// Start with a small complete graph
	for i := 0; i <= m; i++ {
		for j := 0; j <= m; j++ {
			if i != j {
				edges = append(edges, graph.Edge{From: i, To: j})
			}
		}
	}
	degrees := make([]int, m+1, n)
	for i := range degrees {
		degrees[i] = m
	}
	total := m * (m + 1)
	for u := m + 1; u < n; u++ {
		targets := make([]int, 0, m)
		for k := 0; k < m; k++ {
			targets = append(targets, pick(rng, degrees, total))
		}
		degrees = append(degrees, 0)
		for _, v := range targets {
			edges = append(edges, graph.Edge{From: u, To: v})
			degrees[u]++
			total++
		}
	}
	return Spec{Name: name, Nodes: n, Edges: edges}
}

// Weighted random selection over degrees
func pick(rng *rand.Rand, degrees []int, total int) int {
	if total == 0 {
		return rng.Intn(len(degrees))
	}
	r := rng.Intn(total)
	for i, d := range degrees {
		if r < d {
			return i
		}
		r -= d
	}
	return len(degrees) - 1
}

// Chain is the cycle 0 -> 1 -> ... -> n-1 -> 0
func Chain(n int) Spec {
	edges := make([]graph.Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, graph.Edge{From: i, To: (i + 1) % n})
	}
	return Spec{Name: fmt.Sprintf("Chain (%d nodes)", n), Nodes: n, Edges: edges}
}

// Star links the center (0) to every other node and every node back to it
func Star(n int) Spec {
	var edges []graph.Edge
	for i := 1; i < n; i++ {
		edges = append(edges, graph.Edge{From: 0, To: i}, graph.Edge{From: i, To: 0})
	}
	return Spec{Name: fmt.Sprintf("Star (%d nodes)", n), Nodes: n, Edges: edges}
}

// Complete links every node to every other node
func Complete(n int) Spec {
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				edges = append(edges, graph.Edge{From: i, To: j})
			}
		}
	}
	return Spec{Name: fmt.Sprintf("Complete (%d nodes)", n), Nodes: n, Edges: edges}
}

// Params selects a generator by name, see Names
type Params struct {
	Generator   string  `json:"generator"`
	Nodes       int     `json:"nodes"`
	Probability float64 `json:"probability"`
	Attach      int     `json:"attach"`
	Seed        int64   `json:"seed"`
}

func Names() []string {
	return []string{"original", "random", "scalefree", "chain", "star", "complete"}
}

// Generate runs the generator named in p; zero parameters take the defaults
// of the standard configurations
func Generate(p Params) (Spec, error) {
	if p.Nodes < 0 {
		return Spec{}, fmt.Errorf("negative node count %d", p.Nodes)
	}
	nodes := p.Nodes
	if nodes == 0 {
		nodes = 100
	}
	seed := p.Seed
	if seed == 0 {
		seed = 42
	}
	switch strings.ToLower(strings.TrimSpace(p.Generator)) {
	case "original":
		return Original(), nil
	case "random":
		prob := p.Probability
		if prob <= 0 {
			prob = 0.1
		}
		return Random(nodes, prob, seed), nil
	case "scalefree", "scale-free":
		m := p.Attach
		if m <= 0 {
			m = 2
		}
		return ScaleFree(nodes, m, seed), nil
	case "chain":
		return Chain(nodes), nil
	case "star":
		return Star(nodes), nil
	case "complete":
		return Complete(nodes), nil
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownGenerator, p.Generator)
}

// Configurations returns the standard benchmark graphs
func Configurations() []Spec {
	small := Random(50, 0.1, 42)
	small.Name = "Small Random (50 nodes)"
	medium := Random(200, 0.05, 42)
	medium.Name = "Medium Random (200 nodes)"
	large := Random(500, 0.02, 42)
	large.Name = "Large Random (500 nodes)"
	return []Spec{
		Original(),
		small,
		medium,
		large,
		Chain(100),
		Star(100),
		ScaleFree(100, 3, 42),
	}
}
