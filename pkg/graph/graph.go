package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Graph is a directed graph over the nodes [0, NodeCount()).
// Backends only differ in how edges are stored, never in what they return.
type Graph interface {
	NodeCount() int
	// AddEdge records the directed edge from -> to
	AddEdge(from, to int) error
	// Neighbors returns the out-neighbors of node; the order is fixed for
	// a given backend as long as the graph is not modified
	Neighbors(node int) ([]int, error)
	OutDegree(node int) (int, error)
}

// Sizer is implemented by structures that can estimate their own memory
// footprint in bytes
type Sizer interface {
	Footprint() int
}

type Edge struct {
	From int
	To   int
}

// Kind selects a graph backend
type Kind string

const (
	LinkedKind   Kind = "linked"   // Adjacency list with linked neighbor records
	MatrixKind   Kind = "matrix"   // Dense adjacency matrix
	HashMapKind  Kind = "hashmap"  // Hash map of neighbor slices
	EdgeListKind Kind = "edgelist" // Flat list of (from, to) pairs
)

var ErrUnknownKind = errors.New("unknown graph backend")

// Kinds returns every backend, in the order used for reports
func Kinds() []Kind {
	return []Kind{LinkedKind, MatrixKind, HashMapKind, EdgeListKind}
}

func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New creates an empty graph with n nodes using the selected backend
func New(kind Kind, n int) (Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative node count %d", n)
	}
	switch kind {
	case LinkedKind:
		return NewLinkedList(n), nil
	case MatrixKind:
		if n > MaxMatrixNodes {
			return nil, fmt.Errorf("%w: the matrix backend holds at most %d nodes", ErrTooLarge, MaxMatrixNodes)
		}
		return NewMatrix(n), nil
	case HashMapKind:
		return NewHashMap(n), nil
	case EdgeListKind:
		return NewEdgeList(n), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Build creates a graph with the selected backend and inserts every edge.
// The first out of range edge aborts the construction.
func Build(kind Kind, n int, edges []Edge) (Graph, error) {
	g, err := New(kind, n)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Edges lists every stored edge, grouped by source node in ascending order
func Edges(g Graph) ([]Edge, error) {
	var edges []Edge
	for u := 0; u < g.NodeCount(); u++ {
		neighbors, err := g.Neighbors(u)
		if err != nil {
			return nil, err
		}
		for _, v := range neighbors {
			edges = append(edges, Edge{From: u, To: v})
		}
	}
	return edges, nil
}

// Footprint returns the estimated size of g in bytes, or 0 if the backend
// does not report it
func Footprint(g Graph) int {
	if s, ok := g.(Sizer); ok {
		return s.Footprint()
	}
	return 0
}
