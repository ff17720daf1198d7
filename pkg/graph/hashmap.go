package graph

import "unsafe"

// Rough per-entry overhead of a Go map bucket slot (key, value and tophash)
const mapEntryOverhead = 8 + 1

// HashMap is an adjacency list keyed by node id
type HashMap struct {
	n   int
	adj map[int][]int
}

func NewHashMap(n int) *HashMap {
	adj := make(map[int][]int, n)
	for i := 0; i < n; i++ {
		adj[i] = nil
	}
	return &HashMap{n: n, adj: adj}
}

func (g *HashMap) NodeCount() int { return g.n }

func (g *HashMap) AddEdge(from, to int) error {
	if err := CheckNode(from, g.n); err != nil {
		return err
	}
	if err := CheckNode(to, g.n); err != nil {
		return err
	}
	g.adj[from] = append(g.adj[from], to)
	return nil
}

// Neighbors returns a copy, callers cannot modify the stored list
func (g *HashMap) Neighbors(node int) ([]int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return nil, err
	}
	neighbors := make([]int, len(g.adj[node]))
	copy(neighbors, g.adj[node])
	return neighbors, nil
}

func (g *HashMap) OutDegree(node int) (int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return 0, err
	}
	return len(g.adj[node]), nil
}

func (g *HashMap) Footprint() int {
	word := int(unsafe.Sizeof(int(0)))
	size := int(unsafe.Sizeof(*g))
	for _, neighbors := range g.adj {
		size += word + int(unsafe.Sizeof(neighbors)) + mapEntryOverhead
		size += cap(neighbors) * word
	}
	return size
}
