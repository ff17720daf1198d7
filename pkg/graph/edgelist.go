package graph

import "unsafe"

// EdgeList keeps nothing but the sequence of inserted edges.
// Every lookup is a full scan filtered by source.
type EdgeList struct {
	n     int
	edges []Edge
}

func NewEdgeList(n int) *EdgeList {
	return &EdgeList{n: n}
}

func (g *EdgeList) NodeCount() int { return g.n }

func (g *EdgeList) AddEdge(from, to int) error {
	if err := CheckNode(from, g.n); err != nil {
		return err
	}
	if err := CheckNode(to, g.n); err != nil {
		return err
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	return nil
}

func (g *EdgeList) Neighbors(node int) ([]int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return nil, err
	}
	var neighbors []int
	for _, e := range g.edges {
		if e.From == node {
			neighbors = append(neighbors, e.To)
		}
	}
	return neighbors, nil
}

func (g *EdgeList) OutDegree(node int) (int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return 0, err
	}
	degree := 0
	for _, e := range g.edges {
		if e.From == node {
			degree++
		}
	}
	return degree, nil
}

func (g *EdgeList) Footprint() int {
	return int(unsafe.Sizeof(*g)) + cap(g.edges)*int(unsafe.Sizeof(Edge{}))
}
