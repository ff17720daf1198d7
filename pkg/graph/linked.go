package graph

import "unsafe"

const nilLink = -1

// Neighbor record of a linked adjacency list.
// next is the index of the following record in the arena (nilLink at the end)
type link struct {
	to   int
	next int
}

// LinkedList stores, for every node, a singly linked chain of neighbor records.
// Records live in a shared append-only arena and each chain is owned by
// exactly one head; the tail index makes appends O(1) and keeps insertion order.
type LinkedList struct {
	n      int
	heads  []int
	tails  []int
	degree []int
	arena  []link
}

func NewLinkedList(n int) *LinkedList {
	g := &LinkedList{
		n:      n,
		heads:  make([]int, n),
		tails:  make([]int, n),
		degree: make([]int, n),
	}
	for i := 0; i < n; i++ {
		g.heads[i] = nilLink
		g.tails[i] = nilLink
	}
	return g
}

func (g *LinkedList) NodeCount() int { return g.n }

func (g *LinkedList) AddEdge(from, to int) error {
	if err := CheckNode(from, g.n); err != nil {
		return err
	}
	if err := CheckNode(to, g.n); err != nil {
		return err
	}
	g.arena = append(g.arena, link{to: to, next: nilLink})
	idx := len(g.arena) - 1
	// First neighbor of this node -> it becomes the head of the chain
	if g.tails[from] == nilLink {
		g.heads[from] = idx
	} else {
		g.arena[g.tails[from]].next = idx
	}
	g.tails[from] = idx
	g.degree[from]++
	return nil
}

func (g *LinkedList) Neighbors(node int) ([]int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return nil, err
	}
	neighbors := make([]int, 0, g.degree[node])
	for cur := g.heads[node]; cur != nilLink; cur = g.arena[cur].next {
		neighbors = append(neighbors, g.arena[cur].to)
	}
	return neighbors, nil
}

func (g *LinkedList) OutDegree(node int) (int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return 0, err
	}
	return g.degree[node], nil
}

func (g *LinkedList) Footprint() int {
	word := int(unsafe.Sizeof(int(0)))
	return int(unsafe.Sizeof(*g)) +
		3*cap(g.heads)*word +
		cap(g.arena)*int(unsafe.Sizeof(link{}))
}
