package graph

import "unsafe"

// Matrix is a dense n×n adjacency matrix.
// Adjacency Matrix A of G=(V, E): a_(i j) = number of (i j) edges in E,
// so repeated edges keep the same out-degree as the list backends.
// MaxMatrixNodes keeps the n*n cell count inside an int32
const MaxMatrixNodes = 46340

type Matrix struct {
	n    int
	data [][]uint32
}

func NewMatrix(n int) *Matrix {
	// Single backing array, one row slice per node
	cells := make([]uint32, n*n)
	data := make([][]uint32, n)
	for i := range data {
		data[i] = cells[i*n : (i+1)*n : (i+1)*n]
	}
	return &Matrix{n: n, data: data}
}

func (g *Matrix) NodeCount() int { return g.n }

func (g *Matrix) AddEdge(from, to int) error {
	if err := CheckNode(from, g.n); err != nil {
		return err
	}
	if err := CheckNode(to, g.n); err != nil {
		return err
	}
	g.data[from][to]++
	return nil
}

// Neighbors scans the whole row; a column appears once per stored edge
func (g *Matrix) Neighbors(node int) ([]int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return nil, err
	}
	var neighbors []int
	for j, count := range g.data[node] {
		for c := uint32(0); c < count; c++ {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors, nil
}

func (g *Matrix) OutDegree(node int) (int, error) {
	if err := CheckNode(node, g.n); err != nil {
		return 0, err
	}
	degree := 0
	for _, count := range g.data[node] {
		degree += int(count)
	}
	return degree, nil
}

func (g *Matrix) Footprint() int {
	return int(unsafe.Sizeof(*g)) +
		len(g.data)*int(unsafe.Sizeof([]uint32{})) +
		g.n*g.n*int(unsafe.Sizeof(uint32(0)))
}
