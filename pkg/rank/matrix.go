package rank

import (
	"unsafe"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

// MatrixRow keeps the scores as the single row of a 1×n matrix
type MatrixRow struct {
	n    int
	data [][]float64
}

func NewMatrixRow(n int) *MatrixRow {
	return &MatrixRow{n: n, data: [][]float64{make([]float64, n)}}
}

func (m *MatrixRow) row() []float64 { return m.data[0] }

func (m *MatrixRow) Len() int { return m.n }

func (m *MatrixRow) Get(node int) (float64, error) {
	if err := graph.CheckNode(node, m.n); err != nil {
		return 0, err
	}
	return m.data[0][node], nil
}

func (m *MatrixRow) Set(node int, value float64) error {
	if err := graph.CheckNode(node, m.n); err != nil {
		return err
	}
	m.data[0][node] = value
	return nil
}

func (m *MatrixRow) Add(node int, delta float64) error {
	if err := graph.CheckNode(node, m.n); err != nil {
		return err
	}
	m.data[0][node] += delta
	return nil
}

func (m *MatrixRow) Reset(value float64) {
	row := m.row()
	for j := range row {
		row[j] = value
	}
}

func (m *MatrixRow) Range(fn func(node int, value float64) bool) {
	for j, v := range m.row() {
		if !fn(j, v) {
			return
		}
	}
}

func (m *MatrixRow) Snapshot() []float64 {
	out := make([]float64, m.n)
	copy(out, m.row())
	return out
}

func (m *MatrixRow) Footprint() int {
	return int(unsafe.Sizeof(*m)) +
		len(m.data)*int(unsafe.Sizeof([]float64{})) +
		m.n*int(unsafe.Sizeof(float64(0)))
}
