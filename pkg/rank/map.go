package rank

import (
	"unsafe"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

// Map stores the scores in a built-in map holding every node
type Map struct {
	n      int
	values map[int]float64
}

func NewMap(n int) *Map {
	values := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 0
	}
	return &Map{n: n, values: values}
}

func (m *Map) Len() int { return m.n }

func (m *Map) Get(node int) (float64, error) {
	if err := graph.CheckNode(node, m.n); err != nil {
		return 0, err
	}
	return m.values[node], nil
}

func (m *Map) Set(node int, value float64) error {
	if err := graph.CheckNode(node, m.n); err != nil {
		return err
	}
	m.values[node] = value
	return nil
}

func (m *Map) Add(node int, delta float64) error {
	if err := graph.CheckNode(node, m.n); err != nil {
		return err
	}
	m.values[node] += delta
	return nil
}

func (m *Map) Reset(value float64) {
	for k := range m.values {
		m.values[k] = value
	}
}

// Range walks node ids rather than the map, map iteration order is random
func (m *Map) Range(fn func(node int, value float64) bool) {
	for i := 0; i < m.n; i++ {
		if !fn(i, m.values[i]) {
			return
		}
	}
}

func (m *Map) Snapshot() []float64 {
	out := make([]float64, m.n)
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *Map) Footprint() int {
	perEntry := int(unsafe.Sizeof(int(0))+unsafe.Sizeof(float64(0))) + 1
	return int(unsafe.Sizeof(*m)) + len(m.values)*perEntry
}
