package rank

import (
	"unsafe"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

// Array stores the score of node i at index i
type Array struct {
	values []float64
}

func NewArray(n int) *Array {
	return &Array{values: make([]float64, n)}
}

func (a *Array) Len() int { return len(a.values) }

func (a *Array) Get(node int) (float64, error) {
	if err := graph.CheckNode(node, len(a.values)); err != nil {
		return 0, err
	}
	return a.values[node], nil
}

func (a *Array) Set(node int, value float64) error {
	if err := graph.CheckNode(node, len(a.values)); err != nil {
		return err
	}
	a.values[node] = value
	return nil
}

func (a *Array) Add(node int, delta float64) error {
	if err := graph.CheckNode(node, len(a.values)); err != nil {
		return err
	}
	a.values[node] += delta
	return nil
}

func (a *Array) Reset(value float64) {
	for i := range a.values {
		a.values[i] = value
	}
}

func (a *Array) Range(fn func(node int, value float64) bool) {
	for i, v := range a.values {
		if !fn(i, v) {
			return
		}
	}
}

func (a *Array) Snapshot() []float64 {
	out := make([]float64, len(a.values))
	copy(out, a.values)
	return out
}

func (a *Array) Footprint() int {
	return int(unsafe.Sizeof(*a)) + cap(a.values)*int(unsafe.Sizeof(float64(0)))
}
