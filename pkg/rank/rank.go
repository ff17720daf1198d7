// Package rank provides the containers holding one score per node.
//
// Every container covers the fixed node range [0, n) and answers out of range
// accesses with a *graph.InvalidNodeError. The variants only differ in how
// the scores are stored, so they can be swapped to compare their cost.
package rank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

type Vector interface {
	Len() int
	Get(node int) (float64, error)
	Set(node int, value float64) error
	// Add accumulates delta into the current value of node
	Add(node int, delta float64) error
	// Reset sets every node to value
	Reset(value float64)
	// Range calls fn for every node in ascending id order until fn returns false
	Range(fn func(node int, value float64) bool)
	// Snapshot copies the scores into a slice indexed by node id
	Snapshot() []float64
}

// Factory creates a zeroed Vector for n nodes
type Factory func(n int) Vector

// Kind selects a rank container
type Kind string

const (
	HashTableKind Kind = "hashtable" // Chained hash table
	ArrayKind     Kind = "array"     // Flat slice
	MapKind       Kind = "map"       // Built-in map
	MatrixKind    Kind = "matrix"    // Single row of a matrix
)

var ErrUnknownKind = errors.New("unknown rank container")

func Kinds() []Kind {
	return []Kind{HashTableKind, ArrayKind, MapKind, MatrixKind}
}

func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// NewFactory returns the constructor of the selected container
func NewFactory(kind Kind) (Factory, error) {
	switch kind {
	case HashTableKind:
		return func(n int) Vector { return NewHashTable(n, 0) }, nil
	case ArrayKind:
		return func(n int) Vector { return NewArray(n) }, nil
	case MapKind:
		return func(n int) Vector { return NewMap(n) }, nil
	case MatrixKind:
		return func(n int) Vector { return NewMatrixRow(n) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Sum adds up every score in node order
func Sum(v Vector) float64 {
	total := 0.0
	v.Range(func(_ int, value float64) bool {
		total += value
		return true
	})
	return total
}

// Footprint returns the estimated size of v in bytes, or 0 if unknown
func Footprint(v Vector) int {
	if s, ok := v.(graph.Sizer); ok {
		return s.Footprint()
	}
	return 0
}
