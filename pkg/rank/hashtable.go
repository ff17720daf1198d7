package rank

import (
	"unsafe"

	"github.com/lioia/pagerank-bench/pkg/graph"
)

type entry struct {
	key   int
	value float64
}

// HashTable stores the scores in a fixed number of buckets, each one an owned
// chain of (key, value) entries.
//
// The bucket count is decided at construction and never changes: the table
// does not grow or rehash, so its footprint only depends on n and buckets.
type HashTable struct {
	n       int
	buckets [][]entry
}

// NewHashTable creates a table for n nodes with the given number of buckets.
// buckets <= 0 uses one bucket per node.
func NewHashTable(n, buckets int) *HashTable {
	if buckets <= 0 {
		buckets = n
	}
	buckets = max(buckets, 1)
	t := &HashTable{n: n, buckets: make([][]entry, buckets)}
	// Every node has an entry from the start
	for key := 0; key < n; key++ {
		b := t.bucket(key)
		t.buckets[b] = append(t.buckets[b], entry{key: key})
	}
	return t
}

// Fibonacci hashing spreads consecutive ids across the buckets
func (t *HashTable) bucket(key int) int {
	h := uint64(key) * 0x9E3779B97F4A7C15
	return int((h >> 32) % uint64(len(t.buckets)))
}

func (t *HashTable) lookup(node int) (*entry, error) {
	if err := graph.CheckNode(node, t.n); err != nil {
		return nil, err
	}
	chain := t.buckets[t.bucket(node)]
	for i := range chain {
		if chain[i].key == node {
			return &chain[i], nil
		}
	}
	// Unreachable as long as every node is inserted on creation
	return nil, &graph.InvalidNodeError{Node: node, N: t.n}
}

func (t *HashTable) Len() int { return t.n }

func (t *HashTable) Get(node int) (float64, error) {
	e, err := t.lookup(node)
	if err != nil {
		return 0, err
	}
	return e.value, nil
}

func (t *HashTable) Set(node int, value float64) error {
	e, err := t.lookup(node)
	if err != nil {
		return err
	}
	e.value = value
	return nil
}

func (t *HashTable) Add(node int, delta float64) error {
	e, err := t.lookup(node)
	if err != nil {
		return err
	}
	e.value += delta
	return nil
}

func (t *HashTable) Reset(value float64) {
	for _, chain := range t.buckets {
		for i := range chain {
			chain[i].value = value
		}
	}
}

func (t *HashTable) Range(fn func(node int, value float64) bool) {
	for node := 0; node < t.n; node++ {
		e, _ := t.lookup(node)
		if !fn(node, e.value) {
			return
		}
	}
}

func (t *HashTable) Snapshot() []float64 {
	out := make([]float64, t.n)
	for _, chain := range t.buckets {
		for _, e := range chain {
			out[e.key] = e.value
		}
	}
	return out
}

func (t *HashTable) bucketCount() int { return len(t.buckets) }

// Length of the most crowded bucket
func (t *HashTable) longestChain() int {
	longest := 0
	for _, chain := range t.buckets {
		longest = max(longest, len(chain))
	}
	return longest
}

func (t *HashTable) Footprint() int {
	size := int(unsafe.Sizeof(*t)) + len(t.buckets)*int(unsafe.Sizeof([]entry{}))
	for _, chain := range t.buckets {
		size += cap(chain) * int(unsafe.Sizeof(entry{}))
	}
	return size
}
