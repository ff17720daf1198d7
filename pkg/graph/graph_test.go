package graph

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEdges = []Edge{
	{0, 3}, {0, 1}, {1, 2}, {1, 4}, {2, 0}, {3, 4}, {3, 4}, {4, 1},
}

func sorted(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind(" HashMap ")
	require.NoError(t, err)
	assert.Equal(t, HashMapKind, got)

	_, err = ParseKind("btree")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(LinkedKind, -1)
	assert.Error(t, err)
	_, err = New(Kind("tree"), 3)
	assert.ErrorIs(t, err, ErrUnknownKind)
	// n*n would overflow
	_, err = New(MatrixKind, 3037000500)
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = New(MatrixKind, MaxMatrixNodes+1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestBackendsAgreeOnNeighbors(t *testing.T) {
	reference, err := Build(HashMapKind, 6, sampleEdges)
	require.NoError(t, err)

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			g, err := Build(kind, 6, sampleEdges)
			require.NoError(t, err)
			assert.Equal(t, 6, g.NodeCount())

			for u := 0; u < 6; u++ {
				want, err := reference.Neighbors(u)
				require.NoError(t, err)
				got, err := g.Neighbors(u)
				require.NoError(t, err)
				assert.Equal(t, sorted(want), sorted(got), "node %d", u)

				degree, err := g.OutDegree(u)
				require.NoError(t, err)
				assert.Equal(t, len(got), degree, "node %d", u)
			}
		})
	}
}

func TestNeighborOrder(t *testing.T) {
	// Insertion order for list backends, row order for the matrix
	want := map[Kind][]int{
		LinkedKind:   {3, 1},
		HashMapKind:  {3, 1},
		EdgeListKind: {3, 1},
		MatrixKind:   {1, 3},
	}
	for kind, order := range want {
		g, err := Build(kind, 6, sampleEdges)
		require.NoError(t, err)
		first, err := g.Neighbors(0)
		require.NoError(t, err)
		second, err := g.Neighbors(0)
		require.NoError(t, err)
		assert.Equal(t, order, first, string(kind))
		assert.Equal(t, first, second, string(kind))
	}
}

func TestMultiEdgesCountTowardsDegree(t *testing.T) {
	for _, kind := range Kinds() {
		g, err := Build(kind, 6, sampleEdges)
		require.NoError(t, err)
		degree, err := g.OutDegree(3)
		require.NoError(t, err)
		assert.Equal(t, 2, degree, string(kind))
		neighbors, err := g.Neighbors(3)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 4}, neighbors, string(kind))
	}
}

func TestDanglingNode(t *testing.T) {
	for _, kind := range Kinds() {
		g, err := Build(kind, 6, sampleEdges)
		require.NoError(t, err)
		neighbors, err := g.Neighbors(5)
		require.NoError(t, err)
		assert.Empty(t, neighbors, string(kind))
		degree, err := g.OutDegree(5)
		require.NoError(t, err)
		assert.Zero(t, degree, string(kind))
	}
}

func TestInvalidNode(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			g, err := New(kind, 4)
			require.NoError(t, err)

			err = g.AddEdge(4, 0)
			require.ErrorIs(t, err, ErrInvalidNode)
			var invalid *InvalidNodeError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, 4, invalid.Node)
			assert.Equal(t, 4, invalid.N)

			assert.ErrorIs(t, g.AddEdge(0, -1), ErrInvalidNode)
			_, err = g.Neighbors(7)
			assert.ErrorIs(t, err, ErrInvalidNode)
			_, err = g.OutDegree(-2)
			assert.ErrorIs(t, err, ErrInvalidNode)

			// Failed insertions leave the graph untouched
			edges, err := Edges(g)
			require.NoError(t, err)
			assert.Empty(t, edges)
		})
	}
}

func TestBuildStopsOnInvalidEdge(t *testing.T) {
	_, err := Build(LinkedKind, 2, []Edge{{0, 1}, {1, 2}})
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestEdgesRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		g, err := Build(kind, 6, sampleEdges)
		require.NoError(t, err)
		edges, err := Edges(g)
		require.NoError(t, err)
		assert.ElementsMatch(t, sampleEdges, edges, string(kind))
	}
}

func TestFootprint(t *testing.T) {
	for _, kind := range Kinds() {
		small, err := Build(kind, 6, sampleEdges)
		require.NoError(t, err)
		var ring []Edge
		for i := 0; i < 200; i++ {
			ring = append(ring, Edge{From: i, To: (i + 1) % 200})
		}
		large, err := Build(kind, 200, ring)
		require.NoError(t, err)
		assert.Positive(t, Footprint(small), string(kind))
		assert.Greater(t, Footprint(large), Footprint(small), string(kind))
	}
	// The dense matrix grows quadratically
	matrix := NewMatrix(100)
	list := NewLinkedList(100)
	assert.Greater(t, matrix.Footprint(), list.Footprint())
}
