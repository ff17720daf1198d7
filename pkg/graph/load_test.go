package graph

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapSample = `# Directed graph (each unordered pair of nodes is saved once)
# Nodes: 6 Edges: 4
# FromNodeId	ToNodeId
0	1
1	2
// a comment
2,0
3 1
`

func TestParse(t *testing.T) {
	n, edges, err := Parse([]byte(snapSample))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []Edge{{0, 1}, {1, 2}, {2, 0}, {3, 1}}, edges)
}

func TestParseWithoutHeader(t *testing.T) {
	n, edges, err := Parse([]byte("0 4\r\n4 2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, edges, 2)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"0 x", "a 1", "7", "-1 2"} {
		_, _, err := Parse([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestFormatParse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Format(&buf, 8, sampleEdges))
	n, edges, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, sampleEdges, edges)
}

func TestLoadResourceLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	require.NoError(t, os.WriteFile(path, []byte(snapSample), 0o600))

	n, edges, err := LoadResource(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Len(t, edges, 4)

	_, _, err = LoadResource(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadResourceNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph.txt" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, snapSample)
	}))
	defer srv.Close()

	n, edges, err := LoadResource(context.Background(), srv.URL+"/graph.txt")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Len(t, edges, 4)

	_, _, err = LoadResource(context.Background(), srv.URL+"/other.txt")
	assert.Error(t, err)
}
