// Package job describes a single ranking request as it travels over the
// HTTP API, gRPC and the work queue.
package job

import (
	"errors"
	"fmt"

	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/rank"
)

// Size limits of a single request. The dense backend stores n*n cells, so it
// gets its own bound.
const (
	MaxNodes       = 1 << 20
	MaxMatrixNodes = 1 << 13
	MaxEdges       = 1 << 24
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrTooLarge       = fmt.Errorf("%w: graph too large", ErrInvalidRequest)
)

// Request ranks the graph made of Nodes nodes and Edges. Empty or zero
// parameters take the engine defaults (linked backend, array container).
type Request struct {
	ID            string   `json:"id,omitempty"`
	Nodes         int      `json:"nodes"`
	Edges         [][2]int `json:"edges"`
	Backend       string   `json:"backend,omitempty"`
	Container     string   `json:"container,omitempty"`
	Damping       *float64 `json:"damping,omitempty"` // 0 is a valid damping
	Tolerance     float64  `json:"tolerance,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`
}

type Response struct {
	ID         string    `json:"id,omitempty"`
	Ranks      []float64 `json:"ranks"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	Delta      float64   `json:"delta"`
	Error      string    `json:"error,omitempty"`
}

func (r Request) Config() pagerank.Config {
	cfg := pagerank.DefaultConfig()
	if r.Damping != nil {
		cfg.Damping = *r.Damping
	}
	if r.Tolerance != 0 {
		cfg.Tolerance = r.Tolerance
	}
	if r.MaxIterations != 0 {
		cfg.MaxIterations = r.MaxIterations
	}
	return cfg
}

func (r Request) Kinds() (graph.Kind, rank.Kind, error) {
	backend, container := graph.LinkedKind, rank.ArrayKind
	var err error
	if r.Backend != "" {
		if backend, err = graph.ParseKind(r.Backend); err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	if r.Container != "" {
		if container, err = rank.ParseKind(r.Container); err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	return backend, container, nil
}

func (r Request) Graph(kind graph.Kind) (graph.Graph, error) {
	if r.Nodes < 0 {
		return nil, fmt.Errorf("%w: negative node count %d", ErrInvalidRequest, r.Nodes)
	}
	if err := r.checkSize(kind); err != nil {
		return nil, err
	}
	edges := make([]graph.Edge, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = graph.Edge{From: e[0], To: e[1]}
	}
	return graph.Build(kind, r.Nodes, edges)
}

func (r Request) checkSize(kind graph.Kind) error {
	limit := MaxNodes
	if kind == graph.MatrixKind {
		limit = MaxMatrixNodes
	}
	switch {
	case r.Nodes > limit:
		return fmt.Errorf("%w: %d nodes, the %s backend accepts at most %d", ErrTooLarge, r.Nodes, kind, limit)
	case len(r.Edges) > MaxEdges:
		return fmt.Errorf("%w: %d edges, at most %d", ErrTooLarge, len(r.Edges), MaxEdges)
	}
	return nil
}

// Execute builds the requested graph and ranks it
func Execute(r Request, opts ...pagerank.Option) (Response, error) {
	backend, container, err := r.Kinds()
	if err != nil {
		return Response{}, err
	}
	factory, err := rank.NewFactory(container)
	if err != nil {
		return Response{}, err
	}
	engine, err := pagerank.New(r.Config(), factory, opts...)
	if err != nil {
		return Response{}, err
	}
	g, err := r.Graph(backend)
	if err != nil {
		return Response{}, err
	}
	result, err := engine.Run(g)
	if err != nil {
		return Response{}, err
	}
	return Response{
		ID:         r.ID,
		Ranks:      result.Ranks,
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Delta:      result.Delta,
	}, nil
}

// IsClientError reports whether err was caused by the content of the request
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, pagerank.ErrConfiguration) ||
		errors.Is(err, pagerank.ErrEmptyGraph) ||
		errors.Is(err, graph.ErrInvalidNode) ||
		errors.Is(err, graph.ErrTooLarge)
}
