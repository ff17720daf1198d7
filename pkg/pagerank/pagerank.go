// Package pagerank implements the iterative PageRank computation over any
// graph backend and any rank container.
package pagerank

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/lioia/pagerank-bench/pkg/graph"
	"github.com/lioia/pagerank-bench/pkg/rank"
)

// State of a computation
type State int

const (
	Running    State = iota // Still iterating
	Converged               // Last delta fell below the tolerance
	Terminated              // Iteration cap reached without converging
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Terminated:
		return "terminated"
	}
	return "undefined"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, state := range []State{Running, Converged, Terminated} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Iteration is passed to observers after every sweep (Number 0 is the
// initial uniform vector)
type Iteration struct {
	Number int
	Delta  float64
	Ranks  []float64
}

type Result struct {
	Ranks      []float64 `json:"ranks"` // Final rank of every node, indexed by node id
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	State      State     `json:"state"`
	Delta      float64   `json:"delta"` // Max absolute change of the last iteration
}

type NodeRank struct {
	Node int     `json:"node"`
	Rank float64 `json:"rank"`
}

// Top returns the k highest ranked nodes; ties are broken by node id
func (r Result) Top(k int) []NodeRank {
	all := make([]NodeRank, len(r.Ranks))
	for i, v := range r.Ranks {
		all[i] = NodeRank{Node: i, Rank: v}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Rank > all[j].Rank
	})
	if k < 0 || k > len(all) {
		k = len(all)
	}
	return all[:k]
}

func (r Result) Sum() float64 {
	total := 0.0
	for _, v := range r.Ranks {
		total += v
	}
	return total
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers fn to be called after every completed iteration
func WithObserver(fn func(Iteration)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// Engine runs PageRank with a fixed configuration and rank container.
// An Engine holds no per-run state and can be reused.
type Engine struct {
	cfg      Config
	factory  rank.Factory
	logger   *slog.Logger
	observer func(Iteration)
}

// New validates cfg and returns an engine storing ranks in the containers
// built by factory
func New(cfg Config, factory rank.Factory, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: missing rank container factory", ErrConfiguration)
	}
	e := &Engine{
		cfg:     cfg,
		factory: factory,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Run computes PageRank on g until the max per-node change drops below the
// tolerance or the iteration cap is reached. g is only read.
//
// R_(i + 1) (u) = (1 - d)/N + d * D_i/N + d * sum_(v in B_u) (R_i(v) / N_v)
// where D_i is the rank held by dangling nodes at iteration i.
func (e *Engine) Run(g graph.Graph) (Result, error) {
	n := g.NodeCount()
	if n == 0 {
		return Result{}, ErrEmptyGraph
	}
	d := e.cfg.Damping
	size := float64(n)

	ranks := e.factory(n)
	ranks.Reset(1.0 / size)
	e.observe(0, 0, ranks)

	state := Running
	iteration := 0
	delta := 0.0
	for state == Running {
		next, err := e.iterate(g, ranks, d, size)
		if err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", iteration+1, err)
		}
		delta, err = maxDiff(next, ranks)
		if err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", iteration+1, err)
		}
		// Double buffering: the new vector replaces the old one only now
		ranks = next
		iteration++
		e.observe(iteration, delta, ranks)
		e.logger.Debug("iteration completed", "iteration", iteration, "delta", delta)

		if delta < e.cfg.Tolerance {
			state = Converged
		} else if iteration >= e.cfg.MaxIterations {
			state = Terminated
		}
	}

	result := Result{
		Ranks:      ranks.Snapshot(),
		Iterations: iteration,
		Converged:  state == Converged,
		State:      state,
		Delta:      delta,
	}
	e.logger.Info("pagerank finished",
		"nodes", n,
		"iterations", iteration,
		"state", state.String(),
		"delta", delta,
	)
	return result, nil
}

// iterate builds the rank vector of the next iteration from ranks
func (e *Engine) iterate(g graph.Graph, ranks rank.Vector, d, size float64) (rank.Vector, error) {
	n := g.NodeCount()
	// Teleportation floor
	next := e.factory(n)
	next.Reset((1 - d) / size)

	// Rank of dangling nodes is spread over every node
	dangling := 0.0
	for u := 0; u < n; u++ {
		degree, err := g.OutDegree(u)
		if err != nil {
			return nil, err
		}
		if degree == 0 {
			r, err := ranks.Get(u)
			if err != nil {
				return nil, err
			}
			dangling += r
		}
	}
	if dangling > 0 {
		share := d * dangling / size
		for u := 0; u < n; u++ {
			if err := next.Add(u, share); err != nil {
				return nil, err
			}
		}
	}

	// Every other node splits its rank among its out-neighbors
	for u := 0; u < n; u++ {
		neighbors, err := g.Neighbors(u)
		if err != nil {
			return nil, err
		}
		if len(neighbors) == 0 {
			continue
		}
		r, err := ranks.Get(u)
		if err != nil {
			return nil, err
		}
		contribution := d * r / float64(len(neighbors))
		for _, v := range neighbors {
			if err := next.Add(v, contribution); err != nil {
				return nil, err
			}
		}
	}
	return next, nil
}

// maxDiff returns max |a[u] - b[u]| over every node
func maxDiff(a, b rank.Vector) (float64, error) {
	diff := 0.0
	var err error
	a.Range(func(node int, value float64) bool {
		var other float64
		other, err = b.Get(node)
		if err != nil {
			return false
		}
		diff = math.Max(diff, math.Abs(value-other))
		return true
	})
	return diff, err
}

func (e *Engine) observe(number int, delta float64, ranks rank.Vector) {
	if e.observer == nil {
		return
	}
	e.observer(Iteration{Number: number, Delta: delta, Ranks: ranks.Snapshot()})
}

// Rank is a shortcut building an engine with the selected container and
// running it once on g
func Rank(g graph.Graph, kind rank.Kind, cfg Config, opts ...Option) (Result, error) {
	factory, err := rank.NewFactory(kind)
	if err != nil {
		return Result{}, err
	}
	engine, err := New(cfg, factory, opts...)
	if err != nil {
		return Result{}, err
	}
	return engine.Run(g)
}
