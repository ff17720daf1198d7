package generate

import "github.com/lioia/pagerank-bench/pkg/graph"

type Stats struct {
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	AvgOutDegree float64 `json:"avg_out_degree"`
	MaxOutDegree int     `json:"max_out_degree"`
	MinOutDegree int     `json:"min_out_degree"`
	Dangling     int     `json:"dangling"`
	Density      float64 `json:"density"`
}

// GraphStats computes degree statistics of g through its public interface
func GraphStats(g graph.Graph) (Stats, error) {
	n := g.NodeCount()
	stats := Stats{Nodes: n}
	for u := 0; u < n; u++ {
		degree, err := g.OutDegree(u)
		if err != nil {
			return Stats{}, err
		}
		stats.Edges += degree
		stats.MaxOutDegree = max(stats.MaxOutDegree, degree)
		if u == 0 || degree < stats.MinOutDegree {
			stats.MinOutDegree = degree
		}
		if degree == 0 {
			stats.Dangling++
		}
	}
	if n > 0 {
		stats.AvgOutDegree = float64(stats.Edges) / float64(n)
	}
	if n > 1 {
		stats.Density = float64(stats.Edges) / float64(n*(n-1))
	}
	return stats, nil
}
