package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/lioia/pagerank-bench/pkg/graph"
)

// Format of a rendered graph
type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
)

var ErrUnknownFormat = errors.New("unknown render format")

func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case DOT, SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) graphviz() graphviz.Format {
	switch f {
	case SVG:
		return graphviz.SVG
	case PNG:
		return graphviz.PNG
	}
	return graphviz.XDOT
}

const (
	minNodeWidth = 0.4
	maxNodeWidth = 1.6
)

// Render draws g with every node sized by its rank. ranks may be nil to draw
// the bare structure; otherwise it must have one entry per node.
func Render(w io.Writer, g graph.Graph, ranks []float64, format Format) error {
	n := g.NodeCount()
	if ranks != nil && len(ranks) != n {
		return fmt.Errorf("%d ranks for %d nodes", len(ranks), n)
	}
	top := 0.0
	for _, r := range ranks {
		top = max(top, r)
	}

	gv := graphviz.New()
	defer gv.Close()
	drawing, err := gv.Graph()
	if err != nil {
		return err
	}
	defer drawing.Close()

	nodes := make([]*cgraph.Node, n)
	for i := range nodes {
		node, err := drawing.CreateNode(strconv.Itoa(i))
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		node.SetShape(cgraph.CircleShape)
		if ranks != nil {
			width := minNodeWidth
			if top > 0 {
				width += (maxNodeWidth - minNodeWidth) * ranks[i] / top
			}
			node.SetLabel(fmt.Sprintf("%d\n%.4f", i, ranks[i]))
			node.SetWidth(width)
			node.SetStyle(cgraph.FilledNodeStyle)
			node.SetFillColor(fillColor(ranks[i], top))
		}
		nodes[i] = node
	}

	edges, err := graph.Edges(g)
	if err != nil {
		return err
	}
	for i, e := range edges {
		if _, err := drawing.CreateEdge(fmt.Sprintf("e%d", i), nodes[e.From], nodes[e.To]); err != nil {
			return fmt.Errorf("edge %d -> %d: %w", e.From, e.To, err)
		}
	}

	return gv.Render(drawing, format.graphviz(), w)
}

// Lighter blue for lower ranks
func fillColor(r, top float64) string {
	shade := 0.0
	if top > 0 {
		shade = r / top
	}
	level := 230 - int(shade*130)
	return fmt.Sprintf("#%02x%02xff", level, level)
}
