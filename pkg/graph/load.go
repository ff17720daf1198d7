package graph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResource reads an edge-list file from the local filesystem or, when
// resource starts with http, from the network, and parses it with Parse
func LoadResource(ctx context.Context, resource string) (n int, edges []Edge, err error) {
	var bytes []byte
	// Check if it's a network resource or a local one
	if strings.HasPrefix(resource, "http") {
		bytes, err = fetch(ctx, resource)
		if err != nil {
			return 0, nil, fmt.Errorf("could not load network file at %s: %w", resource, err)
		}
	} else {
		bytes, err = os.ReadFile(resource)
		if err != nil {
			return 0, nil, fmt.Errorf("could not read graph at %s: %w", resource, err)
		}
	}
	n, edges, err = Parse(bytes)
	if err != nil {
		return 0, nil, fmt.Errorf("could not load graph from %s: %w", resource, err)
	}
	return n, edges, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Parse reads an edge list: one "FromNode ToNode" pair per line, separated by
// spaces, tabs or a comma. Lines starting with # or // are comments; a
// "# Nodes: N" comment declares the node count. Otherwise the node count is
// the highest id seen plus one.
func Parse(contents []byte) (int, []Edge, error) {
	declared := 0
	highest := -1
	var edges []Edge
	// Split file contents in lines (based on newline delimiter)
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if nodes, ok := declaredNodes(line); ok {
			declared = nodes
			continue
		}
		from, to, skip, err := convertLine(line)
		// There was an error loading the line
		if err != nil {
			return 0, nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		// Comment line -> no new edge to add
		if skip {
			continue
		}
		highest = max(highest, from, to)
		edges = append(edges, Edge{From: from, To: to})
	}
	n := max(declared, highest+1)
	return n, edges, nil
}

// SNAP datasets carry a "# Nodes: 875713 Edges: 5105039" header
func declaredNodes(line string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#")
	if !ok {
		return 0, false
	}
	fields := strings.Fields(rest)
	for i := 0; i+1 < len(fields); i++ {
		if strings.EqualFold(fields[i], "Nodes:") {
			nodes, err := strconv.Atoi(fields[i+1])
			if err != nil || nodes < 0 {
				return 0, false
			}
			return nodes, true
		}
	}
	return 0, false
}

func convertLine(line string) (int, int, bool, error) {
	line = strings.TrimSpace(line)
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || line == "" {
		return 0, 0, true, nil
	}
	// Split line in FromNode and ToNode
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(tokens) < 2 {
		return 0, 0, false, fmt.Errorf("expected two node ids, got %q", line)
	}
	from, err := strconv.Atoi(tokens[0])
	if err != nil || from < 0 {
		return 0, 0, false, fmt.Errorf("could not convert FromNode %s", tokens[0])
	}
	to, err := strconv.Atoi(tokens[1])
	if err != nil || to < 0 {
		return 0, 0, false, fmt.Errorf("could not convert ToNode %s", tokens[1])
	}
	return from, to, false, nil
}

// Format writes edges back in the format accepted by Parse
func Format(w io.Writer, n int, edges []Edge) error {
	if _, err := fmt.Fprintf(w, "# Nodes: %d Edges: %d\n", n, len(edges)); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "%d\t%d\n", e.From, e.To); err != nil {
			return err
		}
	}
	return nil
}
