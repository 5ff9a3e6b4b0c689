// # internal/graph/graph.go
package graph

import (
	"sort"
	"sync"
)

// Graph is a directed dependency graph over resolved file paths. Both
// adjacency directions are kept mutually consistent: after AddDependency(a, b),
// b is in imports[a] exactly when a is in importedBy[b]. Mutation is
// serialized behind the lock; reads return copies.
type Graph struct {
	mu sync.RWMutex

	imports    map[string]map[string]bool // from -> to
	importedBy map[string]map[string]bool // to -> from
	allFiles   map[string]bool
}

// Stats summarises graph size for reporting and snapshots.
type Stats struct {
	Nodes int
	Edges int
}

// FanMetrics carries per-file fan-in/fan-out counts.
type FanMetrics struct {
	FanIn  int
	FanOut int
}

func NewGraph() *Graph {
	return &Graph{
		imports:    make(map[string]map[string]bool),
		importedBy: make(map[string]map[string]bool),
		allFiles:   make(map[string]bool),
	}
}

// AddDependency records the edge from -> to. It is idempotent and updates
// both adjacency directions and the node set atomically.
func (g *Graph) AddDependency(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.imports[from] == nil {
		g.imports[from] = make(map[string]bool)
	}
	g.imports[from][to] = true

	if g.importedBy[to] == nil {
		g.importedBy[to] = make(map[string]bool)
	}
	g.importedBy[to][from] = true

	g.allFiles[from] = true
	g.allFiles[to] = true
}

// ImportCount returns the fan-in of file: the number of distinct files
// importing it. This is the blast-radius metric.
func (g *Graph) ImportCount(file string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.importedBy[file])
}

// Files returns every node ever referenced as source or target, sorted.
func (g *Graph) Files() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	files := make([]string, 0, len(g.allFiles))
	for f := range g.allFiles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Imports returns a copy of the outgoing adjacency set for file, sorted.
func (g *Graph) Imports(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.imports[file])
}

// ImportedBy returns a copy of the incoming adjacency set for file, sorted.
func (g *Graph) ImportedBy(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.importedBy[file])
}

// Edges returns the full imports mapping as sorted slices, suitable for
// serialization. Rebuilding a graph from this map via AddDependency yields an
// identical imports relation.
func (g *Graph) Edges() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make(map[string][]string, len(g.imports))
	for from, targets := range g.imports {
		if len(targets) == 0 {
			continue
		}
		edges[from] = sortedKeys(targets)
	}
	return edges
}

// FromEdges reconstructs a graph from a serialized edge map.
func FromEdges(edges map[string][]string) *Graph {
	g := NewGraph()
	for from, targets := range edges {
		for _, to := range targets {
			g.AddDependency(from, to)
		}
	}
	return g
}

// Stats returns node and edge counts.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := 0
	for _, targets := range g.imports {
		edges += len(targets)
	}
	return Stats{Nodes: len(g.allFiles), Edges: edges}
}

// ComputeFanMetrics returns per-file fan-in/fan-out for every node.
func (g *Graph) ComputeFanMetrics() map[string]FanMetrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	metrics := make(map[string]FanMetrics, len(g.allFiles))
	for f := range g.allFiles {
		metrics[f] = FanMetrics{
			FanIn:  len(g.importedBy[f]),
			FanOut: len(g.imports[f]),
		}
	}
	return metrics
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
