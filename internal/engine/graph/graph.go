// Module dependency graph, rebuilt in full after every reanalysis
// pass. The build is a pure function of the code base; the graph
// itself is an immutable value once built.
package graph

import (
	"sort"

	"relint/internal/engine/ast"
	"relint/internal/shared/observability"
)

// Edge is one import relationship, directed importer -> imported.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Graph struct {
	nodes map[string]bool
	edges map[string]map[string]bool // from -> to
}

// Build walks every source file's imports and every dependency
// module's own import list, producing a node per distinct module name
// and an edge per import relationship.
func Build(sourceFiles map[string]*ast.File, dependencies map[string]*ast.Module) Graph {
	g := Graph{
		nodes: make(map[string]bool),
		edges: make(map[string]map[string]bool),
	}

	for _, file := range sourceFiles {
		if file == nil || file.Module == "" {
			continue
		}
		g.nodes[file.Module] = true
		for _, imp := range file.Imports {
			g.addEdge(file.Module, imp.Module)
		}
	}

	for name, module := range dependencies {
		if name == "" {
			continue
		}
		g.nodes[name] = true
		if module == nil {
			continue
		}
		for _, imported := range module.Imports {
			g.addEdge(name, imported)
		}
	}

	observability.GraphNodes.Set(float64(len(g.nodes)))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	return g
}

func (g *Graph) addEdge(from, to string) {
	if from == "" || to == "" {
		return
	}
	g.nodes[from] = true
	g.nodes[to] = true
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	g.edges[from][to] = true
}

func (g Graph) NodeCount() int {
	return len(g.nodes)
}

func (g Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

func (g Graph) HasNode(name string) bool {
	return g.nodes[name]
}

func (g Graph) HasEdge(from, to string) bool {
	return g.edges[from][to]
}

// Nodes returns the module names in sorted order.
func (g Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge sorted by (from, to).
func (g Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for from, targets := range g.edges {
		for to := range targets {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Clone returns an independent copy of the graph.
func (g Graph) Clone() Graph {
	c := Graph{
		nodes: make(map[string]bool, len(g.nodes)),
		edges: make(map[string]map[string]bool, len(g.edges)),
	}
	for name := range g.nodes {
		c.nodes[name] = true
	}
	for from, targets := range g.edges {
		c.edges[from] = make(map[string]bool, len(targets))
		for to := range targets {
			c.edges[from][to] = true
		}
	}
	return c
}

// ModuleMetrics carries simple fan metrics per module.
type ModuleMetrics struct {
	FanIn  int `json:"fanIn"`
	FanOut int `json:"fanOut"`
}

func (g Graph) ComputeModuleMetrics() map[string]ModuleMetrics {
	metrics := make(map[string]ModuleMetrics, len(g.nodes))
	for name := range g.nodes {
		metrics[name] = ModuleMetrics{}
	}
	for from, targets := range g.edges {
		m := metrics[from]
		m.FanOut = len(targets)
		metrics[from] = m
		for to := range targets {
			target := metrics[to]
			target.FanIn++
			metrics[to] = target
		}
	}
	return metrics
}
