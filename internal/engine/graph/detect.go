package graph

import "sort"

// DetectCycles reports every import cycle as the ordered list of
// module names along the cycle. Traversal order is fixed so the
// result is deterministic for a given graph.
func (g Graph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	for _, name := range g.Nodes() {
		if !visited[name] {
			g.findCycles(name, visited, onStack, []string{}, &cycles)
		}
	}

	return cycles
}

func (g Graph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	targets := make([]string, 0, len(g.edges[curr]))
	for next := range g.edges[curr] {
		targets = append(targets, next)
	}
	sort.Strings(targets)

	for _, next := range targets {
		if onStack[next] {
			cycleStart := -1
			for i, mod := range path {
				if mod == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}
