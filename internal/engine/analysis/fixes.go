package analysis

import (
	"sort"

	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

// FixStrategy turns one diagnostic payload into a fix program, or
// reports that no automated fix applies.
type FixStrategy func(payload ports.Payload) (ports.FixProgram, bool)

// Registry maps checker keys to their fix strategies.
type Registry struct {
	strategies map[string]FixStrategy
}

// NewRegistry builds the default registry. Only duplicate-imports
// ships an automated fix today.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]FixStrategy)}
	r.Register(DuplicateImportsKey, fixDuplicateImports)
	return r
}

func (r *Registry) Register(checkerKey string, strategy FixStrategy) {
	r.strategies[checkerKey] = strategy
}

// TryFix resolves the strategy for the diagnostic kind, if any.
func (r *Registry) TryFix(checkerKey string, payload ports.Payload) (ports.FixProgram, bool) {
	strategy, ok := r.strategies[checkerKey]
	if !ok {
		return ports.FixProgram{}, false
	}
	return strategy(payload)
}

// fixDuplicateImports deletes every occurrence of the duplicated
// import except the first.
func fixDuplicateImports(payload ports.Payload) (ports.FixProgram, bool) {
	if payload.Path == "" || len(payload.Ranges) < 2 {
		return ports.FixProgram{}, false
	}

	ranges := append([]ast.Range(nil), payload.Ranges...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Less(ranges[j]) })

	edits := make([]ports.FixEdit, 0, len(ranges)-1)
	for _, r := range ranges[1:] {
		edits = append(edits, ports.FixEdit{Range: r, NewText: ""})
	}

	return ports.FixProgram{
		Edits: map[string][]ports.FixEdit{payload.Path: edits},
	}, true
}
