// Store holds the current diagnostic set, the pending fix-task queue
// and the last-built dependency graph. Operations are total: invalid
// ids are no-ops, never errors.
package state

import (
	"sort"

	"relint/internal/core/ports"
	"relint/internal/engine/ast"
	"relint/internal/engine/graph"
	"relint/internal/shared/observability"
)

type Store struct {
	diagnostics map[string]ports.Diagnostic
	fixQueue    []string
	queued      map[string]bool
	graph       graph.Graph
}

func NewStore() *Store {
	return &Store{
		diagnostics: make(map[string]ports.Diagnostic),
		queued:      make(map[string]bool),
	}
}

// ReplaceForFiles removes every diagnostic attributed to one of the
// given paths, then inserts the newly computed ones. Diagnostics
// attributed to other paths are untouched; this is how incremental
// reanalysis avoids losing unrelated findings.
func (s *Store) ReplaceForFiles(paths []string, diagnostics []ports.Diagnostic) {
	inBatch := make(map[string]bool, len(paths))
	for _, path := range paths {
		inBatch[path] = true
	}

	for id, diagnostic := range s.diagnostics {
		if inBatch[diagnostic.Payload.Path] {
			delete(s.diagnostics, id)
		}
	}

	for _, diagnostic := range diagnostics {
		if _, exists := s.diagnostics[diagnostic.ID]; exists {
			continue
		}
		s.diagnostics[diagnostic.ID] = diagnostic
	}

	observability.DiagnosticsCurrent.Set(float64(len(s.diagnostics)))
}

// Diagnostic looks up one diagnostic by identity.
func (s *Store) Diagnostic(id string) (ports.Diagnostic, bool) {
	diagnostic, ok := s.diagnostics[id]
	return diagnostic, ok
}

// Diagnostics returns the current set in a deterministic order:
// path, first range, checker key.
func (s *Store) Diagnostics() []ports.Diagnostic {
	out := make([]ports.Diagnostic, 0, len(s.diagnostics))
	for _, diagnostic := range s.diagnostics {
		out = append(out, diagnostic)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i], out[j]
		if di.Payload.Path != dj.Payload.Path {
			return di.Payload.Path < dj.Payload.Path
		}
		ri, rj := firstRange(di), firstRange(dj)
		if ri != rj {
			return ri.Less(rj)
		}
		if di.CheckerKey != dj.CheckerKey {
			return di.CheckerKey < dj.CheckerKey
		}
		return di.ID < dj.ID
	})
	return out
}

func (s *Store) Len() int {
	return len(s.diagnostics)
}

// EnqueueFix appends an identity to the fix queue unless it is
// already queued.
func (s *Store) EnqueueFix(id string) {
	if id == "" || s.queued[id] {
		return
	}
	s.queued[id] = true
	s.fixQueue = append(s.fixQueue, id)
	observability.FixQueueDepth.Set(float64(len(s.fixQueue)))
}

// DequeueFix removes and returns the head of the queue, FIFO. The
// entry is gone regardless of what happens to the fix attempt.
func (s *Store) DequeueFix() (string, bool) {
	if len(s.fixQueue) == 0 {
		return "", false
	}
	id := s.fixQueue[0]
	s.fixQueue = s.fixQueue[1:]
	delete(s.queued, id)
	observability.FixQueueDepth.Set(float64(len(s.fixQueue)))
	return id, true
}

// QueuedFixes returns the queue contents in order.
func (s *Store) QueuedFixes() []string {
	return append([]string(nil), s.fixQueue...)
}

// SetGraph replaces the graph snapshot wholesale.
func (s *Store) SetGraph(g graph.Graph) {
	s.graph = g.Clone()
}

func (s *Store) Graph() graph.Graph {
	return s.graph.Clone()
}

func firstRange(d ports.Diagnostic) ast.Range {
	if len(d.Payload.Ranges) == 0 {
		return ast.Range{}
	}
	return d.Payload.Ranges[0]
}
