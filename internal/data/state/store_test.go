package state

import (
	"testing"

	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

func rangeAt(line int) ast.Range {
	return ast.Range{
		Start: ast.Position{Line: line, Column: 1},
		End:   ast.Position{Line: line + 1, Column: 1},
	}
}

func finding(checker, path, message string, lines ...int) ports.Finding {
	ranges := make([]ast.Range, 0, len(lines))
	for _, line := range lines {
		ranges = append(ranges, rangeAt(line))
	}
	return ports.Finding{
		CheckerKey: checker,
		Severity:   "warning",
		Payload: ports.Payload{
			Path:    path,
			Message: message,
			Ranges:  ranges,
		},
	}
}

func TestIdentityStable(t *testing.T) {
	payload := ports.Payload{
		Path:    "src/Main.elm",
		Message: "Module Html is imported more than once",
		Ranges:  []ast.Range{rangeAt(3), rangeAt(7)},
		Symbols: []string{"Html"},
	}

	first := Identity("duplicate-imports", payload)
	second := Identity("duplicate-imports", payload)
	if first != second {
		t.Errorf("Expected identical identities, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected a sha256 hex identity, got %q", first)
	}
}

func TestIdentityDistinguishesFindings(t *testing.T) {
	base := ports.Payload{
		Path:    "src/Main.elm",
		Message: "Top-level declaration view has no type signature",
		Ranges:  []ast.Range{rangeAt(10)},
		Symbols: []string{"view"},
	}

	otherPath := base
	otherPath.Path = "src/View.elm"
	otherChecker := Identity("unused-import", base)

	if Identity("missing-signature", base) == Identity("missing-signature", otherPath) {
		t.Error("Expected different identities for different paths")
	}
	if Identity("missing-signature", base) == otherChecker {
		t.Error("Expected different identities for different checkers")
	}
}

func TestToDiagnosticsDropsCollisions(t *testing.T) {
	findings := []ports.Finding{
		finding("duplicate-imports", "src/Main.elm", "Module Html is imported more than once", 3, 7),
		finding("duplicate-imports", "src/Main.elm", "Module Html is imported more than once", 3, 7),
	}

	diagnostics := ToDiagnostics(findings)
	if len(diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic after collision, got %d", len(diagnostics))
	}
	if diagnostics[0].ID == "" {
		t.Error("Expected an assigned identity")
	}
}

func TestReplaceForFilesIdempotent(t *testing.T) {
	store := NewStore()
	diagnostics := ToDiagnostics([]ports.Finding{
		finding("missing-signature", "src/Main.elm", "Top-level declaration view has no type signature", 10),
	})

	store.ReplaceForFiles([]string{"src/Main.elm"}, diagnostics)
	store.ReplaceForFiles([]string{"src/Main.elm"}, diagnostics)

	if store.Len() != 1 {
		t.Errorf("Expected 1 diagnostic after repeated replace, got %d", store.Len())
	}
}

func TestReplaceForFilesLeavesOtherPathsAlone(t *testing.T) {
	store := NewStore()
	mainDiag := ToDiagnostics([]ports.Finding{
		finding("missing-signature", "src/Main.elm", "Top-level declaration view has no type signature", 10),
	})
	barDiag := ToDiagnostics([]ports.Finding{
		finding("unused-import", "src/Bar.elm", "Imported module Dict is never used", 4),
	})
	store.ReplaceForFiles([]string{"src/Main.elm"}, mainDiag)
	store.ReplaceForFiles([]string{"src/Bar.elm"}, barDiag)

	// A reanalysis of Main.elm that resolves its finding must not
	// disturb Bar.elm's.
	store.ReplaceForFiles([]string{"src/Main.elm"}, nil)

	if store.Len() != 1 {
		t.Fatalf("Expected 1 remaining diagnostic, got %d", store.Len())
	}
	if _, ok := store.Diagnostic(barDiag[0].ID); !ok {
		t.Error("Expected the unrelated diagnostic to survive")
	}
}

func TestDiagnosticsOrdering(t *testing.T) {
	store := NewStore()
	diagnostics := ToDiagnostics([]ports.Finding{
		finding("unused-import", "src/Zoo.elm", "Imported module Dict is never used", 4),
		finding("missing-signature", "src/App.elm", "Top-level declaration update has no type signature", 20),
		finding("missing-signature", "src/App.elm", "Top-level declaration view has no type signature", 5),
	})
	store.ReplaceForFiles([]string{"src/App.elm", "src/Zoo.elm"}, diagnostics)

	ordered := store.Diagnostics()
	if len(ordered) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d", len(ordered))
	}
	if ordered[0].Payload.Path != "src/App.elm" || ordered[2].Payload.Path != "src/Zoo.elm" {
		t.Errorf("Expected path ordering, got %s then %s", ordered[0].Payload.Path, ordered[2].Payload.Path)
	}
	if ordered[0].Payload.Ranges[0].Start.Line != 5 {
		t.Errorf("Expected range ordering within a path, got line %d first", ordered[0].Payload.Ranges[0].Start.Line)
	}
}

func TestFixQueueFIFOWithDedup(t *testing.T) {
	store := NewStore()
	store.EnqueueFix("a")
	store.EnqueueFix("b")
	store.EnqueueFix("a")

	if got := store.QueuedFixes(); len(got) != 2 {
		t.Fatalf("Expected 2 queued fixes, got %v", got)
	}

	id, ok := store.DequeueFix()
	if !ok || id != "a" {
		t.Errorf("Expected a first, got %q", id)
	}
	id, ok = store.DequeueFix()
	if !ok || id != "b" {
		t.Errorf("Expected b second, got %q", id)
	}
	if _, ok := store.DequeueFix(); ok {
		t.Error("Expected empty queue after draining")
	}

	// Once dequeued an identity may be queued again.
	store.EnqueueFix("a")
	if got := store.QueuedFixes(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Expected a requeued, got %v", got)
	}
}
