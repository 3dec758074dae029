package analysis

import (
	"testing"

	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

func TestTryFixUnknownChecker(t *testing.T) {
	registry := NewRegistry()
	if _, ok := registry.TryFix("missing-signature", ports.Payload{}); ok {
		t.Error("Expected no fix for a checker without a strategy")
	}
}

func TestFixDuplicateImportsKeepsFirstOccurrence(t *testing.T) {
	registry := NewRegistry()
	payload := ports.Payload{
		Path: "src/Bar.elm",
		Ranges: []ast.Range{
			{Start: ast.Position{Line: 7, Column: 1}, End: ast.Position{Line: 8, Column: 1}},
			{Start: ast.Position{Line: 3, Column: 1}, End: ast.Position{Line: 4, Column: 1}},
		},
		Symbols: []string{"Html"},
	}

	program, ok := registry.TryFix(DuplicateImportsKey, payload)
	if !ok {
		t.Fatal("Expected a fix program for duplicate imports")
	}
	edits := program.Edits["src/Bar.elm"]
	if len(edits) != 1 {
		t.Fatalf("Expected 1 deletion edit, got %d", len(edits))
	}
	if edits[0].Range.Start.Line != 7 {
		t.Errorf("Expected the later occurrence deleted, got line %d", edits[0].Range.Start.Line)
	}
	if edits[0].NewText != "" {
		t.Errorf("Expected a pure deletion, got %q", edits[0].NewText)
	}
}

func TestFixDuplicateImportsNeedsTwoRanges(t *testing.T) {
	registry := NewRegistry()
	payload := ports.Payload{
		Path:   "src/Bar.elm",
		Ranges: []ast.Range{{Start: ast.Position{Line: 3, Column: 1}}},
	}
	if _, ok := registry.TryFix(DuplicateImportsKey, payload); ok {
		t.Error("Expected no program for a single occurrence")
	}
}
