package analysis

import (
	"testing"

	"relint/internal/core/config"
	"relint/internal/engine/ast"
)

func importAt(module string, line int) ast.Import {
	return ast.Import{
		Module: module,
		Location: ast.Range{
			Start: ast.Position{Line: line, Column: 1},
			End:   ast.Position{Line: line + 1, Column: 1},
		},
	}
}

func TestDuplicateImportsCheck(t *testing.T) {
	file := &ast.File{
		Path:   "src/Bar.elm",
		Module: "Bar",
		Imports: []ast.Import{
			importAt("Html", 7),
			importAt("Dict", 4),
			importAt("Html", 3),
		},
	}

	payloads := DuplicateImports{}.Check(file, config.Default())
	if len(payloads) != 1 {
		t.Fatalf("Expected 1 payload covering all occurrences, got %d", len(payloads))
	}
	payload := payloads[0]
	if len(payload.Ranges) != 2 {
		t.Fatalf("Expected both occurrences in one payload, got %d ranges", len(payload.Ranges))
	}
	if payload.Ranges[0].Start.Line != 3 || payload.Ranges[1].Start.Line != 7 {
		t.Errorf("Expected sorted ranges, got %v", payload.Ranges)
	}
	if len(payload.Symbols) != 1 || payload.Symbols[0] != "Html" {
		t.Errorf("Expected the duplicated module as symbol, got %v", payload.Symbols)
	}
}

func TestDuplicateImportsCleanFile(t *testing.T) {
	file := &ast.File{
		Path:    "src/Main.elm",
		Module:  "Main",
		Imports: []ast.Import{importAt("Html", 3), importAt("Dict", 4)},
	}
	if payloads := (DuplicateImports{}).Check(file, config.Default()); len(payloads) != 0 {
		t.Errorf("Expected no payloads for distinct imports, got %v", payloads)
	}
}

func TestMissingSignatureCheck(t *testing.T) {
	file := &ast.File{
		Path:   "src/Main.elm",
		Module: "Main",
		Declarations: []ast.Declaration{
			{Name: "view", HasSignature: false, Location: ast.Range{Start: ast.Position{Line: 10, Column: 1}}},
			{Name: "update", HasSignature: true},
		},
	}

	payloads := MissingSignature{}.Check(file, config.Default())
	if len(payloads) != 1 {
		t.Fatalf("Expected 1 payload, got %d", len(payloads))
	}
	if payloads[0].Symbols[0] != "view" {
		t.Errorf("Expected view flagged, got %v", payloads[0].Symbols)
	}
}

func TestUnusedImportCheck(t *testing.T) {
	t.Run("SkipsFilesWithoutReferences", func(t *testing.T) {
		file := &ast.File{
			Path:    "src/Main.elm",
			Module:  "Main",
			Imports: []ast.Import{importAt("Dict", 3)},
		}
		if payloads := (UnusedImport{}).Check(file, config.Default()); len(payloads) != 0 {
			t.Errorf("Expected no payloads without reference data, got %v", payloads)
		}
	})

	t.Run("FlagsUnreferencedImport", func(t *testing.T) {
		file := &ast.File{
			Path:       "src/Main.elm",
			Module:     "Main",
			Imports:    []ast.Import{importAt("Dict", 3), importAt("Html", 4)},
			References: []ast.Reference{{Name: "Html.div"}},
		}
		payloads := UnusedImport{}.Check(file, config.Default())
		if len(payloads) != 1 || payloads[0].Symbols[0] != "Dict" {
			t.Errorf("Expected only Dict flagged, got %v", payloads)
		}
	})

	t.Run("AliasCountsAsUse", func(t *testing.T) {
		imp := importAt("Json.Decode", 3)
		imp.Alias = "Decode"
		file := &ast.File{
			Path:       "src/Main.elm",
			Module:     "Main",
			Imports:    []ast.Import{imp},
			References: []ast.Reference{{Name: "Decode.string"}},
		}
		if payloads := (UnusedImport{}).Check(file, config.Default()); len(payloads) != 0 {
			t.Errorf("Expected aliased use to count, got %v", payloads)
		}
	})

	t.Run("ExposedNameCountsAsUse", func(t *testing.T) {
		imp := importAt("Html.Events", 3)
		imp.Exposing = []string{"onClick"}
		file := &ast.File{
			Path:       "src/Main.elm",
			Module:     "Main",
			Imports:    []ast.Import{imp},
			References: []ast.Reference{{Name: "onClick"}},
		}
		if payloads := (UnusedImport{}).Check(file, config.Default()); len(payloads) != 0 {
			t.Errorf("Expected exposed-name use to count, got %v", payloads)
		}
	})

	t.Run("ExposingAllIsNeverFlagged", func(t *testing.T) {
		imp := importAt("Html", 3)
		imp.Exposing = []string{".."}
		file := &ast.File{
			Path:       "src/Main.elm",
			Module:     "Main",
			Imports:    []ast.Import{imp},
			References: []ast.Reference{{Name: "something"}},
		}
		if payloads := (UnusedImport{}).Check(file, config.Default()); len(payloads) != 0 {
			t.Errorf("Expected exposing (..) imports to be skipped, got %v", payloads)
		}
	})
}

func TestRunnerHonorsConfiguration(t *testing.T) {
	disabled := false
	cfg := config.Default()
	cfg.Checks = map[string]config.CheckSettings{
		"missing-signature": {Enabled: &disabled},
		"duplicate-imports": {Severity: "error"},
	}

	file := &ast.File{
		Path:   "src/Bar.elm",
		Module: "Bar",
		Imports: []ast.Import{
			importAt("Html", 3),
			importAt("Html", 4),
		},
		Declarations: []ast.Declaration{{Name: "view"}},
	}

	findings := NewRunner().RunChecks([]*ast.File{file}, nil, cfg)
	if len(findings) != 1 {
		t.Fatalf("Expected only the duplicate-imports finding, got %d: %v", len(findings), findings)
	}
	if findings[0].CheckerKey != DuplicateImportsKey {
		t.Errorf("Expected duplicate-imports, got %s", findings[0].CheckerKey)
	}
	if findings[0].Severity != "error" {
		t.Errorf("Expected configured severity error, got %s", findings[0].Severity)
	}
	if findings[0].Payload.Path != "src/Bar.elm" {
		t.Errorf("Expected payload path stamped by the runner, got %s", findings[0].Payload.Path)
	}
}

func TestRunnerDeterministicAcrossFileOrder(t *testing.T) {
	a := &ast.File{Path: "src/A.elm", Module: "A", Declarations: []ast.Declaration{{Name: "a"}}}
	b := &ast.File{Path: "src/B.elm", Module: "B", Declarations: []ast.Declaration{{Name: "b"}}}

	first := NewRunner().RunChecks([]*ast.File{b, a}, nil, config.Default())
	second := NewRunner().RunChecks([]*ast.File{a, b}, nil, config.Default())

	if len(first) != len(second) {
		t.Fatalf("Expected same finding count, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Payload.Path != second[i].Payload.Path {
			t.Errorf("Expected deterministic ordering, position %d differs", i)
		}
	}
}
