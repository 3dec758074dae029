package analysis

import (
	"fmt"
	"strings"

	"relint/internal/core/config"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

const UnusedImportKey = "unused-import"

// UnusedImport flags imports whose module is never referenced in the
// file body. Files parsed without reference information are skipped;
// flagging without usage data would be guessing.
type UnusedImport struct{}

func (UnusedImport) Key() string  { return UnusedImportKey }
func (UnusedImport) Name() string { return "Unused Import" }
func (UnusedImport) Description() string {
	return "Reports imports that are never referenced in the file."
}

func (UnusedImport) Check(file *ast.File, _ *config.Config) []ports.Payload {
	if len(file.References) == 0 {
		return nil
	}

	refHits := make(map[string]int, len(file.References))
	for _, ref := range file.References {
		refHits[ref.Name]++
		// Qualified uses also count for the qualifier itself.
		if dot := strings.IndexByte(ref.Name, '.'); dot > 0 {
			refHits[ref.Name[:dot]]++
		}
	}

	payloads := make([]ports.Payload, 0)
	for _, imp := range file.Imports {
		if imp.Module == "" {
			continue
		}
		// Exposing (..) pulls unqualified names into scope; usage
		// cannot be verified safely.
		if exposesAll(imp) {
			continue
		}
		if importUsed(imp, refHits) {
			continue
		}
		payloads = append(payloads, ports.Payload{
			Message: fmt.Sprintf("Imported module %s is never used", imp.Module),
			Ranges:  []ast.Range{imp.Location},
			Symbols: []string{imp.Module},
		})
	}
	return payloads
}

func exposesAll(imp ast.Import) bool {
	for _, name := range imp.Exposing {
		if name == ".." {
			return true
		}
	}
	return false
}

func importUsed(imp ast.Import, refHits map[string]int) bool {
	qualifier := imp.Module
	if imp.Alias != "" {
		qualifier = imp.Alias
	}
	if refHits[qualifier] > 0 {
		return true
	}
	for _, name := range imp.Exposing {
		if refHits[name] > 0 {
			return true
		}
	}
	return false
}
