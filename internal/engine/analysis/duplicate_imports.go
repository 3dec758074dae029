package analysis

import (
	"fmt"
	"sort"

	"relint/internal/core/config"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

const DuplicateImportsKey = "duplicate-imports"

// DuplicateImports flags modules imported more than once in the same
// file. One finding covers all occurrences of a duplicated module so
// the identity stays stable while the fix removes the extras.
type DuplicateImports struct{}

func (DuplicateImports) Key() string  { return DuplicateImportsKey }
func (DuplicateImports) Name() string { return "Duplicate Imports" }
func (DuplicateImports) Description() string {
	return "Reports modules that are imported more than once in a single file."
}

func (DuplicateImports) Check(file *ast.File, _ *config.Config) []ports.Payload {
	byModule := make(map[string][]ast.Range)
	order := make([]string, 0)
	for _, imp := range file.Imports {
		if imp.Module == "" {
			continue
		}
		if _, seen := byModule[imp.Module]; !seen {
			order = append(order, imp.Module)
		}
		byModule[imp.Module] = append(byModule[imp.Module], imp.Location)
	}

	payloads := make([]ports.Payload, 0)
	for _, module := range order {
		ranges := byModule[module]
		if len(ranges) < 2 {
			continue
		}
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].Less(ranges[j]) })
		payloads = append(payloads, ports.Payload{
			Message: fmt.Sprintf("Module %s is imported more than once", module),
			Ranges:  ranges,
			Symbols: []string{module},
		})
	}
	return payloads
}
