// Check execution. Each check is a plugin satisfying a fixed
// contract; the runner wires the enabled ones over a batch of parsed
// files plus the session's dependency set and configuration.
package analysis

import (
	"sort"

	"relint/internal/core/config"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

// Check inspects one parsed file and yields raw finding payloads.
// Name and Description are host-side rendering metadata only.
type Check interface {
	Key() string
	Name() string
	Description() string
	Check(file *ast.File, cfg *config.Config) []ports.Payload
}

type Runner struct {
	checks []Check
}

// NewRunner builds a runner over the given catalog. A nil catalog
// gets the built-in checks.
func NewRunner(checks ...Check) *Runner {
	if len(checks) == 0 {
		checks = DefaultChecks()
	}
	return &Runner{checks: checks}
}

// DefaultChecks is the built-in catalog.
func DefaultChecks() []Check {
	return []Check{
		DuplicateImports{},
		MissingSignature{},
		UnusedImport{},
	}
}

// RunChecks executes every enabled check over exactly the given
// files. The dependency set is available to checks that need it;
// none of the built-ins do today.
func (r *Runner) RunChecks(files []*ast.File, dependencies map[string]*ast.Module, cfg *config.Config) []ports.Finding {
	_ = dependencies

	ordered := append([]*ast.File(nil), files...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	findings := make([]ports.Finding, 0)
	for _, file := range ordered {
		if file == nil {
			continue
		}
		for _, check := range r.checks {
			if !cfg.CheckEnabled(check.Key()) {
				continue
			}
			for _, payload := range check.Check(file, cfg) {
				payload.Path = file.Path
				findings = append(findings, ports.Finding{
					CheckerKey: check.Key(),
					Severity:   cfg.CheckSeverity(check.Key()),
					Payload:    payload,
				})
			}
		}
	}
	return findings
}
