package pipeline

import (
	"relint/internal/core/ports"
	"relint/internal/engine/analysis"
)

// DefaultCheckRunner runs the built-in check catalog.
func DefaultCheckRunner() ports.CheckRunner {
	return analysis.NewRunner()
}

// DefaultFixRegistry resolves the built-in fix strategies.
func DefaultFixRegistry() ports.FixRegistry {
	return analysis.NewRegistry()
}
