package analysis

import (
	"fmt"

	"relint/internal/core/config"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

const MissingSignatureKey = "missing-signature"

// MissingSignature flags top-level declarations without a type
// annotation. No automated fix: inventing a correct signature needs
// type information the engine does not have.
type MissingSignature struct{}

func (MissingSignature) Key() string  { return MissingSignatureKey }
func (MissingSignature) Name() string { return "Missing Type Signature" }
func (MissingSignature) Description() string {
	return "Reports top-level declarations that lack a type annotation."
}

func (MissingSignature) Check(file *ast.File, _ *config.Config) []ports.Payload {
	payloads := make([]ports.Payload, 0)
	for _, decl := range file.Declarations {
		if decl.HasSignature || decl.Name == "" {
			continue
		}
		payloads = append(payloads, ports.Payload{
			Message: fmt.Sprintf("Top-level declaration %s has no type signature", decl.Name),
			Ranges:  []ast.Range{decl.Location},
			Symbols: []string{decl.Name},
		})
	}
	return payloads
}
