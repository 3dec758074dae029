package state

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"relint/internal/core/ports"
)

// Identity computes the stable fingerprint for a finding: a hash of
// the checker key plus the payload's structural fields, canonicalized
// so that re-running the same check on unchanged code reproduces the
// same value and a genuinely different finding never collides with it.
func Identity(checkerKey string, payload ports.Payload) string {
	parts := []string{
		"checker:" + checkerKey,
		"path:" + payload.Path,
		"message:" + payload.Message,
	}
	for _, r := range payload.Ranges {
		parts = append(parts, "range:"+r.String())
	}
	for _, symbol := range payload.Symbols {
		parts = append(parts, "symbol:"+symbol)
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// ToDiagnostics assigns identities to raw findings. Identity
// collisions within one batch keep the first occurrence.
func ToDiagnostics(findings []ports.Finding) []ports.Diagnostic {
	out := make([]ports.Diagnostic, 0, len(findings))
	seen := make(map[string]bool, len(findings))
	for _, finding := range findings {
		id := Identity(finding.CheckerKey, finding.Payload)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, ports.Diagnostic{
			ID:         id,
			CheckerKey: finding.CheckerKey,
			Severity:   finding.Severity,
			Payload:    finding.Payload,
		})
	}
	return out
}
