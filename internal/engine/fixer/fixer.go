// Fixer drives one automated fix attempt to completion. Strictly one
// fix runs at a time; the pipeline only ever holds a single Fixer.
package fixer

import (
	"sort"

	"github.com/google/uuid"

	"relint/internal/core/ports"
	"relint/internal/shared/observability"
)

type Status int

const (
	StatusRunning Status = iota
	StatusSucceeded
	StatusFailed
)

type Fixer struct {
	token      uuid.UUID
	diagnostic ports.Diagnostic
	program    ports.FixProgram
	pending    map[string]bool
	written    []string
	status     Status
}

// New starts a fix attempt for the diagnostic with the program its
// strategy produced. A program with no edits succeeds immediately.
func New(diagnostic ports.Diagnostic, program ports.FixProgram) *Fixer {
	f := &Fixer{
		token:      uuid.New(),
		diagnostic: diagnostic,
		program:    program,
		pending:    make(map[string]bool, len(program.Edits)),
	}
	for path, edits := range program.Edits {
		if path == "" || len(edits) == 0 {
			continue
		}
		f.pending[path] = true
	}
	if len(f.pending) == 0 {
		f.status = StatusSucceeded
		observability.FixesTotal.WithLabelValues("succeeded").Inc()
	}
	return f
}

func (f *Fixer) Token() uuid.UUID {
	return f.token
}

func (f *Fixer) Diagnostic() ports.Diagnostic {
	return f.diagnostic
}

// PendingWrites returns the file edits still awaiting application,
// for the pipeline to hand to the fix applier.
func (f *Fixer) PendingWrites() map[string][]ports.FixEdit {
	out := make(map[string][]ports.FixEdit, len(f.pending))
	for path := range f.pending {
		out[path] = append([]ports.FixEdit(nil), f.program.Edits[path]...)
	}
	return out
}

// Advance feeds one write confirmation into the attempt. Any failed
// write resolves the whole attempt as failed; remaining confirmations
// are absorbed without effect.
func (f *Fixer) Advance(result ports.FixResult) bool {
	if f.status != StatusRunning || !f.pending[result.Path] {
		return false
	}
	delete(f.pending, result.Path)

	if result.Err != nil {
		f.status = StatusFailed
		observability.FixesTotal.WithLabelValues("failed").Inc()
		return true
	}

	f.written = append(f.written, result.Path)
	if len(f.pending) == 0 {
		f.status = StatusSucceeded
		observability.FixesTotal.WithLabelValues("succeeded").Inc()
	}
	return true
}

func (f *Fixer) Done() bool {
	return f.status != StatusRunning
}

func (f *Fixer) Succeeded() bool {
	return f.status == StatusSucceeded
}

// TouchedFiles returns the files actually rewritten, sorted.
func (f *Fixer) TouchedFiles() []string {
	out := append([]string(nil), f.written...)
	sort.Strings(out)
	return out
}

// ReanalyzeTargets is the scope of the follow-up source batch: the
// rewritten files on success; on failure, the files already rewritten
// before the failing write plus the diagnostic's own file, so a
// partially applied program never leaves a mutated file stale.
func (f *Fixer) ReanalyzeTargets() []string {
	if f.status == StatusSucceeded {
		return f.TouchedFiles()
	}
	targets := make(map[string]bool, len(f.written)+1)
	for _, path := range f.written {
		targets[path] = true
	}
	if f.diagnostic.Payload.Path != "" {
		targets[f.diagnostic.Payload.Path] = true
	}
	out := make([]string, 0, len(targets))
	for path := range targets {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
