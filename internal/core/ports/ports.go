// Ports shared between the pipeline core and its external
// collaborators: the context loader, the per-file load/parse
// collaborators, the check runner, the fix machinery and the host.
package ports

import (
	"context"

	"github.com/google/uuid"

	"relint/internal/core/config"
	"relint/internal/engine/ast"
	"relint/internal/engine/graph"
)

// Context is the immutable per-session record created at startup or
// on Reset. It is never mutated, only replaced wholesale.
type Context struct {
	InterfaceFilePaths []string
	SourceFilePaths    []string
	RawConfiguration   string
}

// Payload carries the structural fields of one finding. Ranges and
// symbols feed the diagnostic identity fingerprint.
type Payload struct {
	Path    string      `json:"path"`
	Message string      `json:"message"`
	Ranges  []ast.Range `json:"ranges,omitempty"`
	Symbols []string    `json:"symbols,omitempty"`
}

// Finding is one check result before it gains a stable identity.
type Finding struct {
	CheckerKey string
	Severity   string
	Payload    Payload
}

// Diagnostic is a finding with its stable identity assigned.
type Diagnostic struct {
	ID         string  `json:"id"`
	CheckerKey string  `json:"checkerKey"`
	Severity   string  `json:"severity"`
	Payload    Payload `json:"payload"`
}

// Snapshot is the full store state emitted to the host after every
// completed reanalysis cycle and after every Reset.
type Snapshot struct {
	Stage         string                         `json:"stage"`
	Diagnostics   []Diagnostic                   `json:"diagnostics"`
	QueuedFixes   []string                       `json:"queuedFixes"`
	GraphNodes    []string                       `json:"graphNodes"`
	GraphEdges    []graph.Edge                   `json:"graphEdges"`
	GraphCycles   [][]string                     `json:"graphCycles,omitempty"`
	ModuleMetrics map[string]graph.ModuleMetrics `json:"moduleMetrics,omitempty"`
}

// ContextResult is the asynchronous reply to a LoadContext request.
type ContextResult struct {
	Session uuid.UUID
	Context Context
	Err     error
}

// ContextLoader enumerates the session's file sets and raw
// configuration. The reply is delivered to the pipeline's
// OnContextLoaded entry point; the call itself must not block.
type ContextLoader interface {
	LoadContext(session uuid.UUID)
}

// DependencyResult is one per-file reply within a dependency batch.
type DependencyResult struct {
	Batch  uuid.UUID
	Path   string
	Module *ast.Module
	Err    error
}

// DependencyLoader loads and decodes one compiled dependency
// interface per request, replying via OnDependencyResult.
type DependencyLoader interface {
	LoadInterface(batch uuid.UUID, path string)
}

// SourceResult is one per-file reply within a source batch.
type SourceResult struct {
	Batch uuid.UUID
	Path  string
	File  *ast.File
	Err   error
}

// SourceLoader loads and parses one source file per request,
// replying via OnSourceResult.
type SourceLoader interface {
	LoadSource(batch uuid.UUID, path string)
}

// CheckRunner executes the enabled checks over exactly the given
// files plus the full dependency set. Pure from the pipeline's point
// of view.
type CheckRunner interface {
	RunChecks(files []*ast.File, dependencies map[string]*ast.Module, cfg *config.Config) []Finding
}

// FixEdit replaces one source range with new text.
type FixEdit struct {
	Range   ast.Range `json:"range"`
	NewText string    `json:"newText"`
}

// FixProgram is the plan a fix strategy produces: edits grouped by
// the file they rewrite.
type FixProgram struct {
	Edits map[string][]FixEdit
}

// FixRegistry resolves an automated fix for a diagnostic kind, when
// one exists.
type FixRegistry interface {
	TryFix(checkerKey string, payload Payload) (FixProgram, bool)
}

// FixResult is the asynchronous reply to one Apply request.
type FixResult struct {
	Fix  uuid.UUID
	Path string
	Err  error
}

// FixApplier performs the external write of one file's edits,
// replying via OnFixerEvent.
type FixApplier interface {
	Apply(fix uuid.UUID, path string, edits []FixEdit)
}

// HostEmitter receives fire-and-forget outbound events.
type HostEmitter interface {
	EmitDiagnostics(diagnostics []Diagnostic)
	EmitSnapshot(snapshot Snapshot)
	EmitLogs(messages []string)
}

// PipelineService is the driving port for hosts (CLI, watcher,
// editor integration).
type PipelineService interface {
	Reset(ctx context.Context) error
	RequestFix(ctx context.Context, id string) error
	NotifyChanged(ctx context.Context, paths []string) error
	Snapshot(ctx context.Context) (Snapshot, error)
	WaitIdle(ctx context.Context) error
}
