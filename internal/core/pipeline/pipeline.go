// The pipeline orchestrator: a single-writer state machine that
// sequences context loading, dependency loading, source loading,
// diagnostic computation, graph rebuild and fix application.
//
// Every public entry point takes the pipeline mutex, runs one
// synchronous state transition, and only after releasing the lock
// performs the outbound calls the transition produced (requests to
// collaborators, host emissions). Collaborators may therefore respond
// synchronously from the same goroutine without deadlocking.
package pipeline

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"relint/internal/core/config"
	"relint/internal/core/ports"
	"relint/internal/data/state"
	"relint/internal/engine/ast"
	"relint/internal/engine/codebase"
	"relint/internal/engine/fixer"
	"relint/internal/engine/graph"
	"relint/internal/engine/loader"
	"relint/internal/shared/observability"
)

// Collaborators are the external parties the orchestrator drives.
// Host may be nil; every other field is required.
type Collaborators struct {
	Contexts     ports.ContextLoader
	Dependencies ports.DependencyLoader
	Sources      ports.SourceLoader
	Checks       ports.CheckRunner
	Fixes        ports.FixRegistry
	Applier      ports.FixApplier
	Host         ports.HostEmitter
}

type Pipeline struct {
	mu     sync.Mutex
	collab Collaborators

	session uuid.UUID
	context ports.Context
	cfg     *config.Config
	code    *codebase.CodeBase
	store   *state.Store
	stage   stage

	// Watcher notifications arriving mid-pipeline wait here and are
	// folded into the next idle transition.
	pendingChanges map[string]bool
}

// outcall is work a transition produced that must run outside the
// lock: collaborator requests and host emissions.
type outcall func()

func New(collab Collaborators) *Pipeline {
	return &Pipeline{
		collab:         collab,
		session:        uuid.New(),
		cfg:            config.Default(),
		code:           codebase.New(),
		store:          state.NewStore(),
		stage:          finishedStage(),
		pendingChanges: make(map[string]bool),
	}
}

// Reset discards the code base and diagnostic store, abandons any
// in-flight stage work, and asks the context collaborator for a fresh
// session. Triggerable externally at any time.
func (p *Pipeline) Reset() {
	p.run(func() []outcall {
		p.session = uuid.New()
		p.code = codebase.New()
		p.store = state.NewStore()
		p.cfg = config.Default()
		p.pendingChanges = make(map[string]bool)
		p.setStage(stage{Kind: StageContextLoading})

		session := p.session
		return []outcall{
			p.emitSnapshot(),
			func() { p.collab.Contexts.LoadContext(session) },
		}
	})
}

// OnContextLoaded receives the context collaborator's reply. Only
// valid while context loading is the active stage and the session
// matches; anything else is a stale reply and is discarded.
func (p *Pipeline) OnContextLoaded(result ports.ContextResult) {
	p.run(func() []outcall {
		if p.stage.Kind != StageContextLoading || result.Session != p.session {
			return p.discardStale("context result")
		}
		if result.Err != nil {
			slog.Error("context load failed", "error", result.Err)
			p.setStage(finishedStage())
			return []outcall{p.emitSnapshot()}
		}

		p.context = result.Context

		cfg, advisories := config.Parse(result.Context.RawConfiguration)
		p.cfg = cfg
		outcalls := make([]outcall, 0, 2)
		if len(advisories) > 0 {
			for _, message := range advisories {
				slog.Warn("configuration advisory", "message", message)
			}
			outcalls = append(outcalls, p.emitLogs(advisories))
		}

		return append(outcalls, p.startDependencyBatch(p.context.InterfaceFilePaths)...)
	})
}

// OnDependencyResult receives one per-file reply for the dependency
// batch.
func (p *Pipeline) OnDependencyResult(result ports.DependencyResult) {
	p.run(func() []outcall {
		if p.stage.Kind != StageDependencyLoading || result.Batch != p.stage.Dependencies.Token() {
			return p.discardStale("dependency result")
		}

		batch := p.stage.Dependencies
		batch.OnResult(result.Path, result.Module, result.Err)
		if result.Err != nil {
			slog.Warn("dependency interface load failed", "path", result.Path, "error", result.Err)
		}
		if !batch.Done() {
			return nil
		}

		p.code.SetDependencies(modulesByName(batch.Results()))
		return p.startSourceBatch(p.context.SourceFilePaths)
	})
}

// OnSourceResult receives one per-file reply for the active source
// batch.
func (p *Pipeline) OnSourceResult(result ports.SourceResult) {
	p.run(func() []outcall {
		if p.stage.Kind != StageSourceLoading || result.Batch != p.stage.Sources.Token() {
			return p.discardStale("source result")
		}

		batch := p.stage.Sources
		batch.OnResult(result.Path, result.File, result.Err)
		if result.Err != nil {
			slog.Warn("source load failed", "path", result.Path, "error", result.Err)
		}
		if !batch.Done() {
			return nil
		}

		return p.finishReanalysis(batch.Results())
	})
}

// OnFixerEvent receives one write confirmation for the active fix
// attempt. Either outcome ends in a reanalysis batch over the files
// the attempt determines.
func (p *Pipeline) OnFixerEvent(result ports.FixResult) {
	p.run(func() []outcall {
		if p.stage.Kind != StageFixing || result.Fix != p.stage.Fix.Token() {
			return p.discardStale("fixer result")
		}

		fix := p.stage.Fix
		fix.Advance(result)
		if !fix.Done() {
			return nil
		}

		if !fix.Succeeded() {
			slog.Warn("automated fix failed",
				"checker", fix.Diagnostic().CheckerKey,
				"path", result.Path,
				"error", result.Err)
		}
		return p.startSourceBatch(fix.ReanalyzeTargets())
	})
}

// RequestFix enqueues a fix task for the diagnostic id. Requests for
// unknown ids are silently ignored; requests for already-queued ids
// are idempotent.
func (p *Pipeline) RequestFix(id string) {
	p.run(func() []outcall {
		if _, exists := p.store.Diagnostic(id); !exists {
			slog.Debug("fix requested for unknown diagnostic", "id", id)
			return nil
		}
		p.store.EnqueueFix(id)
		return p.advanceIfIdle()
	})
}

// NotifyChanged records externally changed paths. Idle pipelines
// start a targeted reanalysis immediately; busy ones fold the paths
// into the next idle transition.
func (p *Pipeline) NotifyChanged(paths []string) {
	p.run(func() []outcall {
		for _, path := range paths {
			if path == "" {
				continue
			}
			p.pendingChanges[path] = true
		}
		return p.advanceIfIdle()
	})
}

// Snapshot returns the current store state for the host.
func (p *Pipeline) Snapshot() ports.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// StageKind reports the currently active stage.
func (p *Pipeline) StageKind() StageKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage.Kind
}

// Idle reports whether the pipeline is fully drained: finished stage,
// empty fix queue, no pending change notifications.
func (p *Pipeline) Idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage.Kind == StageFinished && len(p.store.QueuedFixes()) == 0 && len(p.pendingChanges) == 0
}

func (p *Pipeline) run(transition func() []outcall) {
	p.mu.Lock()
	outcalls := transition()
	p.mu.Unlock()
	for _, call := range outcalls {
		call()
	}
}

func (p *Pipeline) setStage(next stage) {
	p.stage = next
	observability.StageTransitionsTotal.WithLabelValues(next.Kind.String()).Inc()
}

func (p *Pipeline) discardStale(kind string) []outcall {
	slog.Debug("discarding stale event", "event", kind, "stage", p.stage.Kind.String())
	observability.StaleEventsTotal.Inc()
	return nil
}

func (p *Pipeline) startDependencyBatch(paths []string) []outcall {
	batch := loader.NewBatch[*ast.Module]("dependencies", paths)
	if batch.Done() {
		p.code.SetDependencies(nil)
		return p.startSourceBatch(p.context.SourceFilePaths)
	}

	p.setStage(stage{Kind: StageDependencyLoading, Dependencies: batch})
	token := batch.Token()
	outcalls := make([]outcall, 0, len(paths))
	for _, path := range batch.Pending() {
		path := path
		outcalls = append(outcalls, func() { p.collab.Dependencies.LoadInterface(token, path) })
	}
	return outcalls
}

// modulesByName re-keys a dependency batch from interface file path to
// module name, the key the code base and the graph operate on.
func modulesByName(results map[string]*ast.Module) map[string]*ast.Module {
	out := make(map[string]*ast.Module, len(results))
	for _, module := range results {
		if module == nil || module.Name == "" {
			continue
		}
		out[module.Name] = module
	}
	return out
}

func (p *Pipeline) startSourceBatch(paths []string) []outcall {
	batch := loader.NewBatch[*ast.File]("sources", paths)
	if batch.Done() {
		// Zero-file reanalysis resolves synchronously with no I/O.
		return p.finishReanalysis(nil)
	}

	p.setStage(stage{Kind: StageSourceLoading, Sources: batch})
	token := batch.Token()
	outcalls := make([]outcall, 0, len(paths))
	for _, path := range batch.Pending() {
		path := path
		outcalls = append(outcalls, func() { p.collab.Sources.LoadSource(token, path) })
	}
	return outcalls
}

// finishReanalysis merges the freshly parsed files, runs the checks
// over exactly those files, rebuilds the dependency graph in full,
// merges the diagnostic store, and returns to Finished before
// draining queued work.
func (p *Pipeline) finishReanalysis(files map[string]*ast.File) []outcall {
	p.code.UpsertSourceFiles(files)

	paths := make([]string, 0, len(files))
	ordered := make([]*ast.File, 0, len(files))
	for path, file := range files {
		paths = append(paths, path)
		ordered = append(ordered, file)
	}
	sort.Strings(paths)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	findings := p.collab.Checks.RunChecks(ordered, p.code.Dependencies(), p.cfg)
	diagnostics := state.ToDiagnostics(findings)
	p.store.ReplaceForFiles(paths, diagnostics)

	p.store.SetGraph(graph.Build(p.code.SourceFiles(), p.code.Dependencies()))

	p.setStage(finishedStage())
	observability.PipelinePassesTotal.Inc()

	outcalls := []outcall{p.emitDiagnostics(), p.emitSnapshot()}
	return append(outcalls, p.advanceIfIdle()...)
}

// advanceIfIdle acts only in the Finished stage. Pending change
// notifications win over queued fixes; the fix queue then drains one
// attempt at a time, skipping entries whose diagnostic disappeared or
// has no automated fix.
func (p *Pipeline) advanceIfIdle() []outcall {
	if p.stage.Kind != StageFinished {
		return nil
	}

	if len(p.pendingChanges) > 0 {
		paths := make([]string, 0, len(p.pendingChanges))
		for path := range p.pendingChanges {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		p.pendingChanges = make(map[string]bool)
		return p.startSourceBatch(paths)
	}

	for {
		id, ok := p.store.DequeueFix()
		if !ok {
			return nil
		}

		diagnostic, exists := p.store.Diagnostic(id)
		if !exists {
			slog.Info("queued diagnostic no longer exists, skipping", "id", id)
			continue
		}

		program, ok := p.collab.Fixes.TryFix(diagnostic.CheckerKey, diagnostic.Payload)
		if !ok {
			slog.Info("no automated fix for diagnostic", "checker", diagnostic.CheckerKey, "id", id)
			continue
		}

		fix := fixer.New(diagnostic, program)
		if fix.Done() {
			// Empty program: nothing to write, reanalyze directly.
			// Each pass through here consumed one queue entry, so the
			// recursion is bounded by the queue length.
			return p.startSourceBatch(fix.ReanalyzeTargets())
		}

		p.setStage(stage{Kind: StageFixing, Fix: fix})
		token := fix.Token()
		outcalls := []outcall{p.emitSnapshot()}
		for path, edits := range fix.PendingWrites() {
			path, edits := path, edits
			outcalls = append(outcalls, func() { p.collab.Applier.Apply(token, path, edits) })
		}
		return outcalls
	}
}

func (p *Pipeline) snapshotLocked() ports.Snapshot {
	g := p.store.Graph()
	return ports.Snapshot{
		Stage:         p.stage.Kind.String(),
		Diagnostics:   p.store.Diagnostics(),
		QueuedFixes:   p.store.QueuedFixes(),
		GraphNodes:    g.Nodes(),
		GraphEdges:    g.Edges(),
		GraphCycles:   g.DetectCycles(),
		ModuleMetrics: g.ComputeModuleMetrics(),
	}
}

func (p *Pipeline) emitSnapshot() outcall {
	if p.collab.Host == nil {
		return func() {}
	}
	snapshot := p.snapshotLocked()
	return func() { p.collab.Host.EmitSnapshot(snapshot) }
}

func (p *Pipeline) emitDiagnostics() outcall {
	if p.collab.Host == nil {
		return func() {}
	}
	diagnostics := p.store.Diagnostics()
	return func() { p.collab.Host.EmitDiagnostics(diagnostics) }
}

func (p *Pipeline) emitLogs(messages []string) outcall {
	if p.collab.Host == nil {
		return func() {}
	}
	copied := append([]string(nil), messages...)
	return func() { p.collab.Host.EmitLogs(copied) }
}
