// Batch tracks a set of in-flight load+parse requests. It is pure
// bookkeeping: issuing the requests and delivering the responses is
// the pipeline's job.
package loader

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"relint/internal/shared/observability"
)

type Batch[T any] struct {
	token     uuid.UUID
	kind      string
	started   time.Time
	pending   map[string]bool
	succeeded map[string]T
	failed    map[string]bool
}

// NewBatch starts bookkeeping for the given paths. Duplicate paths
// collapse; an empty path list is done immediately with no I/O.
func NewBatch[T any](kind string, paths []string) *Batch[T] {
	b := &Batch[T]{
		token:     uuid.New(),
		kind:      kind,
		started:   time.Now(),
		pending:   make(map[string]bool, len(paths)),
		succeeded: make(map[string]T),
		failed:    make(map[string]bool),
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		b.pending[path] = true
	}
	return b
}

// Token identifies this batch; responses carrying another token are
// not ours and must be discarded by the caller.
func (b *Batch[T]) Token() uuid.UUID {
	return b.token
}

// Pending returns the paths still awaiting a response, sorted.
func (b *Batch[T]) Pending() []string {
	out := make([]string, 0, len(b.pending))
	for path := range b.pending {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// OnResult records one response. Unknown or repeated paths are
// ignored. A failed load never aborts the batch; the path is simply
// excluded from the results.
func (b *Batch[T]) OnResult(path string, value T, err error) bool {
	if !b.pending[path] {
		return false
	}
	delete(b.pending, path)
	if err != nil {
		b.failed[path] = true
		observability.FilesLoadedTotal.WithLabelValues("failed").Inc()
	} else {
		b.succeeded[path] = value
		observability.FilesLoadedTotal.WithLabelValues("succeeded").Inc()
	}
	if b.Done() {
		observability.BatchDuration.WithLabelValues(b.kind).Observe(time.Since(b.started).Seconds())
	}
	return true
}

// Done reports whether every issued request has been answered.
func (b *Batch[T]) Done() bool {
	return len(b.pending) == 0
}

// Results returns the successful loads. Failures are excluded, not
// retried within the same batch.
func (b *Batch[T]) Results() map[string]T {
	out := make(map[string]T, len(b.succeeded))
	for path, value := range b.succeeded {
		out[path] = value
	}
	return out
}

// Failed returns the paths whose load or parse failed, sorted.
func (b *Batch[T]) Failed() []string {
	out := make([]string, 0, len(b.failed))
	for path := range b.failed {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
