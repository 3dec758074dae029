// Host boundary: outbound events leave the core as JSON lines, one
// event per line, on whatever writer the host hands us.
package host

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"relint/internal/core/ports"
)

type eventEnvelope struct {
	Type    string             `json:"type"`
	Payload interface{}        `json:"payload,omitempty"`
	Items   []ports.Diagnostic `json:"items,omitempty"`
	Logs    []string           `json:"logs,omitempty"`
}

type JSONEmitter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.HostEmitter = (*JSONEmitter)(nil)

func NewJSONEmitter(out io.Writer) *JSONEmitter {
	return &JSONEmitter{out: out}
}

func (e *JSONEmitter) EmitDiagnostics(diagnostics []ports.Diagnostic) {
	e.write(eventEnvelope{Type: "diagnostics", Items: diagnostics})
}

func (e *JSONEmitter) EmitSnapshot(snapshot ports.Snapshot) {
	e.write(eventEnvelope{Type: "snapshot", Payload: snapshot})
}

func (e *JSONEmitter) EmitLogs(messages []string) {
	e.write(eventEnvelope{Type: "log", Logs: messages})
}

func (e *JSONEmitter) write(envelope eventEnvelope) {
	e.mu.Lock()
	defer e.mu.Unlock()

	encoder := json.NewEncoder(e.out)
	if err := encoder.Encode(envelope); err != nil {
		slog.Warn("failed to emit host event", "type", envelope.Type, "error", err)
	}
}
