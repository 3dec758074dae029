package host

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"relint/internal/core/ports"
)

func TestJSONEmitterOneEventPerLine(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	emitter.EmitSnapshot(ports.Snapshot{Stage: "finished"})
	emitter.EmitDiagnostics([]ports.Diagnostic{{ID: "abc", CheckerKey: "unused-import"}})
	emitter.EmitLogs([]string{"configuration advisory"})

	scanner := bufio.NewScanner(&buf)
	var types []string
	for scanner.Scan() {
		var envelope map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &envelope); err != nil {
			t.Fatalf("Expected valid JSON per line: %v", err)
		}
		eventType, _ := envelope["type"].(string)
		types = append(types, eventType)
	}

	if len(types) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(types))
	}
	if types[0] != "snapshot" || types[1] != "diagnostics" || types[2] != "log" {
		t.Errorf("Unexpected event order: %v", types)
	}
}
