package host

import (
	"context"
	"strings"
	"testing"

	"relint/internal/core/ports"
)

type recordingService struct {
	resets  int
	fixes   []string
	changed [][]string
}

func (s *recordingService) Reset(ctx context.Context) error {
	s.resets++
	return nil
}

func (s *recordingService) RequestFix(ctx context.Context, id string) error {
	s.fixes = append(s.fixes, id)
	return nil
}

func (s *recordingService) NotifyChanged(ctx context.Context, paths []string) error {
	s.changed = append(s.changed, paths)
	return nil
}

func (s *recordingService) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	return ports.Snapshot{}, nil
}

func (s *recordingService) WaitIdle(ctx context.Context) error {
	return nil
}

func TestCommandReaderDispatches(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"reset"}`,
		`{"command":"fix","id":"abc123"}`,
		`{"command":"changed","paths":["src/Main.elm"]}`,
		``,
		`not json at all`,
		`{"command":"unknown"}`,
	}, "\n")

	service := &recordingService{}
	reader := &CommandReader{Service: service}

	if err := reader.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if service.resets != 1 {
		t.Errorf("Expected 1 reset, got %d", service.resets)
	}
	if len(service.fixes) != 1 || service.fixes[0] != "abc123" {
		t.Errorf("Unexpected fix requests: %v", service.fixes)
	}
	if len(service.changed) != 1 || service.changed[0][0] != "src/Main.elm" {
		t.Errorf("Unexpected change notifications: %v", service.changed)
	}
}

func TestCommandReaderStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &CommandReader{Service: &recordingService{}}
	if err := reader.Run(ctx, strings.NewReader(`{"command":"reset"}`)); err == nil {
		t.Error("Expected an error on a canceled context")
	}
}
