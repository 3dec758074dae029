package pipeline

import (
	"context"
	"testing"

	"relint/internal/core/ports"
)

func TestServiceRequiresPipeline(t *testing.T) {
	service := NewService(nil)
	if err := service.Reset(context.Background()); err == nil {
		t.Error("Expected an error from a service without a pipeline")
	}
	if _, err := service.Snapshot(context.Background()); err == nil {
		t.Error("Expected an error from Snapshot without a pipeline")
	}
}

func TestServiceHonorsCanceledContext(t *testing.T) {
	f := newWorld()
	service := NewService(f.pipe)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := service.Reset(ctx); err == nil {
		t.Error("Expected Reset to fail on a canceled context")
	}
	if err := service.RequestFix(ctx, "id"); err == nil {
		t.Error("Expected RequestFix to fail on a canceled context")
	}

	// WaitIdle returns immediately on an idle pipeline, so drive it
	// into a busy state before checking cancellation.
	f.holdSources = true
	f.context = ports.Context{SourceFilePaths: []string{"src/Main.elm"}}
	f.pipe.Reset()
	if err := service.WaitIdle(ctx); err == nil {
		t.Error("Expected WaitIdle to fail on a canceled context while busy")
	}
}

func TestServiceDrivesFullPass(t *testing.T) {
	f := newWorld()
	f.context = ports.Context{SourceFilePaths: []string{"src/Main.elm"}}
	f.sources["src/Main.elm"] = mainFile(false)
	service := NewService(f.pipe)

	ctx := context.Background()
	if err := service.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := service.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle failed: %v", err)
	}

	snapshot, err := service.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snapshot.Diagnostics) != 1 {
		t.Errorf("Expected 1 diagnostic, got %d", len(snapshot.Diagnostics))
	}
}
