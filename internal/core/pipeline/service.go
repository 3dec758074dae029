package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"relint/internal/core/ports"
	"relint/internal/shared/observability"
)

type pipelineService struct {
	pipeline *Pipeline
}

var _ ports.PipelineService = (*pipelineService)(nil)

// NewService wraps the orchestrator in the driving port hosts use.
func NewService(p *Pipeline) ports.PipelineService {
	return &pipelineService{pipeline: p}
}

func (s *pipelineService) Reset(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "pipelineService.Reset", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}
	s.pipeline.Reset()
	return nil
}

func (s *pipelineService) RequestFix(ctx context.Context, id string) error {
	ctx, span := observability.Tracer.Start(ctx, "pipelineService.RequestFix", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}
	s.pipeline.RequestFix(id)
	return nil
}

func (s *pipelineService) NotifyChanged(ctx context.Context, paths []string) error {
	ctx, span := observability.Tracer.Start(ctx, "pipelineService.NotifyChanged", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}
	s.pipeline.NotifyChanged(paths)
	return nil
}

func (s *pipelineService) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return ports.Snapshot{}, err
	}
	if s.pipeline == nil {
		return ports.Snapshot{}, fmt.Errorf("pipeline is required")
	}
	return s.pipeline.Snapshot(), nil
}

// WaitIdle blocks until the pipeline has fully drained or the context
// ends.
func (s *pipelineService) WaitIdle(ctx context.Context) error {
	if s.pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.pipeline.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
