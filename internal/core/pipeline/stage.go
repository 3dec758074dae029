package pipeline

import (
	"relint/internal/engine/ast"
	"relint/internal/engine/fixer"
	"relint/internal/engine/loader"
)

type StageKind int

const (
	StageContextLoading StageKind = iota
	StageDependencyLoading
	StageSourceLoading
	StageFixing
	StageFinished
)

func (k StageKind) String() string {
	switch k {
	case StageContextLoading:
		return "context-loading"
	case StageDependencyLoading:
		return "dependency-loading"
	case StageSourceLoading:
		return "source-loading"
	case StageFixing:
		return "fixing"
	case StageFinished:
		return "finished"
	}
	return "unknown"
}

// stage is a tagged union: exactly the payload field matching Kind is
// non-nil. Finished is the terminal idle state and the only one from
// which a new fix task may be dequeued.
type stage struct {
	Kind         StageKind
	Dependencies *loader.Batch[*ast.Module]
	Sources      *loader.Batch[*ast.File]
	Fix          *fixer.Fixer
}

func finishedStage() stage {
	return stage{Kind: StageFinished}
}
