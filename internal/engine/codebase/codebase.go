// CodeBase holds the session's parsed dependency interfaces and
// source files. Dependencies are set exactly once per session; source
// file entries are replaced per reanalysis batch.
package codebase

import (
	"log/slog"

	"relint/internal/engine/ast"
)

type CodeBase struct {
	dependencies map[string]*ast.Module
	depsSet      bool
	sourceFiles  map[string]*ast.File
}

func New() *CodeBase {
	return &CodeBase{
		dependencies: make(map[string]*ast.Module),
		sourceFiles:  make(map[string]*ast.File),
	}
}

// SetDependencies commits the dependency-loading stage's result.
// Calling it a second time before a Reset is a caller bug; the call
// is logged and ignored rather than corrupting the session.
func (c *CodeBase) SetDependencies(modules map[string]*ast.Module) {
	if c.depsSet {
		slog.Warn("dependencies already set for this session, ignoring")
		return
	}
	c.depsSet = true
	for name, module := range modules {
		if name == "" {
			continue
		}
		c.dependencies[name] = module.Clone()
	}
}

// UpsertSourceFiles merges newly parsed files by path-overwrite.
// Entries for paths not in the batch persist unchanged.
func (c *CodeBase) UpsertSourceFiles(files map[string]*ast.File) {
	for path, file := range files {
		if path == "" || file == nil {
			continue
		}
		c.sourceFiles[path] = file.Clone()
	}
}

// Dependencies returns a copy; mutating it does not affect the code
// base.
func (c *CodeBase) Dependencies() map[string]*ast.Module {
	out := make(map[string]*ast.Module, len(c.dependencies))
	for name, module := range c.dependencies {
		out[name] = module.Clone()
	}
	return out
}

// SourceFiles returns a copy; mutating it does not affect the code
// base.
func (c *CodeBase) SourceFiles() map[string]*ast.File {
	out := make(map[string]*ast.File, len(c.sourceFiles))
	for path, file := range c.sourceFiles {
		out[path] = file.Clone()
	}
	return out
}

func (c *CodeBase) SourceFile(path string) (*ast.File, bool) {
	file, ok := c.sourceFiles[path]
	if !ok {
		return nil, false
	}
	return file.Clone(), true
}

func (c *CodeBase) FileCount() int {
	return len(c.sourceFiles)
}
