package host

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"relint/internal/core/errors"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

// DiskContextLoader enumerates the project on disk: source files by
// extension under the roots, compiled dependency interfaces under the
// interface directory, and the raw configuration file contents.
type DiskContextLoader struct {
	Roots        []string
	InterfaceDir string
	ConfigPath   string
	Extensions   []string
	ExcludeDirs  []string

	// Respond delivers the result to the pipeline's OnContextLoaded.
	Respond func(ports.ContextResult)
}

var _ ports.ContextLoader = (*DiskContextLoader)(nil)

func (l *DiskContextLoader) LoadContext(session uuid.UUID) {
	go func() {
		context, err := l.collect()
		l.Respond(ports.ContextResult{Session: session, Context: context, Err: err})
	}()
}

func (l *DiskContextLoader) collect() (ports.Context, error) {
	excludes := make([]glob.Glob, 0, len(l.ExcludeDirs))
	for _, pattern := range l.ExcludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return ports.Context{}, errors.Wrap(err, errors.CodeValidationError, "compile exclude pattern")
		}
		excludes = append(excludes, g)
	}

	extensions := make(map[string]bool, len(l.Extensions))
	for _, ext := range l.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	sources := make([]string, 0)
	for _, root := range l.Roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				base := filepath.Base(path)
				for _, g := range excludes {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if extensions[strings.ToLower(filepath.Ext(path))] {
				sources = append(sources, path)
			}
			return nil
		})
		if err != nil {
			return ports.Context{}, errors.AddContext(
				errors.Wrap(err, errors.CodeInternal, "enumerate source root"),
				errors.CtxPath, root)
		}
	}
	sort.Strings(sources)

	interfaces := make([]string, 0)
	if l.InterfaceDir != "" {
		entries, err := os.ReadDir(l.InterfaceDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
					continue
				}
				interfaces = append(interfaces, filepath.Join(l.InterfaceDir, entry.Name()))
			}
		}
	}
	sort.Strings(interfaces)

	raw := ""
	if l.ConfigPath != "" {
		if data, err := os.ReadFile(l.ConfigPath); err == nil {
			raw = string(data)
		}
	}

	return ports.Context{
		InterfaceFilePaths: interfaces,
		SourceFilePaths:    sources,
		RawConfiguration:   raw,
	}, nil
}

// DiskSourceLoader reads one source file and hands it to the decoder.
type DiskSourceLoader struct {
	Decoder ast.FileDecoder
	Respond func(ports.SourceResult)
}

var _ ports.SourceLoader = (*DiskSourceLoader)(nil)

func (l *DiskSourceLoader) LoadSource(batch uuid.UUID, path string) {
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			l.Respond(ports.SourceResult{Batch: batch, Path: path, Err: err})
			return
		}
		file, err := l.Decoder.DecodeFile(path, data)
		l.Respond(ports.SourceResult{Batch: batch, Path: path, File: file, Err: err})
	}()
}

// DiskDependencyLoader reads one compiled dependency interface and
// hands it to the decoder.
type DiskDependencyLoader struct {
	Decoder ast.ModuleDecoder
	Respond func(ports.DependencyResult)
}

var _ ports.DependencyLoader = (*DiskDependencyLoader)(nil)

func (l *DiskDependencyLoader) LoadInterface(batch uuid.UUID, path string) {
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			l.Respond(ports.DependencyResult{Batch: batch, Path: path, Err: err})
			return
		}
		module, err := l.Decoder.DecodeModule(path, data)
		l.Respond(ports.DependencyResult{Batch: batch, Path: path, Module: module, Err: err})
	}()
}
