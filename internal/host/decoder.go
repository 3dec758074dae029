package host

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"relint/internal/core/errors"
	"relint/internal/engine/ast"
)

// SurfaceDecoder extracts the surface structure the checks need from
// Elm source: module header, imports, top-level declarations and
// symbol references. It deliberately stops far short of a real
// parser; a full AST decoder can be swapped in behind the same
// interface.
type SurfaceDecoder struct{}

var _ ast.FileDecoder = SurfaceDecoder{}

func (SurfaceDecoder) DecodeFile(path string, src []byte) (*ast.File, error) {
	file := &ast.File{
		Path:   path,
		Module: moduleNameFromPath(path),
	}

	signatures := make(map[string]bool)
	lines := strings.Split(string(src), "\n")

	for i, line := range lines {
		lineNo := i + 1

		if name, ok := parseModuleHeader(line); ok {
			file.Module = name
			continue
		}

		if imp, ok := parseImport(line, lineNo); ok {
			file.Imports = append(file.Imports, imp)
			continue
		}

		if name, ok := parseSignature(line); ok {
			signatures[name] = true
			continue
		}

		if decl, ok := parseDeclaration(line, lineNo); ok {
			decl.HasSignature = signatures[decl.Name]
			file.Declarations = append(file.Declarations, decl)
			continue
		}

		for _, ref := range parseReferences(line, lineNo) {
			file.References = append(file.References, ref)
		}
	}

	return file, nil
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseModuleHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "port ")
	trimmed = strings.TrimPrefix(trimmed, "effect ")
	if !strings.HasPrefix(trimmed, "module ") {
		return "", false
	}
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

func parseImport(line string, lineNo int) (ast.Import, bool) {
	if !strings.HasPrefix(line, "import ") {
		return ast.Import{}, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ast.Import{}, false
	}

	imp := ast.Import{
		Module: fields[1],
		Location: ast.Range{
			Start: ast.Position{Line: lineNo, Column: 1},
			End:   ast.Position{Line: lineNo + 1, Column: 1},
		},
	}

	for i := 2; i < len(fields); i++ {
		switch fields[i] {
		case "as":
			if i+1 < len(fields) {
				imp.Alias = fields[i+1]
			}
		case "exposing":
			rest := strings.Join(fields[i+1:], " ")
			imp.Exposing = parseExposing(rest)
		}
	}
	return imp, true
}

func parseExposing(clause string) []string {
	clause = strings.TrimSpace(clause)
	clause = strings.TrimPrefix(clause, "(")
	clause = strings.TrimSuffix(clause, ")")
	parts := strings.Split(clause, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		// Constructor lists like Maybe(..) expose the type name.
		if idx := strings.IndexByte(name, '('); idx > 0 {
			name = name[:idx]
		}
		out = append(out, name)
	}
	return out
}

// parseSignature matches a top-level `name : Type` annotation.
func parseSignature(line string) (string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", false
	}
	idx := strings.Index(line, " : ")
	if idx <= 0 {
		return "", false
	}
	name := line[:idx]
	if !isLowerIdentifier(name) {
		return "", false
	}
	return name, true
}

// parseDeclaration matches a top-level `name args... =` declaration.
func parseDeclaration(line string, lineNo int) (ast.Declaration, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return ast.Declaration{}, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || !isLowerIdentifier(fields[0]) {
		return ast.Declaration{}, false
	}
	hasEquals := false
	for _, field := range fields[1:] {
		if field == "=" {
			hasEquals = true
			break
		}
	}
	if !hasEquals && !strings.HasSuffix(strings.TrimSpace(line), "=") {
		return ast.Declaration{}, false
	}
	return ast.Declaration{
		Name: fields[0],
		Location: ast.Range{
			Start: ast.Position{Line: lineNo, Column: 1},
			End:   ast.Position{Line: lineNo, Column: len(fields[0]) + 1},
		},
	}, true
}

// parseReferences tokenizes a body line into identifier references,
// keeping qualified names like List.map intact.
func parseReferences(line string, lineNo int) []ast.Reference {
	refs := make([]ast.Reference, 0)
	start := -1
	for i := 0; i <= len(line); i++ {
		var c byte
		if i < len(line) {
			c = line[i]
		}
		if isIdentByte(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			token := line[start:i]
			if isIdentifierToken(token) {
				refs = append(refs, ast.Reference{
					Name: token,
					Location: ast.Range{
						Start: ast.Position{Line: lineNo, Column: start + 1},
						End:   ast.Position{Line: lineNo, Column: i + 1},
					},
				})
			}
			start = -1
		}
	}
	return refs
}

func isIdentByte(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentifierToken(token string) bool {
	if token == "" || token == "." {
		return false
	}
	first := token[0]
	return (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')
}

func isLowerIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !isIdentByte(c) || c == '.' {
			return false
		}
	}
	return true
}

// InterfaceDecoder decodes a compiled dependency interface, stored as
// JSON with the module name and its own import list.
type InterfaceDecoder struct{}

var _ ast.ModuleDecoder = InterfaceDecoder{}

func (InterfaceDecoder) DecodeModule(path string, src []byte) (*ast.Module, error) {
	var module ast.Module
	if err := json.Unmarshal(src, &module); err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, "decode dependency interface"),
			errors.CtxPath, path)
	}
	if module.Name == "" {
		module.Name = moduleNameFromPath(path)
	}
	return &module, nil
}
