// Parsed representations exchanged between the pipeline and its
// external parser collaborator. Decoding source bytes into these
// structures is the decoder's job; nothing in this package parses.
package ast

import "fmt"

// Position is a 1-based line/column location inside a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans from Start (inclusive) to End (exclusive) in a file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Less orders ranges by start position, then end position.
func (r Range) Less(other Range) bool {
	if r.Start.Line != other.Start.Line {
		return r.Start.Line < other.Start.Line
	}
	if r.Start.Column != other.Start.Column {
		return r.Start.Column < other.Start.Column
	}
	if r.End.Line != other.End.Line {
		return r.End.Line < other.End.Line
	}
	return r.End.Column < other.End.Column
}

// Import records one import statement in a source file.
type Import struct {
	Module   string   `json:"module"`
	Alias    string   `json:"alias,omitempty"`
	Exposing []string `json:"exposing,omitempty"`
	Location Range    `json:"location"`
}

// Declaration is a top-level value or function declaration.
type Declaration struct {
	Name         string `json:"name"`
	HasSignature bool   `json:"hasSignature"`
	Location     Range  `json:"location"`
}

// Reference is one use of a symbol inside the file body.
type Reference struct {
	Name     string `json:"name"`
	Location Range  `json:"location"`
}

// File is one parsed source file.
type File struct {
	Path         string        `json:"path"`
	Module       string        `json:"module"`
	Imports      []Import      `json:"imports"`
	Declarations []Declaration `json:"declarations"`
	References   []Reference   `json:"references,omitempty"`
}

// Clone returns a deep copy so callers can hand files out without
// exposing internal state to mutation.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	c := *f
	c.Imports = append([]Import(nil), f.Imports...)
	for i := range c.Imports {
		if len(c.Imports[i].Exposing) > 0 {
			c.Imports[i].Exposing = append([]string(nil), c.Imports[i].Exposing...)
		}
	}
	c.Declarations = append([]Declaration(nil), f.Declarations...)
	c.References = append([]Reference(nil), f.References...)
	return &c
}

// Module is the compiled interface of one dependency module: its name
// and the modules it imports in turn.
type Module struct {
	Name    string   `json:"name"`
	Imports []string `json:"imports,omitempty"`
}

func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	c := *m
	c.Imports = append([]string(nil), m.Imports...)
	return &c
}

// FileDecoder turns raw source bytes into a parsed file. Implemented
// outside the core; the pipeline only consumes the result.
type FileDecoder interface {
	DecodeFile(path string, src []byte) (*File, error)
}

// ModuleDecoder turns a compiled dependency interface into a Module.
type ModuleDecoder interface {
	DecodeModule(path string, src []byte) (*Module, error)
}
