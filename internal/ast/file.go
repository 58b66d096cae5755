package ast

import (
	"github.com/vovakirdan/tscheck/internal/source"
)

// File represents one parsed source file: a flat list of top-level statements
// (declarations, import/export statements, or plain statements for scripts).
// It is the read-only "AST arena" input named in spec §3/§6 — this repository
// never parses source text; tests and the driver construct File values
// directly against the Builder.
type File struct {
	Span       source.Span
	Path       string
	IsModule   bool // ES module (has import/export) vs a script file
	Statements []StmtID
}

// Files manages allocation of File nodes.
type Files struct {
	Arena *Arena[File]
}

// NewFiles creates a new Files arena with the given capacity hint.
func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

// New creates a new file in the arena.
func (f *Files) New(sp source.Span, path string) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:       sp,
		Path:       path,
		Statements: make([]StmtID, 0),
	}))
}

// Get returns the file with the given ID.
func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
