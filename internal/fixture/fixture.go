// Package fixture loads a JSON-encoded AST into an ast.Builder. This
// repository has no parser of its own (ast.Builder's own doc comment:
// "tests and the driver construct a tree directly against the Builder");
// the JSON shape here is that hand-built tree's serialized form, so
// cmd/tscheck has something to load instead of constructing trees in Go
// source for every invocation.
//
// Coverage is deliberately representative rather than exhaustive: every
// declaration kind is supported, along with the statement and expression
// forms a typical program exercises day to day. Less common syntax
// (template literals, decorators, destructuring patterns, JSX, mapped and
// conditional types, tagged templates) is not modeled — a fixture needing
// one of those constructs a tree directly against ast.Builder instead.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/session"
	"github.com/vovakirdan/tscheck/internal/source"
)

// Document is the top-level JSON shape: one or more files plus the compiler
// options that apply to the whole run.
type Document struct {
	Options session.Options `json:"options"`
	Files   []FileDoc       `json:"files"`
}

// FileDoc is one source file's top-level statement list.
type FileDoc struct {
	Path       string            `json:"path"`
	Statements []json.RawMessage `json:"statements"`
}

// Load decodes data into a fresh ast.Builder and returns it alongside the
// document's options, ready to hand to session.New.
func Load(data []byte) (*ast.Builder, session.Options, error) {
	var doc Document
	doc.Options = session.DefaultOptions()
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, session.Options{}, fmt.Errorf("fixture: %w", err)
	}

	strs := source.NewInterner()
	b := ast.NewBuilder(ast.Hints{}, strs)
	dec := &decoder{b: b}

	for _, fd := range doc.Files {
		sp := source.Span{}
		fid := b.NewFile(sp, fd.Path)
		for _, raw := range fd.Statements {
			sid, err := dec.stmt(raw)
			if err != nil {
				return nil, session.Options{}, fmt.Errorf("fixture: file %q: %w", fd.Path, err)
			}
			if sid.IsValid() {
				b.PushStmt(fid, sid)
			}
		}
	}
	return b, doc.Options, nil
}

type decoder struct {
	b *ast.Builder
}

func (d *decoder) intern(s string) source.StringID {
	if s == "" {
		return source.NoStringID
	}
	return d.b.Intern(s)
}

type kindTag struct {
	Kind string `json:"kind"`
}

func peekKind(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var k kindTag
	if err := json.Unmarshal(raw, &k); err != nil {
		return "", err
	}
	return k.Kind, nil
}
