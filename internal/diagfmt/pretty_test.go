package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// TestPathModes checks the different path-formatting modes.
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()

	content := []byte("let x: string = 42\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.ts", content)

	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.TS2322,
		source.Span{File: fileID, Start: 16, End: 18},
		"Type 'number' is not assignable to type 'string'.",
	)
	bag.Add(&d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/src/test.ts",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "src/test.ts",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "test.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "TS2322") {
				t.Error("Expected TS2322 code in output")
			}
			if !strings.Contains(output, "not assignable") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto checks the automatic path-selection mode.
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "Short path - as is",
			path:     "test.ts",
			expected: "test.ts",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/file.ts",
			expected: "file.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("let x = 42\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevWarning,
				diag.TS2304,
				source.Span{File: fileID, Start: 8, End: 10},
				"Cannot find name.",
			)
			bag.Add(&d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

type staticFixThunk struct {
	fix *diag.Fix
}

func (t staticFixThunk) ID() string {
	if t.fix.ID != "" {
		return t.fix.ID
	}
	return "static-fix"
}

func (t staticFixThunk) Build(_ diag.FixBuildContext) (diag.Fix, error) {
	return *t.fix, nil
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import { util } from core\n")
	fileID := fs.AddVirtual("test.ts", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 21, End: 25}
	d := diag.New(diag.SevWarning, diag.TS2307, primary, "Cannot find module 'core'.")

	noteSpan := source.Span{File: fileID, Start: 9, End: 13}
	d = d.WithNote(noteSpan, "imported here")

	insertSpan := source.Span{File: fileID, Start: primary.End, End: primary.End}
	d = d.WithFix("quote the module specifier", diag.FixEdit{Span: insertSpan, NewText: "\""})

	lenContent := uint32(len(content))
	staticFix := &diag.Fix{
		ID:            "wrap-import-001",
		Title:         "wrap import block",
		Kind:          diag.FixKindRefactor,
		Applicability: diag.FixApplicabilitySafeWithHeuristics,
		Edits: []diag.TextEdit{
			{Span: source.Span{File: fileID, Start: 0, End: 0}, NewText: "/* "},
			{Span: source.Span{File: fileID, Start: lenContent, End: lenContent}, NewText: " */"},
		},
	}

	lazyFix := &diag.Fix{
		Title:         "wrap import block",
		Kind:          diag.FixKindRefactor,
		Applicability: diag.FixApplicabilitySafeWithHeuristics,
		Thunk: staticFixThunk{
			fix: staticFix,
		},
	}
	d = d.WithFixSuggestion(*lazyFix)

	bag.Add(&d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:     false,
		Context:   0,
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()

	if !strings.Contains(output, "note: test.ts:1:10") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}

	if !strings.Contains(output, "fix #1: quote the module specifier") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}

	if !strings.Contains(output, "apply=\"\\\"\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}

	if !strings.Contains(output, "id=wrap-import-001") {
		t.Fatalf("expected lazy fix id in output, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let a: number = 42 // missing semicolon")
	fileID := fs.AddVirtual("example.ts", content)

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 18, End: 18}
	d := diag.New(diag.SevWarning, diag.TS2304, insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.FixEdit{
		Span:    insertSpan,
		NewText: ";",
	})

	bag.Add(&d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:       false,
		Context:     0,
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()
	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- let a: number = 42 // missing semicolon") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ let a: number = 42; // missing semicolon") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}
