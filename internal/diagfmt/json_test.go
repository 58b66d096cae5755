package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// TestJSONBasic checks the basic diagnostic-to-JSON shape.
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte(`function f(x: number): string {
	return x;
}`)
	fileID := fs.AddVirtual("test.ts", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.TS2322,
		source.Span{File: fileID, Start: 36, End: 37},
		"Type 'number' is not assignable to type 'string'.",
	)
	bag.Add(&d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		Max:              0,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	if output.Count != 1 {
		t.Errorf("Expected count=1, got %d", output.Count)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	got := output.Diagnostics[0]
	if got.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", got.Severity)
	}

	if got.Code != "TS2322" {
		t.Errorf("Expected code=TS2322, got %s", got.Code)
	}

	if got.Message != "Type 'number' is not assignable to type 'string'." {
		t.Errorf("Expected message='Type 'number' is not assignable to type 'string'.', got %s", got.Message)
	}

	if got.Location.File != "test.ts" {
		t.Errorf("Expected file=test.ts, got %s", got.Location.File)
	}

	if got.Location.StartByte != 36 {
		t.Errorf("Expected start_byte=36, got %d", got.Location.StartByte)
	}

	if got.Location.EndByte != 37 {
		t.Errorf("Expected end_byte=37, got %d", got.Location.EndByte)
	}

	if got.Location.StartLine != 2 {
		t.Errorf("Expected start_line=2, got %d", got.Location.StartLine)
	}
}

// TestJSONWithNotesAndFixes checks notes and fixes round-trip through JSON.
func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte(`let x: number`)
	fileID := fs.AddVirtual("test.ts", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.TS2564,
		source.Span{File: fileID, Start: 4, End: 5},
		"Property 'x' has no initializer and is not definitely assigned.",
	)

	d = d.WithNote(
		source.Span{File: fileID, Start: 4, End: 5},
		"Add a definite assignment assertion or an initializer.",
	)

	d = d.WithFix(
		"Add initializer",
		diag.FixEdit{
			Span:    source.Span{File: fileID, Start: 13, End: 13},
			NewText: " = 0",
		},
	)

	bag.Add(&d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		Max:              0,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	got := output.Diagnostics[0]

	if len(got.Notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(got.Notes))
	}

	note := got.Notes[0]
	if note.Message != "Add a definite assignment assertion or an initializer." {
		t.Errorf("Unexpected note message: %s", note.Message)
	}

	if len(got.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(got.Fixes))
	}

	fix := got.Fixes[0]
	if fix.Title != "Add initializer" {
		t.Errorf("Unexpected fix title: %s", fix.Title)
	}

	if len(fix.Edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(fix.Edits))
	}

	edit := fix.Edits[0]
	if edit.NewText != " = 0" {
		t.Errorf("Expected new_text=' = 0', got %s", edit.NewText)
	}
	if fix.Kind != "QUICK_FIX" {
		t.Errorf("Expected kind QUICK_FIX, got %s", fix.Kind)
	}
	if fix.Applicability != "ALWAYS_SAFE" {
		t.Errorf("Expected applicability ALWAYS_SAFE, got %s", fix.Applicability)
	}
	if fix.IsPreferred {
		t.Errorf("Expected is_preferred to be false")
	}
	if fix.BuildError != "" {
		t.Errorf("Unexpected build error: %s", fix.BuildError)
	}
}

// TestJSONWithoutPositions checks that omitting positions drops line/col from output.
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let x = 42")
	fileID := fs.AddVirtual("test.ts", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevInfo,
		diag.TS2304,
		source.Span{File: fileID, Start: 4, End: 5},
		"Cannot find name 'x'.",
	)
	bag.Add(&d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
		Max:              0,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	got := output.Diagnostics[0]

	if got.Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", got.Location.StartLine)
	}

	if got.Location.StartByte != 4 {
		t.Errorf("Expected start_byte=4, got %d", got.Location.StartByte)
	}
}

// TestJSONMaxLimit checks that Max truncates the diagnostic list.
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("test content")
	fileID := fs.AddVirtual("test.ts", content)

	bag := diag.NewBag(10)

	for i := range 5 {
		d := diag.New(
			diag.SevError,
			diag.TS2304,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)},
			"Cannot find name.",
		)
		bag.Add(&d)
	}

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
		Max:              3,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if output.Count != 3 {
		t.Errorf("Expected count=3 (limited), got %d", output.Count)
	}

	if len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d", len(output.Diagnostics))
	}
}

// TestJSONPathModes checks the different path-formatting modes.
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")

	content := []byte("test")
	fileID := fs.AddVirtual("/home/user/project/src/main.ts", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.TS2304,
		source.Span{File: fileID, Start: 0, End: 1},
		"Cannot find name.",
	)
	bag.Add(&d)

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/main.ts"},
		{"Relative", PathModeRelative, "src/main.ts"},
		{"Basename", PathModeBasename, "main.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := JSONOpts{
				IncludePositions: false,
				PathMode:         tt.pathMode,
				Max:              0,
			}

			err := JSON(&buf, bag, fs, opts)
			if err != nil {
				t.Fatalf("JSON() error: %v", err)
			}

			var output DiagnosticsOutput
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("Invalid JSON output: %v", err)
			}

			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
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
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}

	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	diagJSON := output.Diagnostics[0]
	if len(diagJSON.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(diagJSON.Fixes))
	}

	fixJSON := diagJSON.Fixes[0]
	if len(fixJSON.Edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(fixJSON.Edits))
	}

	editJSON := fixJSON.Edits[0]
	if len(editJSON.BeforeLines) != 1 {
		t.Fatalf("Expected 1 before line, got %d", len(editJSON.BeforeLines))
	}
	if editJSON.BeforeLines[0] != "let a: number = 42 // missing semicolon" {
		t.Errorf("Unexpected before line: %q", editJSON.BeforeLines[0])
	}

	if len(editJSON.AfterLines) != 1 {
		t.Fatalf("Expected 1 after line, got %d", len(editJSON.AfterLines))
	}
	if editJSON.AfterLines[0] != "let a: number = 42; // missing semicolon" {
		t.Errorf("Unexpected after line: %q", editJSON.AfterLines[0])
	}
}
