package bind

import "github.com/vovakirdan/tscheck/internal/source"

// FileFeatures records per-file syntax facts the checker consults without
// re-scanning the AST (spec "file-feature bits (has-generators,
// has-async-generators, has-decorators, has-using, has-await-using)").
type FileFeatures struct {
	HasGenerators      bool
	HasAsyncGenerators bool
	HasDecorators      bool
	HasUsing           bool
	HasAwaitUsing      bool
}

// Reexport records a `export { name [as alias] } from specifier` entry.
type Reexport struct {
	Specifier source.StringID
	Name      source.StringID
	Alias     source.StringID // equals Name when no `as` clause is present
}

// WildcardReexport records a `export * from specifier` or
// `export * as ns from specifier` entry.
type WildcardReexport struct {
	Specifier source.StringID
	Namespace source.StringID // NoStringID for a bare `export *`
}

// ModuleExports is the export surface of one file: its own top-level
// exported symbols plus the re-export directives a resolver must chase.
type ModuleExports struct {
	Path              string
	Own               *SymbolTable
	Reexports         []Reexport
	WildcardReexports []WildcardReexport
	// ExportEquals holds the symbol assigned via `export =`, when present;
	// a module with it set resolves as that single entity rather than a
	// named-exports namespace (spec "module_resolves_to_non_module_entity").
	ExportEquals SymbolID
}

// NewModuleExports constructs an export table for a module at path.
func NewModuleExports(path string) *ModuleExports {
	return &ModuleExports{Path: path, Own: NewSymbolTable()}
}

// Binder is the full read-only binder state the checker is handed for one
// file, plus the cross-file bookkeeping the module resolver consults. A real
// driver builds this ahead of checking; this package only shapes the result
// (spec "Binder state": "per-symbol information ..., plus file-level
// structures: file_locals, current_scope, per-file module_exports (keyed by
// file path and by specifier), reexports and wildcard_reexports tables,
// per-node flow-node map, per-node symbol map, module-augmentation target
// map, module-export-equals-non-module map, declaration arenas for
// cross-arena symbols, and file-feature bits").
type Binder struct {
	Symbols *Symbols
	Flow    *FlowGraph

	// FileLocals is the top-level symbol table of the current file.
	FileLocals *SymbolTable

	// ExportsByPath and ExportsBySpecifier both point at the same
	// ModuleExports values; the binder fills both so the resolver can look
	// a module up either by its resolved file path or by the specifier text
	// a particular import used to reach it.
	ExportsByPath      map[string]*ModuleExports
	ExportsBySpecifier map[source.StringID]*ModuleExports

	// ModuleAugmentations maps a `declare module "spec" { ... }` augmentation
	// block's owning symbol to the specifier it augments.
	ModuleAugmentations map[SymbolID]source.StringID

	// ExportEqualsNonModule marks specifiers whose target resolves to a
	// non-module value via `export =` (spec "module_export_equals_non_module
	// map"), so the resolver treats them as non-module-resolving imports.
	ExportEqualsNonModule map[source.StringID]bool

	Features FileFeatures
}

// NewBinder constructs an empty binder state for one file.
func NewBinder() *Binder {
	return &Binder{
		Symbols:               NewSymbols(0),
		Flow:                  NewFlowGraph(0),
		FileLocals:            NewSymbolTable(),
		ExportsByPath:         make(map[string]*ModuleExports),
		ExportsBySpecifier:    make(map[source.StringID]*ModuleExports),
		ModuleAugmentations:   make(map[SymbolID]source.StringID),
		ExportEqualsNonModule: make(map[source.StringID]bool),
	}
}

// ExportsForPath returns the ModuleExports for a resolved file path,
// creating one if absent.
func (b *Binder) ExportsForPath(path string) *ModuleExports {
	if m, ok := b.ExportsByPath[path]; ok {
		return m
	}
	m := NewModuleExports(path)
	b.ExportsByPath[path] = m
	return m
}
