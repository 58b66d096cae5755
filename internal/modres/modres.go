// Package modres is the module / cross-file resolver (spec §4.10): it turns
// an import/export specifier into a target file, chases re-export and
// wildcard-re-export chains into a flattened export surface with cycle
// detection, merges `export =` namespaces, and matches ambient modules and
// module augmentations across every file in a run. It owns exactly the
// module-shaped fields internal/bind.Binder declares but leaves unpopulated
// (ExportsByPath, ExportsBySpecifier, ModuleAugmentations,
// ExportEqualsNonModule): building those tables from each file's import/
// export declarations is this package's job, not the per-file binder's.
package modres

import (
	"path"
	"strings"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/source"
)

// ModuleKind mirrors the compiler-option axis that decides which "cannot
// find module" flavour is reported (spec §4.10: "TS2307 ... TS2792 when the
// module kind is classic/AMD/UMD/System/ES-modules style").
type ModuleKind uint8

const (
	ModuleESNext ModuleKind = iota
	ModuleNode
	ModuleClassic
	ModuleAMD
	ModuleUMD
	ModuleSystem
)

func (k ModuleKind) usesClassicResolution() bool {
	switch k {
	case ModuleClassic, ModuleAMD, ModuleUMD, ModuleSystem:
		return true
	default:
		return false
	}
}

// Options carries the subset of compiler options that change module
// resolution diagnostics (spec §6 "Compiler options").
type Options struct {
	Kind                        ModuleKind
	EsModuleInterop             bool
	AllowSyntheticDefaultImports bool
	ResolveJsonModule           bool
	// RequireExplicitExtensions reports TS2834 (never TS2835) when a relative
	// specifier omits the file extension the resolved file actually has
	// (Node16/NodeNext-style ESM resolution).
	RequireExplicitExtensions bool
}

// File is the minimal per-file context the resolver needs: its own path,
// its parsed top-level statements, and the bind.Binder the driver allocated
// for it (shared with the checker; this package fills in the module-shaped
// fields on it).
type File struct {
	ID      ast.FileID
	Path    string
	Binder  *bind.Binder
}

// Resolver is the module/cross-file resolver for one checking run. It is
// not safe for concurrent use except via BuildAmbientIndex, which owns its
// own internal synchronization (spec §5: "Different source files may be
// checked in parallel only if each owns an independent Checker Context";
// module resolution is a shared, single-owner pre-pass ahead of that).
type Resolver struct {
	Builder *ast.Builder
	Strs    *source.Interner
	Opts    Options

	byPath map[string]*File
	byID   map[ast.FileID]*File

	// ambient holds brand-new virtual modules introduced by
	// `declare module "spec" { ... }` where spec does not match any real
	// file (spec "Ambient modules (declared module \"name\")").
	ambient map[string]*bind.ModuleExports
	// augment holds extra export surfaces contributed by a
	// `declare module "spec" { ... }` that augments an existing real
	// module (spec "module augmentations").
	augment map[string][]*bind.ModuleExports

	// resolved/resolvedErr are the resolved-module and resolved-module-error
	// maps: (fromPath, specifier) caches so a repeated import of the same
	// specifier is not re-resolved from scratch and an already-diagnosed
	// miss is not re-walked.
	resolved    map[resolveKey]string
	resolvedErr map[resolveKey]bool

	// flattened memoizes chase() per module path for the lifetime of the
	// resolver (spec "Cross-file export chain" + "deduplicated across the
	// whole invocation").
	flattened map[string]*flatExports

	// reportedModules dedups TS2307-family diagnostics per module key
	// (spec "each module key emits TS2307-family at most once"), a
	// coarser grain than diag.DedupReporter's (code, severity, span, message) key so it is
	// tracked here rather than by wrapping the Reporter.
	reportedModules map[string]bool
}

type resolveKey struct {
	from      string
	specifier string
}

// New constructs a Resolver over the given files. Each File's Binder must be
// non-nil; PopulateExports fills its module-shaped fields.
func New(builder *ast.Builder, strs *source.Interner, opts Options, files []*File) *Resolver {
	r := &Resolver{
		Builder:         builder,
		Strs:            strs,
		Opts:            opts,
		byPath:          make(map[string]*File, len(files)),
		byID:            make(map[ast.FileID]*File, len(files)),
		ambient:         make(map[string]*bind.ModuleExports),
		augment:         make(map[string][]*bind.ModuleExports),
		resolved:        make(map[resolveKey]string),
		resolvedErr:     make(map[resolveKey]bool),
		flattened:       make(map[string]*flatExports),
		reportedModules: make(map[string]bool),
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		r.byPath[normalizeModulePath(f.Path)] = f
		r.byID[f.ID] = f
	}
	return r
}

func normalizeModulePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// fileAt looks up a tracked file by its resolved module path.
func (r *Resolver) fileAt(p string) *File {
	return r.byPath[normalizeModulePath(p)]
}

// PopulateExports walks every tracked file's top-level declarations and
// fills its Binder's module-shaped fields (own exports, reexports,
// wildcard_reexports, export=). It must run once, before any Resolve* call,
// and before BuildAmbientIndex.
func (r *Resolver) PopulateExports() {
	for _, f := range r.byPath {
		r.populateFileExports(f)
	}
}

func (r *Resolver) populateFileExports(f *File) {
	if f == nil || f.Binder == nil {
		return
	}
	exports := f.Binder.ExportsForPath(normalizeModulePath(f.Path))
	file := r.Builder.Files.Get(f.ID)
	if file == nil {
		return
	}
	r.walkBodyExports(f, file.Statements, exports)
}

// walkBodyExports fills exports from a sequence of top-level statements,
// shared between a real file's body and an ambient module block's body.
func (r *Resolver) walkBodyExports(f *File, stmts []ast.StmtID, exports *bind.ModuleExports) {
	for _, sid := range stmts {
		stmt := r.Builder.Stmts.Get(sid)
		if stmt == nil || stmt.Kind != ast.StmtDecl {
			continue
		}
		ds := r.Builder.Stmts.Decls.Get(stmt.Payload)
		if ds == nil {
			continue
		}
		r.collectDecl(f, ds.Decl, exports)
	}
}

func (r *Resolver) collectDecl(f *File, did ast.DeclID, exports *bind.ModuleExports) {
	decl := r.Builder.Decls.Get(did)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclExport:
		r.collectExportDecl(f, decl, exports)
	case ast.DeclVar, ast.DeclFunction, ast.DeclClass, ast.DeclInterface, ast.DeclTypeAlias, ast.DeclEnum, ast.DeclModule:
		if decl.Modifiers.Has(ast.ModExport) {
			name, flags := declNameAndFlags(r.Builder, decl)
			if decl.Modifiers.Has(ast.ModDefault) {
				name = r.Strs.Intern("default")
			}
			r.defineOwnExport(f, exports, name, flags, did)
		}
	}
}

func declNameAndFlags(b *ast.Builder, decl *ast.Decl) (source.StringID, bind.SymbolFlags) {
	switch decl.Kind {
	case ast.DeclVar:
		vd := b.Decls.Vars.Get(decl.Payload)
		return vd.Name, bind.FlagValue | bind.FlagVariable
	case ast.DeclFunction:
		fd := b.Decls.Functions.Get(decl.Payload)
		return fd.Name, bind.FlagValue | bind.FlagFunction
	case ast.DeclClass:
		cd := b.Decls.Classes.Get(decl.Payload)
		return cd.Name, bind.FlagValue | bind.FlagType | bind.FlagClass
	case ast.DeclInterface:
		id := b.Decls.Interfaces.Get(decl.Payload)
		return id.Name, bind.FlagType | bind.FlagInterface
	case ast.DeclTypeAlias:
		ta := b.Decls.TypeAliases.Get(decl.Payload)
		return ta.Name, bind.FlagType | bind.FlagTypeAlias
	case ast.DeclEnum:
		ed := b.Decls.Enums.Get(decl.Payload)
		return ed.Name, bind.FlagValue | bind.FlagType | bind.FlagEnum
	case ast.DeclModule:
		md := b.Decls.Modules.Get(decl.Payload)
		return md.Name, bind.FlagNamespaceModule
	}
	return source.NoStringID, 0
}

func (r *Resolver) defineOwnExport(f *File, exports *bind.ModuleExports, name source.StringID, flags bind.SymbolFlags, did ast.DeclID) {
	if exports == nil || exports.Own == nil || name == source.NoStringID {
		return
	}
	sym := bind.Symbol{
		Name:  name,
		Flags: flags | bind.FlagExport,
		File:  f.sourceID(),
	}
	if did.IsValid() {
		sym.Declarations = []ast.DeclID{did}
		sym.ValueDeclaration = did
	}
	id := f.Binder.Symbols.New(sym)
	exports.Own.Set(name, id)
}

// sourceID adapts ast.FileID to the source.FileID the bind.Symbol.File field
// expects; the two spaces share numbering in this codebase's single-binder-
// per-file model, so the conversion is a plain cast.
func (f *File) sourceID() source.FileID { return source.FileID(f.ID) }

func (r *Resolver) collectExportDecl(f *File, decl *ast.Decl, exports *bind.ModuleExports) {
	ed := r.Builder.Decls.Exports.Get(decl.Payload)
	if ed == nil {
		return
	}
	switch ed.ExportKind {
	case ast.ExportNamed:
		if ed.ModuleSpecifier == "" {
			// `export { a, b as c }` re-exporting file-local bindings: the
			// names resolve through the file's own local scope, which this
			// package does not model (that is internal/bind's job once a
			// real binder walks local declarations). Record each alias as
			// its own symbol pointing at nothing resolvable yet; a driver
			// wiring a real local-symbol table can replace this with a
			// lookup against FileLocals.
			for _, spec := range ed.Named {
				exportName := spec.LocalName
				if exportName == source.NoStringID {
					exportName = spec.ImportedName
				}
				r.defineOwnExport(f, exports, exportName, bind.FlagValue|bind.FlagAlias, ast.NoDeclID)
			}
			return
		}
		for _, spec := range ed.Named {
			alias := spec.LocalName
			if alias == source.NoStringID {
				alias = spec.ImportedName
			}
			exports.Reexports = append(exports.Reexports, bind.Reexport{
				Specifier: r.Strs.Intern(ed.ModuleSpecifier),
				Name:      spec.ImportedName,
				Alias:     alias,
			})
		}
	case ast.ExportStar:
		exports.WildcardReexports = append(exports.WildcardReexports, bind.WildcardReexport{
			Specifier: r.Strs.Intern(ed.ModuleSpecifier),
		})
	case ast.ExportStarAs:
		exports.WildcardReexports = append(exports.WildcardReexports, bind.WildcardReexport{
			Specifier: r.Strs.Intern(ed.ModuleSpecifier),
			Namespace: ed.NamespaceAs,
		})
	case ast.ExportDefaultExpr, ast.ExportDefaultDecl:
		sym := bind.Symbol{
			Name:  r.Strs.Intern("default"),
			Flags: bind.FlagValue | bind.FlagExport,
			File:  f.sourceID(),
		}
		if ed.ExportKind == ast.ExportDefaultDecl {
			sym.Declarations = []ast.DeclID{ed.DefaultDecl}
		}
		id := f.Binder.Symbols.New(sym)
		exports.Own.Set(sym.Name, id)
	case ast.ExportEquals, ast.ExportAssignVar:
		sym := bind.Symbol{
			Name:  r.Strs.Intern("export="),
			Flags: bind.FlagValue | bind.FlagExport,
			File:  f.sourceID(),
		}
		id := f.Binder.Symbols.New(sym)
		exports.ExportEquals = id
	}
}

// ModuleHasExportEquals reports whether the module at path uses `export =`
// (spec "module_has_export_equals(specifier)").
func (r *Resolver) ModuleHasExportEquals(path string) bool {
	fe := r.flatten(path)
	return fe != nil && fe.ExportEquals.IsValid()
}

// ModuleResolvesToNonModuleEntity reports whether importing path as a
// namespace would actually hand back a single non-module value because of
// `export =` (spec "module_resolves_to_non_module_entity(specifier)").
func (r *Resolver) ModuleResolvesToNonModuleEntity(path string) bool {
	return r.ModuleHasExportEquals(path)
}
