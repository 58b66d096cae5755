package modres

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// flatExports is the fully chased export surface of one module: every name
// reachable through its own exports, its named re-exports, and its wildcard
// re-exports, plus its `export =` target if any.
type flatExports struct {
	Names        map[source.StringID]bind.SymbolID
	Default      bind.SymbolID
	ExportEquals bind.SymbolID
}

func newFlatExports() *flatExports {
	return &flatExports{Names: make(map[source.StringID]bind.SymbolID)}
}

// moduleExportsFor returns the unflattened bind.ModuleExports for a module
// path, checking tracked files first and then the ambient/augmentation
// index BuildAmbientIndex populated.
func (r *Resolver) moduleExportsFor(p string) *bind.ModuleExports {
	if f := r.fileAt(p); f != nil && f.Binder != nil {
		if me, ok := f.Binder.ExportsByPath[normalizeModulePath(p)]; ok {
			return me
		}
	}
	if me, ok := r.ambient[p]; ok {
		return me
	}
	return nil
}

// flatten implements the cross-file export chase with cycle detection
// (spec "named re-exports and wildcard re-exports are chased with cycle
// detection"), memoized per path for the run.
func (r *Resolver) flatten(p string) *flatExports {
	if fe, ok := r.flattened[p]; ok {
		return fe
	}
	fe := r.chase(p, make(map[string]bool))
	r.flattened[p] = fe
	return fe
}

func (r *Resolver) chase(p string, visiting map[string]bool) *flatExports {
	fe := newFlatExports()
	if visiting[p] {
		// cyclic module graph: absorbed quietly (spec §7 "Internal
		// computation failures ... propagate quietly"), not an ERROR
		// diagnostic of its own.
		return fe
	}
	visiting[p] = true
	defer delete(visiting, p)

	me := r.moduleExportsFor(p)
	if me == nil {
		return fe
	}

	for _, name := range me.Own.Names() {
		id, _ := me.Own.Get(name)
		fe.Names[name] = id
	}
	if def, ok := fe.Names[r.Strs.Intern("default")]; ok {
		fe.Default = def
	}
	fe.ExportEquals = me.ExportEquals

	for _, reexp := range me.Reexports {
		spec, _ := r.Strs.Lookup(reexp.Specifier)
		res := r.resolveSpecifier(p, spec)
		if !res.ok {
			continue
		}
		target := r.chase(res.path, visiting)
		name, _ := r.Strs.Lookup(reexp.Name)
		if id, ok := target.Names[reexp.Name]; ok {
			fe.Names[reexp.Alias] = id
		} else if name == "default" {
			if target.Default.IsValid() {
				fe.Names[reexp.Alias] = target.Default
			}
		}
	}

	for _, wc := range me.WildcardReexports {
		spec, _ := r.Strs.Lookup(wc.Specifier)
		res := r.resolveSpecifier(p, spec)
		if !res.ok {
			continue
		}
		target := r.chase(res.path, visiting)
		for name, id := range target.Names {
			if name == r.Strs.Intern("default") {
				continue // `export *` never re-exports a default (ES module semantics)
			}
			if _, exists := fe.Names[name]; exists {
				continue // an explicit own/named export always wins over a wildcard one
			}
			if wc.Namespace != source.NoStringID {
				continue // `export * as ns` exposes a namespace object, not flat names
			}
			fe.Names[name] = id
		}
	}

	for _, extra := range r.augment[p] {
		for _, name := range extra.Own.Names() {
			if id, ok := extra.Own.Get(name); ok {
				fe.Names[name] = id
			}
		}
	}

	return fe
}

// ResolveCrossFileExport implements resolve_cross_file_export(specifier,
// name) → Option<SymbolId>.
func (r *Resolver) ResolveCrossFileExport(fromPath, specifier string, name source.StringID) (bind.SymbolID, bool) {
	res := r.resolveSpecifier(fromPath, specifier)
	if !res.ok {
		return bind.NoSymbolID, false
	}
	fe := r.flatten(res.path)
	id, ok := fe.Names[name]
	return id, ok
}

// ResolveCrossFileNamespaceExports implements
// resolve_cross_file_namespace_exports(specifier) → Option<SymbolTable>,
// returned here as the flattened name map rather than a *bind.SymbolTable
// since namespace import callers only ever need name→symbol lookups.
func (r *Resolver) ResolveCrossFileNamespaceExports(fromPath, specifier string) (map[source.StringID]bind.SymbolID, bool) {
	res := r.resolveSpecifier(fromPath, specifier)
	if !res.ok {
		return nil, false
	}
	return r.flatten(res.path).Names, true
}

// CheckImportDecl validates one import declaration's specifier and named
// bindings (spec §4.10 "Behaviour" + diagnostics list), reporting through
// reporter and returning whether the module resolved at all.
func (r *Resolver) CheckImportDecl(reporter diag.Reporter, fromPath string, im *ast.ImportDecl, sp source.Span) bool {
	if im == nil {
		return false
	}
	res := r.resolveSpecifier(fromPath, im.ModuleSpecifier)
	if !res.ok {
		r.reportModuleNotFound(reporter, im.ModuleSpecifier, sp)
		return false
	}
	r.reportExtensionDiagnostics(reporter, im.ModuleSpecifier, res, sp)

	fe := r.flatten(res.path)

	if im.DefaultName != source.NoStringID && !im.EqualsRequire {
		if !fe.Default.IsValid() {
			if !r.Opts.EsModuleInterop && !r.Opts.AllowSyntheticDefaultImports {
				if fe.ExportEquals.IsValid() {
					diag.ReportError(reporter, diag.TS1259, sp,
						"module can only be default-imported using the 'esModuleInterop' flag").Emit()
				} else {
					diag.ReportError(reporter, diag.TS1192, sp,
						"module '"+im.ModuleSpecifier+"' has no default export").Emit()
				}
			}
		}
	}

	for _, spec := range im.Named {
		if _, ok := fe.Names[spec.ImportedName]; ok {
			continue
		}
		name, _ := r.Strs.Lookup(spec.ImportedName)
		b := diag.ReportError(reporter, diag.TS2305, sp,
			"module '"+im.ModuleSpecifier+"' has no exported member '"+name+"'")
		if fe.Default.IsValid() {
			b.WithNote(sp, "did you mean to use 'import "+name+" from \""+im.ModuleSpecifier+"\"' instead?")
		}
		b.Emit()
	}
	return true
}

// CheckExportDecl validates a re-exporting export declaration's specifier
// and named members the same way CheckImportDecl validates an import.
func (r *Resolver) CheckExportDecl(reporter diag.Reporter, fromPath string, ed *ast.ExportDecl, sp source.Span) bool {
	if ed == nil || ed.ModuleSpecifier == "" {
		return true
	}
	res := r.resolveSpecifier(fromPath, ed.ModuleSpecifier)
	if !res.ok {
		r.reportModuleNotFound(reporter, ed.ModuleSpecifier, sp)
		return false
	}
	r.reportExtensionDiagnostics(reporter, ed.ModuleSpecifier, res, sp)
	if ed.ExportKind != ast.ExportNamed {
		return true
	}
	fe := r.flatten(res.path)
	for _, spec := range ed.Named {
		if _, ok := fe.Names[spec.ImportedName]; ok {
			continue
		}
		name, _ := r.Strs.Lookup(spec.ImportedName)
		diag.ReportError(reporter, diag.TS2305, sp,
			"module '"+ed.ModuleSpecifier+"' has no exported member '"+name+"'").Emit()
	}
	return true
}
