package session

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/source"
)

// bindFileLocals is the local-scope binding pass internal/bind's own doc
// comment disclaims ("this package only defines the read-only structures
// the checker consumes"): it walks one file's top-level statements and
// fills binder.FileLocals, the session's DeclSymbol/DeclDef tables, and the
// import-alias links crossFileResolver needs — all file-scoped only, since
// no pass in this repository builds a real nested-scope chain yet (a
// function-local shadowing the same name resolves to the file-level
// declaration instead; see crossFileResolver's doc comment).
//
// It must run after internal/modres.PopulateExports/BuildAmbientIndex:
// import-alias wiring calls ResolveCrossFileExport/ResolveCrossFileNamespaceExports,
// which need every file's export surface already built.
func (s *Session) bindFileLocals(fs *fileState) {
	file := s.Builder.Files.Get(fs.id)
	if file == nil {
		return
	}
	ownExports := fs.binder.ExportsByPath[normalizeFilePath(fs.path)]
	for _, sid := range file.Statements {
		stmt := s.Builder.Stmts.Get(sid)
		if stmt == nil || stmt.Kind != ast.StmtDecl {
			continue
		}
		ds := s.Builder.Stmts.Decls.Get(stmt.Payload)
		if ds == nil {
			continue
		}
		s.bindTopLevelDecl(fs, ds.Decl, ownExports)
	}
}

func (s *Session) bindTopLevelDecl(fs *fileState, did ast.DeclID, ownExports *bind.ModuleExports) {
	decl := s.Builder.Decls.Get(did)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclImport:
		s.bindImportDecl(fs, did, decl)
	case ast.DeclExport:
		s.bindExportDecl(fs, did, decl, ownExports)
	case ast.DeclVar, ast.DeclFunction, ast.DeclClass, ast.DeclInterface, ast.DeclTypeAlias, ast.DeclEnum, ast.DeclModule:
		s.bindNamedDecl(fs, did, decl, ownExports)
	}
}

// bindNamedDecl registers the canonical symbol for an ordinary top-level
// declaration (`class Foo {}`, `export class Foo {}`, ...). When the
// declaration is exported under its own name, the symbol internal/modres
// already allocated for the export table is reused verbatim rather than
// minted twice, so a same-file reference and a cross-file import of the
// same export agree on one SymbolID.
func (s *Session) bindNamedDecl(fs *fileState, did ast.DeclID, decl *ast.Decl, ownExports *bind.ModuleExports) {
	name, flags := declNameAndFlags(s.Builder, decl)
	if name == source.NoStringID {
		return // destructuring var-decl pattern or similarly nameless form; not modeled
	}

	var id bind.SymbolID
	if decl.Modifiers.Has(ast.ModExport) && !decl.Modifiers.Has(ast.ModDefault) && ownExports != nil {
		if existing, ok := ownExports.Own.Get(name); ok {
			id = existing
		}
	}
	if !id.IsValid() {
		id = s.Symbols.New(bind.Symbol{
			Name: name, Flags: flags, File: fs.sourceFileID(),
			Declarations: []ast.DeclID{did}, ValueDeclaration: did,
		})
	}
	fs.binder.FileLocals.Set(name, id)
	fs.declSym[did] = id
	s.bindDefIfNominal(fs, did, decl.Kind, name, id)
}

// bindDefIfNominal creates (or extends, on repeated declarations of the same
// name within one file) the defs.Store entry a class/interface/alias/enum/
// module symbol belongs to. Cross-file declaration merging (e.g. augmenting
// an interface declared in another file) is not modeled — scope is keyed by
// file only.
func (s *Session) bindDefIfNominal(fs *fileState, did ast.DeclID, kind ast.DeclKind, name source.StringID, sym bind.SymbolID) {
	var dkind defs.Kind
	switch kind {
	case ast.DeclClass:
		dkind = defs.KindClass
	case ast.DeclInterface:
		dkind = defs.KindInterface
	case ast.DeclTypeAlias:
		dkind = defs.KindAlias
	case ast.DeclEnum:
		dkind = defs.KindEnum
	case ast.DeclModule:
		dkind = defs.KindModule
	default:
		return
	}
	defID := s.Defs.CreateDef(name, uint32(fs.id), dkind, did)
	fs.declDef[did] = defID
	s.symToDef[sym] = defID
}

// declNameAndFlags extracts a top-level declaration's name and symbol flags,
// the same per-kind mapping internal/modres.declNameAndFlags uses for the
// export table (duplicated here rather than exported across packages, since
// this pass additionally needs it for non-exported declarations modres never
// looks at).
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

// bindExportDecl handles `export { a, b as c } [from spec]`, `export * [as
// ns] from spec`, and `export default ...`. Named/wildcard re-exports were
// already folded into ownExports by internal/modres; this pass's job is to
// (a) run the specifier/member diagnostics modres's checker entry points
// exist for but nothing had yet called, and (b) give a named default export
// its ordinary file-local name back, which modres's export-table pass
// deliberately discards (it only needs the "default" key).
func (s *Session) bindExportDecl(fs *fileState, did ast.DeclID, decl *ast.Decl, ownExports *bind.ModuleExports) {
	ed := s.Builder.Decls.Exports.Get(decl.Payload)
	if ed == nil {
		return
	}
	if ed.ModuleSpecifier != "" {
		s.Modres.CheckExportDecl(s.Report, fs.path, ed, decl.Span)
	}
	if ed.ExportKind != ast.ExportDefaultDecl || !ed.DefaultDecl.IsValid() || ownExports == nil {
		return
	}
	inner := s.Builder.Decls.Get(ed.DefaultDecl)
	if inner == nil {
		return
	}
	name, _ := declNameAndFlags(s.Builder, inner)
	if name == source.NoStringID {
		return // `export default class {}`/`export default function () {}` with no name
	}
	defaultSym, ok := ownExports.Own.Get(s.Strs.Intern("default"))
	if !ok {
		return
	}
	fs.binder.FileLocals.Set(name, defaultSym)
	fs.declSym[ed.DefaultDecl] = defaultSym
	s.bindDefIfNominal(fs, ed.DefaultDecl, inner.Kind, name, defaultSym)
}

// bindImportDecl registers one alias symbol per binding an import
// declaration introduces (default/namespace/named) and resolves each one
// against internal/modres immediately, now that every file's exports are
// populated.
func (s *Session) bindImportDecl(fs *fileState, did ast.DeclID, decl *ast.Decl) {
	im := s.Builder.Decls.Imports.Get(decl.Payload)
	if im == nil {
		return
	}
	s.Modres.CheckImportDecl(s.Report, fs.path, im, decl.Span)
	specifier := s.Strs.Intern(im.ModuleSpecifier)

	newAlias := func(local source.StringID) bind.SymbolID {
		return s.Symbols.New(bind.Symbol{
			Name: local, Flags: bind.FlagAlias | bind.FlagImport | bind.FlagValue | bind.FlagType,
			File: fs.sourceFileID(), ImportModule: specifier,
		})
	}

	if im.DefaultName != source.NoStringID && !im.EqualsRequire {
		id := newAlias(im.DefaultName)
		fs.binder.FileLocals.Set(im.DefaultName, id)
		if target, ok := s.Modres.ResolveCrossFileExport(fs.path, im.ModuleSpecifier, s.Strs.Intern("default")); ok {
			s.aliasTarget[id] = target
		}
	}

	if im.NamespaceName != source.NoStringID {
		sym := bind.Symbol{
			Name: im.NamespaceName, Flags: bind.FlagNamespaceModule | bind.FlagImport,
			File: fs.sourceFileID(), ImportModule: specifier,
		}
		if names, ok := s.Modres.ResolveCrossFileNamespaceExports(fs.path, im.ModuleSpecifier); ok {
			tbl := bind.NewSymbolTable()
			for n, id := range names {
				tbl.Set(n, id)
			}
			sym.Exports = tbl
		}
		id := s.Symbols.New(sym)
		fs.binder.FileLocals.Set(im.NamespaceName, id)
	}

	for _, spec := range im.Named {
		local := spec.LocalName
		if local == source.NoStringID {
			local = spec.ImportedName
		}
		id := newAlias(local)
		fs.binder.FileLocals.Set(local, id)
		if target, ok := s.Modres.ResolveCrossFileExport(fs.path, im.ModuleSpecifier, spec.ImportedName); ok {
			s.aliasTarget[id] = target
		}
	}
}

// resolveExprSymbol answers the checker's ExprSymbol hook: a bare
// identifier resolves against the file's own top-level bindings (see
// crossFileResolver's doc comment for why nested scopes aren't modeled).
func (s *Session) resolveExprSymbol(fs *fileState, id ast.ExprID) (bind.SymbolID, bool) {
	expr := s.Builder.Exprs.Get(id)
	if expr == nil || expr.Kind != ast.ExprIdent {
		return bind.NoSymbolID, false
	}
	ident := s.Builder.Exprs.Idents.Get(expr.Payload)
	if ident == nil {
		return bind.NoSymbolID, false
	}
	sym, ok := fs.binder.FileLocals.Get(ident.Name)
	if !ok {
		return bind.NoSymbolID, false
	}
	return s.resolveAlias(sym), true
}

// sourceFileID adapts ast.FileID to the source.FileID bind.Symbol.File
// expects; the two ID spaces share numbering in this codebase's
// single-binder-per-file model (see internal/modres.File.sourceID, which
// does the same conversion for the same reason).
func (fs *fileState) sourceFileID() source.FileID { return source.FileID(fs.id) }
