package ast

import (
	"github.com/vovakirdan/tscheck/internal/source"
)

// Hints provides capacity hints for each arena the Builder owns.
type Hints struct{ Files, Decls, Stmts, Exprs, TypeNodes uint }

// Builder wires together every AST arena plus the shared string interner.
// Tests and the driver construct a tree directly against the Builder; this
// repository has no parser of its own (spec §1/§6 "parsing is out of
// scope" — the binder/checker consume an already-built tree).
type Builder struct {
	Files           *Files
	Decls           *Decls
	Stmts           *Stmts
	Exprs           *Exprs
	TypeNodes       *TypeNodes
	StringsInterner *source.Interner
}

// NewBuilder creates a Builder configured with capacity hints and a shared
// string interner. Zero hint fields fall back to each arena's own default.
// If stringsInterner is nil, a new interner is created.
func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Decls:           NewDecls(hints.Decls),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		TypeNodes:       NewTypeNodes(hints.TypeNodes),
		StringsInterner: stringsInterner,
	}
}

// Intern interns a string and returns its ID.
func (b *Builder) Intern(s string) source.StringID { return b.StringsInterner.Intern(s) }

// NewFile creates a new file.
func (b *Builder) NewFile(sp source.Span, path string) FileID { return b.Files.New(sp, path) }

// PushStmt appends a top-level statement to a file.
func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	f := b.Files.Get(file)
	f.Statements = append(f.Statements, stmt)
}

// NewDecl allocates a declaration node with the given kind-specific payload
// index and returns its ID.
func (b *Builder) NewDecl(kind DeclKind, sp source.Span, mods Modifiers, payload uint32) DeclID {
	return b.Decls.New(kind, sp, mods, payload)
}

// NewStmt allocates a statement node with the given kind-specific payload
// index and returns its ID.
func (b *Builder) NewStmt(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return b.Stmts.New(kind, sp, payload)
}

// NewExpr allocates an expression node with the given kind-specific payload
// index and returns its ID.
func (b *Builder) NewExpr(kind ExprKind, sp source.Span, payload uint32) ExprID {
	return b.Exprs.New(kind, sp, payload)
}

// NewTypeNode allocates a type-node with the given kind-specific payload
// index and returns its ID.
func (b *Builder) NewTypeNode(kind TypeNodeKind, sp source.Span, payload uint32) TypeNodeID {
	return b.TypeNodes.New(kind, sp, payload)
}

// NewIdent builds an identifier expression in one call.
func (b *Builder) NewIdent(sp source.Span, name source.StringID) ExprID {
	idx := b.Exprs.Idents.Allocate(IdentExpr{Name: name})
	return b.NewExpr(ExprIdent, sp, idx)
}

// NewTypeRef builds a type reference node (`Name<Args>`) in one call.
func (b *Builder) NewTypeRef(sp source.Span, name source.StringID, typeArgs []TypeNodeID) TypeNodeID {
	idx := b.TypeNodes.Refs.Allocate(TypeRefNode{Name: name, TypeArgs: typeArgs})
	return b.NewTypeNode(TypeNodeRef, sp, idx)
}

// NewVarDecl builds a `var`/`let`/`const` declaration in one call.
func (b *Builder) NewVarDecl(sp source.Span, mods Modifiers, vd VarDecl) DeclID {
	idx := b.Decls.Vars.Allocate(vd)
	return b.NewDecl(DeclVar, sp, mods, idx)
}

// NewFunctionDecl builds a top-level/namespace function declaration in one call.
func (b *Builder) NewFunctionDecl(sp source.Span, mods Modifiers, fd FunctionDecl) DeclID {
	idx := b.Decls.Functions.Allocate(fd)
	return b.NewDecl(DeclFunction, sp, mods, idx)
}

// NewClassDecl builds a class declaration in one call.
func (b *Builder) NewClassDecl(sp source.Span, mods Modifiers, cd ClassDecl) DeclID {
	idx := b.Decls.Classes.Allocate(cd)
	return b.NewDecl(DeclClass, sp, mods, idx)
}

// NewInterfaceDecl builds an interface declaration in one call.
func (b *Builder) NewInterfaceDecl(sp source.Span, mods Modifiers, id InterfaceDecl) DeclID {
	idx := b.Decls.Interfaces.Allocate(id)
	return b.NewDecl(DeclInterface, sp, mods, idx)
}

// NewTypeAliasDecl builds a `type Name<T> = ...` declaration in one call.
func (b *Builder) NewTypeAliasDecl(sp source.Span, mods Modifiers, ta TypeAliasDecl) DeclID {
	idx := b.Decls.TypeAliases.Allocate(ta)
	return b.NewDecl(DeclTypeAlias, sp, mods, idx)
}

// NewEnumDecl builds an enum declaration in one call.
func (b *Builder) NewEnumDecl(sp source.Span, mods Modifiers, ed EnumDecl) DeclID {
	idx := b.Decls.Enums.Allocate(ed)
	return b.NewDecl(DeclEnum, sp, mods, idx)
}

// NewModuleDecl builds a namespace/module declaration in one call.
func (b *Builder) NewModuleDecl(sp source.Span, mods Modifiers, md ModuleDecl) DeclID {
	idx := b.Decls.Modules.Allocate(md)
	return b.NewDecl(DeclModule, sp, mods, idx)
}

// NewImportDecl builds an import declaration in one call.
func (b *Builder) NewImportDecl(sp source.Span, im ImportDecl) DeclID {
	idx := b.Decls.Imports.Allocate(im)
	return b.NewDecl(DeclImport, sp, 0, idx)
}

// NewExportDecl builds an export declaration in one call.
func (b *Builder) NewExportDecl(sp source.Span, ex ExportDecl) DeclID {
	idx := b.Decls.Exports.Allocate(ex)
	return b.NewDecl(DeclExport, sp, 0, idx)
}

// NewParam allocates a parameter and returns its ID.
func (b *Builder) NewParam(p ParamDecl) ParamID {
	return ParamID(b.Decls.Params.Allocate(p))
}

// NewTypeParam allocates a type-parameter declaration and returns its ID.
func (b *Builder) NewTypeParam(tp TypeParam) TypeParamID {
	return TypeParamID(b.Decls.TypeParams.Allocate(tp))
}

// NewHeritageClause allocates an `extends`/`implements` clause entry and returns its ID.
func (b *Builder) NewHeritageClause(h HeritageClause) HeritageID {
	return HeritageID(b.Decls.Heritage.Allocate(h))
}

// NewMemberDecl builds a class/interface/type-literal member declaration in
// one call; members share DeclMember regardless of their container.
func (b *Builder) NewMemberDecl(sp source.Span, mods Modifiers, md MemberDecl) DeclID {
	idx := b.Decls.Members.Allocate(md)
	return b.NewDecl(DeclMember, sp, mods, idx)
}

// GetMember resolves a DeclID allocated by NewMemberDecl back to its payload.
func (b *Builder) GetMember(id DeclID) *MemberDecl {
	d := b.Decls.Get(id)
	return b.Decls.Members.Get(d.Payload)
}

// NewBindingElem allocates a destructuring-pattern element and returns its ID.
func (b *Builder) NewBindingElem(be BindingElem) BindingElemID {
	return BindingElemID(b.Decls.BindingElems.Allocate(be))
}

// NewDecorator allocates a decorator application and returns its ID.
func (b *Builder) NewDecorator(d Decorator) DecoratorID {
	return DecoratorID(b.Decls.Decorators.Allocate(d))
}

// NewEnumMember allocates an enum member and returns its ID.
func (b *Builder) NewEnumMember(em EnumMember) EnumMemberID {
	return EnumMemberID(b.Decls.EnumMembers.Allocate(em))
}
