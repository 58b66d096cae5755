package ast

import (
	"github.com/vovakirdan/tscheck/internal/source"
)

// Decl is the thin, uniform record every declaration form lives behind: a
// kind tag, span, and an index into the kind-specific payload arena. Class
// members, interface members, and object-type-literal members all share
// DeclMember so the checker's "Object" type shape (spec §3: name, type,
// optional, readonly, method flag) can be built directly from one node kind
// regardless of which syntactic container it appeared in.
type Decl struct {
	Kind      DeclKind
	Span      source.Span
	Modifiers Modifiers
	Payload   uint32
}

// Decls owns every per-kind declaration payload arena.
type Decls struct {
	Arena        *Arena[Decl]
	Vars         *Arena[VarDecl]
	Functions    *Arena[FunctionDecl]
	Classes      *Arena[ClassDecl]
	Interfaces   *Arena[InterfaceDecl]
	TypeAliases  *Arena[TypeAliasDecl]
	Enums        *Arena[EnumDecl]
	Modules      *Arena[ModuleDecl]
	Imports      *Arena[ImportDecl]
	Exports      *Arena[ExportDecl]
	Params       *Arena[ParamDecl]
	Members      *Arena[MemberDecl]
	TypeParams   *Arena[TypeParam]
	Heritage     *Arena[HeritageClause]
	Decorators   *Arena[Decorator]
	EnumMembers  *Arena[EnumMember]
	BindingElems *Arena[BindingElem]
}

// NewDecls allocates the declaration arenas with the given capacity hint.
func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Decls{
		Arena:        NewArena[Decl](capHint),
		Vars:         NewArena[VarDecl](capHint),
		Functions:    NewArena[FunctionDecl](capHint),
		Classes:      NewArena[ClassDecl](capHint),
		Interfaces:   NewArena[InterfaceDecl](capHint),
		TypeAliases:  NewArena[TypeAliasDecl](capHint),
		Enums:        NewArena[EnumDecl](capHint),
		Modules:      NewArena[ModuleDecl](capHint),
		Imports:      NewArena[ImportDecl](capHint),
		Exports:      NewArena[ExportDecl](capHint),
		Params:       NewArena[ParamDecl](capHint),
		Members:      NewArena[MemberDecl](capHint),
		TypeParams:   NewArena[TypeParam](capHint),
		Heritage:     NewArena[HeritageClause](capHint),
		Decorators:   NewArena[Decorator](capHint),
		EnumMembers:  NewArena[EnumMember](capHint),
		BindingElems: NewArena[BindingElem](capHint),
	}
}

// New allocates a declaration node and returns its ID.
func (d *Decls) New(kind DeclKind, sp source.Span, mods Modifiers, payload uint32) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Span: sp, Modifiers: mods, Payload: payload}))
}

// Get returns the declaration with the given ID.
func (d *Decls) Get(id DeclID) *Decl { return d.Arena.Get(uint32(id)) }

// BindingKind distinguishes a plain name binding from a destructuring pattern.
type BindingKind uint8

const (
	BindingName BindingKind = iota
	BindingObjectPattern
	BindingArrayPattern
)

// BindingElem is one element of a destructuring pattern (object or array).
type BindingElem struct {
	Kind        BindingKind
	Name        source.StringID // for BindingName, and as the local name of a pattern element
	PropertyKey source.StringID // object pattern: the source property being destructured, if renamed
	Nested      []BindingElemID // nested pattern elements for object/array patterns
	Default     ExprID
	IsRest      bool
}

// VarDecl describes a single `var`/`let`/`const` binding (spec §6 "Variable").
type VarDecl struct {
	VarKind     VarKind
	Name        source.StringID
	Pattern     BindingElemID // set instead of Name when destructuring
	TypeAnn     TypeNodeID
	Initializer ExprID
	DefiniteAssignment bool // trailing `!` on the declaration (definite assignment assertion)
}

// ParamDecl describes one function/method parameter, including TS parameter
// properties (`constructor(private x: string)`) which also introduce a
// class member symbol — spec §4.8 "Heritage clauses"/class body checking.
type ParamDecl struct {
	Name        source.StringID
	Pattern     BindingElemID
	TypeAnn     TypeNodeID
	Initializer ExprID
	IsOptional  bool
	IsRest      bool
	Modifiers   Modifiers // ModPublic/ModPrivate/ModProtected/ModReadonly => parameter property
}

// TypeParam describes a single generic type parameter declaration, including
// its constraint and default (spec §4.5 two-pass scoping algorithm).
type TypeParam struct {
	Name       source.StringID
	Constraint TypeNodeID
	Default    TypeNodeID
	Variance   Modifiers // ModIn / ModOut, or 0
	IsConst    bool
}

// HeritageClause is one `extends`/`implements` entry on a class or interface.
type HeritageClause struct {
	IsImplements bool // false => extends
	Type         TypeNodeID
}

// Decorator records one `@decorator(...)` application (experimentalDecorators).
type Decorator struct {
	Expr ExprID
}

// FunctionDecl covers function declarations, methods, and constructors share
// enough shape that MemberDecl embeds the same signature fields directly
// rather than pointing back here; FunctionDecl is for top-level/namespace
// function declarations (including overload signatures, which are multiple
// FunctionDecl nodes merged by the binder under one symbol).
type FunctionDecl struct {
	Name        source.StringID
	TypeParams  []TypeParamID
	Params      []ParamID
	ReturnType  TypeNodeID
	Body        StmtID // NoStmtID for an overload signature / ambient declaration
	IsGenerator bool
	IsAsync bool
}

// ClassDecl describes a class declaration or expression body.
type ClassDecl struct {
	Name       source.StringID // NoStringID for an anonymous class expression
	TypeParams []TypeParamID
	Heritage   []HeritageID // first entry may be `extends`, rest `implements`
	Members    []DeclID     // each a DeclMember
	Decorators []DecoratorID
	IsAbstract bool
}

// MemberKind distinguishes the syntactic forms a class/interface/type-literal
// member can take.
type MemberKind uint8

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberGetter
	MemberSetter
	MemberIndexSignature
	MemberCallSignature
	MemberConstructSignature
)

// MemberDecl is the shared shape for class members, interface members, and
// object-type-literal members (spec §3 "Object" property list: name, type,
// optional flag, readonly flag, method flag, write-type).
type MemberDecl struct {
	MemberKind  MemberKind
	Name        source.StringID
	ComputedKey ExprID // set when the member name is `[expr]`
	TypeParams  []TypeParamID
	Params      []ParamID // index-signature key lives in Params[0]
	TypeAnn     TypeNodeID
	WriteType   TypeNodeID // distinct setter-accepted type, if different from TypeAnn
	Initializer ExprID     // class property initializer
	Body        StmtID     // method/accessor/constructor body; NoStmtID for signatures/abstract
	Decorators  []DecoratorID
	IsOptional  bool
}

// InterfaceDecl describes an interface declaration. Multiple InterfaceDecl
// nodes (and a same-named ClassDecl/ModuleDecl) merge under one binder
// symbol — spec §4.4/§9 "Merged declarations".
type InterfaceDecl struct {
	Name       source.StringID
	TypeParams []TypeParamID
	Heritage   []HeritageID // `extends` only; interfaces cannot implement
	Members    []DeclID     // each a DeclMember
}

// TypeAliasDecl describes a `type Name<T> = ...` declaration.
type TypeAliasDecl struct {
	Name       source.StringID
	TypeParams []TypeParamID
	Target     TypeNodeID
}

// EnumMember describes a single enum member and its optional initializer.
type EnumMember struct {
	Name        source.StringID
	Initializer ExprID
}

// EnumDecl describes an enum declaration.
type EnumDecl struct {
	Name    source.StringID
	IsConst bool
	Members []EnumMemberID
}

// ModuleDecl describes a `namespace`/`module` declaration, including ambient
// modules (`declare module "name"`) and the global augmentation block.
type ModuleDecl struct {
	Name       source.StringID // dotted identifier joined with '.', or the quoted specifier for ambient modules
	IsAmbient  bool
	IsGlobal   bool
	StringName bool // true when Name came from a string literal (ambient module) not a dotted identifier
	Body       []StmtID
}

// ImportSpecifier is one named binding in an import clause.
type ImportSpecifier struct {
	ImportedName source.StringID
	LocalName    source.StringID
	IsTypeOnly   bool
}

// ImportDecl describes every import-clause shape: default, namespace, named,
// side-effect-only, and `import X = require(...)`.
type ImportDecl struct {
	ModuleSpecifier string
	DefaultName     source.StringID
	NamespaceName   source.StringID
	Named           []ImportSpecifier
	IsTypeOnly      bool
	EqualsRequire   bool // `import X = require("mod")`
}

// ExportKind enumerates the export-statement forms.
type ExportKind uint8

const (
	ExportNamed ExportKind = iota
	ExportStar
	ExportStarAs
	ExportDefaultExpr
	ExportDefaultDecl
	ExportEquals // `export = expr`, spec glossary "export ="
	ExportAssignVar
)

// ExportDecl describes one export statement.
type ExportDecl struct {
	ExportKind      ExportKind
	ModuleSpecifier string // set for re-exports ("from" clause); empty otherwise
	Named           []ImportSpecifier
	NamespaceAs     source.StringID // for `export * as ns from`
	DefaultExpr     ExprID
	DefaultDecl     DeclID
	EqualsExpr      ExprID
	IsTypeOnly      bool
}
