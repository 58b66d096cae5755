package ast

import (
	"github.com/vovakirdan/tscheck/internal/source"
)

// TypeNode is the thin record for every syntactic type-expression form; the
// checker's Type-Node Lowering algorithm (spec §4.5) dispatches over Kind and
// reads the kind-specific payload below.
type TypeNode struct {
	Kind    TypeNodeKind
	Span    source.Span
	Payload uint32
}

// TypeNodes owns the type-node arena and its per-kind payload arenas.
type TypeNodes struct {
	Arena            *Arena[TypeNode]
	Refs             *Arena[TypeRefNode]
	Unions           *Arena[UnionTypeNode]
	Intersections    *Arena[IntersectionTypeNode]
	Parens           *Arena[ParenTypeNode]
	Arrays           *Arena[ArrayTypeNode]
	Tuples           *Arena[TupleTypeNode]
	Functions        *Arena[FunctionTypeNode]
	KeyOfs           *Arena[KeyOfTypeNode]
	Readonlys        *Arena[ReadonlyTypeNode]
	UniqueSymbols    *Arena[UniqueSymbolTypeNode]
	IndexedAccesses  *Arena[IndexedAccessTypeNode]
	Conditionals     *Arena[ConditionalTypeNode]
	Infers           *Arena[InferTypeNode]
	Mappeds          *Arena[MappedTypeNode]
	TypeLiterals     *Arena[TypeLiteralNode]
	TypeQueries      *Arena[TypeQueryNode]
	TemplateLiterals *Arena[TemplateLiteralTypeNode]
	StringIntrinsics *Arena[StringIntrinsicTypeNode]
	Literals         *Arena[LiteralTypeNode]
	ImportTypes      *Arena[ImportTypeNode]
	QualifiedNames   *Arena[QualifiedNameTypeNode]
	This             *Arena[ThisTypeNode]
}

// NewTypeNodes allocates the type-node arenas with the given capacity hint.
func NewTypeNodes(capHint uint) *TypeNodes {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 16
	if small == 0 {
		small = 4
	}
	return &TypeNodes{
		Arena:            NewArena[TypeNode](capHint),
		Refs:             NewArena[TypeRefNode](capHint),
		Unions:           NewArena[UnionTypeNode](capHint / 4),
		Intersections:    NewArena[IntersectionTypeNode](capHint / 8),
		Parens:           NewArena[ParenTypeNode](small),
		Arrays:           NewArena[ArrayTypeNode](capHint / 4),
		Tuples:           NewArena[TupleTypeNode](capHint / 8),
		Functions:        NewArena[FunctionTypeNode](capHint / 8),
		KeyOfs:           NewArena[KeyOfTypeNode](small),
		Readonlys:        NewArena[ReadonlyTypeNode](small),
		UniqueSymbols:    NewArena[UniqueSymbolTypeNode](small),
		IndexedAccesses:  NewArena[IndexedAccessTypeNode](capHint / 8),
		Conditionals:     NewArena[ConditionalTypeNode](small),
		Infers:           NewArena[InferTypeNode](small),
		Mappeds:          NewArena[MappedTypeNode](small),
		TypeLiterals:     NewArena[TypeLiteralNode](capHint / 8),
		TypeQueries:      NewArena[TypeQueryNode](small),
		TemplateLiterals: NewArena[TemplateLiteralTypeNode](small),
		StringIntrinsics: NewArena[StringIntrinsicTypeNode](small),
		Literals:         NewArena[LiteralTypeNode](capHint / 8),
		ImportTypes:      NewArena[ImportTypeNode](small),
		QualifiedNames:   NewArena[QualifiedNameTypeNode](small),
		This:             NewArena[ThisTypeNode](small),
	}
}

// New allocates a type-node and returns its ID.
func (t *TypeNodes) New(kind TypeNodeKind, sp source.Span, payload uint32) TypeNodeID {
	return TypeNodeID(t.Arena.Allocate(TypeNode{Kind: kind, Span: sp, Payload: payload}))
}

// Get returns the type-node with the given ID.
func (t *TypeNodes) Get(id TypeNodeID) *TypeNode { return t.Arena.Get(uint32(id)) }

// TypeRefNode is a named type reference, optionally with type arguments
// (`Foo`, `Array<T>`, `Map<K, V>`).
type TypeRefNode struct {
	Name     source.StringID
	TypeArgs []TypeNodeID
}

// UnionTypeNode is `A | B | C`. The checker's Type Universe normalizes these
// at lowering time (spec §3 "Union (normalized)"); this node preserves the
// author's written order for diagnostic rendering.
type UnionTypeNode struct {
	Members []TypeNodeID
}

// IntersectionTypeNode is `A & B & C`.
type IntersectionTypeNode struct {
	Members []TypeNodeID
}

// ParenTypeNode is a parenthesized type, preserved for precedence diagnostics.
type ParenTypeNode struct {
	Inner TypeNodeID
}

// ArrayTypeNode is `T[]`.
type ArrayTypeNode struct {
	Element TypeNodeID
}

// TupleElement is one element of a tuple type, including named tuple
// elements (`[x: string]`), optional elements (`[string?]`), and rest
// elements (`[...string[]]`).
type TupleElement struct {
	Label      source.StringID // NoStringID when unnamed
	Type       TypeNodeID
	IsOptional bool
	IsRest     bool
}

// TupleTypeNode is `[A, B, ...C[]]`.
type TupleTypeNode struct {
	Elements []TupleElement
}

// FunctionTypeNode is a function-type or constructor-type signature, e.g.
// `(a: string, b?: number) => boolean` or `new (a: string) => Foo`.
type FunctionTypeNode struct {
	TypeParams []TypeParamID
	Params     []ParamID
	ReturnType TypeNodeID
}

// KeyOfTypeNode is `keyof T`.
type KeyOfTypeNode struct {
	Operand TypeNodeID
}

// ReadonlyTypeNode is `readonly T[]` or `readonly [A, B]`.
type ReadonlyTypeNode struct {
	Operand TypeNodeID
}

// UniqueSymbolTypeNode is `unique symbol`.
type UniqueSymbolTypeNode struct{}

// IndexedAccessTypeNode is `T[K]`.
type IndexedAccessTypeNode struct {
	Object TypeNodeID
	Index  TypeNodeID
}

// ConditionalTypeNode is `Check extends Extends ? True : False`, the vehicle
// for distributive conditional types and `infer` positions (spec §3
// "Conditional").
type ConditionalTypeNode struct {
	Check   TypeNodeID
	Extends TypeNodeID
	True    TypeNodeID
	False   TypeNodeID
}

// InferTypeNode is `infer Name` (optionally `infer Name extends Constraint`),
// legal only within the Extends clause of an enclosing ConditionalTypeNode.
type InferTypeNode struct {
	Name       source.StringID
	Constraint TypeNodeID
}

// MappedTypeNode is `{ [K in KeyType]: ValueType }`, including `as` name
// remapping and the `+?`/`-?`/`+readonly`/`-readonly` modifiers.
type MappedTypeNode struct {
	TypeParam      TypeParamID // the `K` binder, whose Constraint is the `in` clause
	NameType       TypeNodeID  // the `as` clause, NoTypeNodeID when absent
	ValueType      TypeNodeID
	OptionalMod    MappedModifier
	ReadonlyMod    MappedModifier
}

// TypeLiteralNode is an inline object type `{ a: string; b?: number }`,
// sharing MemberDecl with interfaces and class bodies.
type TypeLiteralNode struct {
	Members []DeclID // each a DeclMember
}

// TypeQueryNode is the type-space `typeof expr` operator, which resolves to
// the type of a value expression (spec glossary "Type query").
type TypeQueryNode struct {
	Expr ExprID
}

// TemplateLiteralTypeNode is a template literal type, e.g. `` `on${Capitalize<Event>}` ``.
type TemplateLiteralTypeNode struct {
	Head  source.StringID
	Spans []TemplateLiteralTypeSpan
}

// TemplateLiteralTypeSpan is one `${Type}` substitution in a template literal type.
type TemplateLiteralTypeSpan struct {
	Type  TypeNodeID
	Quasi source.StringID
}

// StringIntrinsicTypeNode is `Uppercase<T>` and its siblings.
type StringIntrinsicTypeNode struct {
	Kind    StringIntrinsicKind
	Operand TypeNodeID
}

// LiteralKind distinguishes the literal forms a LiteralTypeNode can hold.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBigInt
	LiteralBoolean
)

// LiteralTypeNode is a string/number/bigint/boolean literal used as a type,
// e.g. `"GET"` in `method: "GET" | "POST"`.
type LiteralTypeNode struct {
	Kind   LiteralKind
	String source.StringID
	Number float64
	Bool   bool
}

// ImportTypeNode is `import("module").Member<Args>`.
type ImportTypeNode struct {
	ModuleSpecifier string
	Qualifier       source.StringID // dotted member path after the module, joined with '.'
	TypeArgs        []TypeNodeID
}

// QualifiedNameTypeNode is `A.B.C`, optionally with type arguments on the
// final segment (`Namespace.Type<T>`).
type QualifiedNameTypeNode struct {
	Parts    []source.StringID
	TypeArgs []TypeNodeID
}

// ThisTypeNode is the `this` type used in a method return position or a
// class/interface member signature.
type ThisTypeNode struct{}
