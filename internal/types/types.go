// Package types implements the interned type universe described by the
// checker's data model: a monotonically growing table of structurally
// deduplicated Type values addressed by TypeID, plus per-kind side tables
// for the data a single fixed-size Type record cannot hold inline (property
// lists, signatures, tuple elements, union members).
package types

import "fmt"

// TypeID is an opaque handle into the Type Universe. A fixed set of
// intrinsic ids is reserved at interner construction; everything else is
// assigned monotonically as the universe grows. Ids are stable for the
// lifetime of a checking session.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind discriminates the Type variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIntrinsic
	KindLiteral
	KindObject
	KindObjectWithIndex
	KindUnion
	KindIntersection
	KindArray
	KindTuple
	KindFunction
	KindCallable
	KindTypeParameter
	KindLazy
	KindApplication
	KindConditional
	KindMapped
	KindIndexAccess
	KindKeyOf
	KindReadonly
	KindTypeQuery
	KindUniqueSymbol
	KindInfer
	KindThis
	KindTemplateLiteral
	KindStringIntrinsic
	KindEnum
	KindModuleNamespace
	KindError
)

func (k Kind) String() string {
	names := [...]string{
		"invalid", "intrinsic", "literal", "object", "object-with-index",
		"union", "intersection", "array", "tuple", "function", "callable",
		"type-parameter", "lazy", "application", "conditional", "mapped",
		"index-access", "keyof", "readonly", "type-query", "unique-symbol",
		"infer", "this", "template-literal", "string-intrinsic", "enum",
		"module-namespace", "error",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IntrinsicKind enumerates the reserved intrinsic ids (spec §3 "a small
// fixed set of intrinsic ids").
type IntrinsicKind uint8

const (
	IntrinsicAny IntrinsicKind = iota
	IntrinsicUnknown
	IntrinsicNever
	IntrinsicVoid
	IntrinsicNull
	IntrinsicUndefined
	IntrinsicBoolean
	IntrinsicNumber
	IntrinsicString
	IntrinsicBigInt
	IntrinsicSymbol
	IntrinsicObject
	IntrinsicFunction
	intrinsicCount
)

func (k IntrinsicKind) String() string {
	names := [...]string{
		"any", "unknown", "never", "void", "null", "undefined", "boolean",
		"number", "string", "bigint", "symbol", "object", "function",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("IntrinsicKind(%d)", k)
}

// Type is the compact, fixed-size record every interned type reduces to.
// Kind-specific data that doesn't fit inline (property lists, signatures,
// union members, tuple elements) lives in a side table and is addressed by
// Payload — the same "thin record + per-kind side arena" shape the AST
// arenas use.
type Type struct {
	Kind    Kind
	A       TypeID // primary operand: element/object/check/operand/base, depending on Kind
	B       TypeID // secondary operand: index/extends/args-base, depending on Kind
	Payload uint32 // index into the Kind-specific side table; 0 when unused
	Fresh   bool   // object literal freshness flag (spec §3 "Fresh-vs-widened")
}

// Builtins caches the TypeIDs of the reserved intrinsics plus ERROR, so
// callers never re-intern them.
type Builtins struct {
	Any       TypeID
	Unknown   TypeID
	Never     TypeID
	Void      TypeID
	Null      TypeID
	Undefined TypeID
	Boolean   TypeID
	Number    TypeID
	String    TypeID
	BigInt    TypeID
	Symbol    TypeID
	Object    TypeID
	Function  TypeID
	Error     TypeID
}
