package ast

import "fmt"

// DeclKind enumerates the declaration forms the checker consumes.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclVar              // var/let/const binding (see VarDecl.VarKind for which)
	DeclFunction
	DeclClass
	DeclInterface
	DeclTypeAlias
	DeclEnum
	DeclModule // namespace / module block
	DeclImport
	DeclExport
	DeclParam  // function/method parameter kind tag; NewParam stores parameters in Decls.Params only, not in the Decl arena
	DeclMember // class/interface/type-literal member (MemberDecl carries the MemberKind discriminant)
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclTypeAlias:
		return "type-alias"
	case DeclEnum:
		return "enum"
	case DeclModule:
		return "module"
	case DeclImport:
		return "import"
	case DeclExport:
		return "export"
	case DeclParam:
		return "param"
	case DeclMember:
		return "member"
	default:
		return "invalid"
	}
}

// StmtKind enumerates statement forms.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtExpr
	StmtDecl // wraps a DeclID (var statement, class/function/interface/etc. as a statement)
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtForIn
	StmtForOf
	StmtSwitch
	StmtTry
	StmtThrow
	StmtReturn
	StmtBreak
	StmtContinue
	StmtLabeled
	StmtEmpty
	StmtWith
	StmtDebugger
)

func (k StmtKind) String() string {
	names := [...]string{
		"invalid", "block", "expr", "decl", "if", "while", "do-while", "for",
		"for-in", "for-of", "switch", "try", "throw", "return", "break",
		"continue", "labeled", "empty", "with", "debugger",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("StmtKind(%d)", k)
}

// ExprKind enumerates expression forms.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprStringLit
	ExprNumberLit
	ExprBigIntLit
	ExprBoolLit
	ExprNullLit
	ExprUndefinedLit
	ExprThis
	ExprSuper
	ExprArrayLit
	ExprObjectLit
	ExprPropertyAccess // a.b / a?.b
	ExprElementAccess  // a[b] / a?.[b]
	ExprCall           // f(...) / f?.(...)
	ExprNew
	ExprBinary
	ExprUnary
	ExprUpdate // ++/-- prefix or postfix
	ExprAssign
	ExprConditional // a ? b : c
	ExprSequence    // a, b
	ExprTemplate
	ExprTaggedTemplate
	ExprSpread
	ExprArrow
	ExprFunctionExpr
	ExprClassExpr
	ExprParen
	ExprAs        // `expr as T` / `<T>expr`
	ExprSatisfies // `expr satisfies T`
	ExprNonNull   // expr!
	ExprTypeOf    // value-space typeof used as an expression (not a type query)
	ExprAwait
	ExprYield
	ExprJSXElement
)

func (k ExprKind) String() string {
	names := [...]string{
		"invalid", "ident", "string", "number", "bigint", "bool", "null",
		"undefined", "this", "super", "array", "object", "property-access",
		"element-access", "call", "new", "binary", "unary", "update", "assign",
		"conditional", "sequence", "template", "tagged-template", "spread",
		"arrow", "function-expr", "class-expr", "paren", "as", "satisfies",
		"non-null", "typeof", "await", "yield", "jsx-element",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("ExprKind(%d)", k)
}

// TypeNodeKind enumerates syntactic type-expression forms (spec §4.5).
type TypeNodeKind uint8

const (
	TypeNodeInvalid TypeNodeKind = iota
	TypeNodeRef                  // identifier, optionally with type arguments
	TypeNodeQualifiedName        // A.B[.C]
	TypeNodeUnion
	TypeNodeIntersection
	TypeNodeParen
	TypeNodeArray
	TypeNodeTuple
	TypeNodeFunction
	TypeNodeConstructor
	TypeNodeKeyOf
	TypeNodeReadonly
	TypeNodeUniqueSymbol
	TypeNodeIndexedAccess
	TypeNodeConditional
	TypeNodeInfer
	TypeNodeMapped
	TypeNodeTypeLiteral // object type `{ ... }`
	TypeNodeTypeQuery   // `typeof expr`
	TypeNodeTemplateLiteral
	TypeNodeStringIntrinsic // Uppercase<T> / Lowercase<T> / Capitalize<T> / Uncapitalize<T>
	TypeNodeLiteral         // string/number/bigint/boolean literal type
	TypeNodeThis
	TypeNodeImportType
)

func (k TypeNodeKind) String() string {
	names := [...]string{
		"invalid", "ref", "qualified-name", "union", "intersection", "paren",
		"array", "tuple", "function", "constructor", "keyof", "readonly",
		"unique-symbol", "indexed-access", "conditional", "infer", "mapped",
		"type-literal", "type-query", "template-literal", "string-intrinsic",
		"literal", "this", "import-type",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("TypeNodeKind(%d)", k)
}

// StringIntrinsicKind enumerates the built-in template-literal string transforms.
type StringIntrinsicKind uint8

const (
	StringIntrinsicUppercase StringIntrinsicKind = iota
	StringIntrinsicLowercase
	StringIntrinsicCapitalize
	StringIntrinsicUncapitalize
)

// Modifier flags shared across declarations, parameters, and class members.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModReadonly
	ModAbstract
	ModAsync
	ModExport
	ModDefault
	ModDeclare
	ModConst  // const enum / const type parameter
	ModOverride
	ModAccessor
	ModIn  // variance annotation on a type parameter
	ModOut
	ModOptional // trailing `?`
)

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

// VarKind distinguishes var/let/const bindings.
type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
	VarUsing
	VarAwaitUsing
)

// MappedModifier records the three shapes a mapped type's `?`/`readonly` modifier can take.
type MappedModifier uint8

const (
	MappedModifierNone MappedModifier = iota
	MappedModifierAdd                 // `+?` or `+readonly`
	MappedModifierRemove              // `-?` or `-readonly`
)
