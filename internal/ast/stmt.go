package ast

import (
	"github.com/vovakirdan/tscheck/internal/source"
)

// Stmt is the thin record for every statement form; Payload indexes the
// kind-specific arena below. Statements that wrap a declaration (var/function/
// class/interface/type-alias/enum/module/import/export used at statement
// position) point at a DeclID instead of allocating a duplicate shape.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload uint32
}

// Stmts owns the statement arena and its per-kind payload arenas.
type Stmts struct {
	Arena    *Arena[Stmt]
	Blocks   *Arena[BlockStmt]
	Exprs    *Arena[ExprStmt]
	Decls    *Arena[DeclStmt]
	Ifs      *Arena[IfStmt]
	Whiles   *Arena[WhileStmt]
	Fors     *Arena[ForStmt]
	ForIns   *Arena[ForInOfStmt]
	Switches *Arena[SwitchStmt]
	Tries    *Arena[TryStmt]
	Throws   *Arena[ThrowStmt]
	Returns  *Arena[ReturnStmt]
	Breaks   *Arena[BreakContinueStmt]
	Labeled  *Arena[LabeledStmt]
}

// NewStmts allocates the statement arenas with the given capacity hint.
func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Blocks:   NewArena[BlockStmt](capHint / 4),
		Exprs:    NewArena[ExprStmt](capHint),
		Decls:    NewArena[DeclStmt](capHint / 4),
		Ifs:      NewArena[IfStmt](capHint / 8),
		Whiles:   NewArena[WhileStmt](capHint / 16),
		Fors:     NewArena[ForStmt](capHint / 16),
		ForIns:   NewArena[ForInOfStmt](capHint / 16),
		Switches: NewArena[SwitchStmt](capHint / 16),
		Tries:    NewArena[TryStmt](capHint / 16),
		Throws:   NewArena[ThrowStmt](capHint / 16),
		Returns:  NewArena[ReturnStmt](capHint / 8),
		Breaks:   NewArena[BreakContinueStmt](capHint / 16),
		Labeled:  NewArena[LabeledStmt](capHint / 32),
	}
}

// New allocates a statement node and returns its ID.
func (s *Stmts) New(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: payload}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt { return s.Arena.Get(uint32(id)) }

// BlockStmt is a `{ ... }` block.
type BlockStmt struct {
	Statements []StmtID
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr ExprID
}

// DeclStmt wraps a declaration appearing at statement position.
type DeclStmt struct {
	Decl DeclID
}

// IfStmt is an `if (cond) then else` statement. Else is NoStmtID when absent.
type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// WhileKind distinguishes `while` from `do...while`.
type WhileKind uint8

const (
	WhileTop WhileKind = iota
	WhileDo
)

// WhileStmt covers both `while` and `do...while` loops.
type WhileStmt struct {
	Kind WhileKind
	Cond ExprID
	Body StmtID
}

// ForStmt is a classic C-style `for (init; cond; post) body` loop. Each of
// Init/Cond/Post may be absent (NoStmtID/NoExprID).
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

// ForInOfStmt covers `for...in` and `for...of` loops, including `for await (...of...)`.
type ForInOfStmt struct {
	IsOf       bool
	IsAwait    bool
	Decl       DeclID // NoDeclID when the left side is a plain assignment target, not a declaration
	LeftTarget ExprID // set instead of Decl when iterating into an existing binding
	Right      ExprID
	Body       StmtID
}

// SwitchCase is one `case expr:` or `default:` arm. Test is NoExprID for default.
type SwitchCase struct {
	Test       ExprID
	Statements []StmtID
}

// SwitchStmt is a `switch (discriminant) { ... }` statement.
type SwitchStmt struct {
	Discriminant ExprID
	Cases        []SwitchCase
}

// CatchClause is the `catch (param) { body }` part of a try statement.
// Param is NoStmtID for a parameter-less catch; otherwise the synthetic DeclStmt's
// VarDecl.TypeAnn records an `: unknown`/`: any` catch-variable annotation when
// present (spec §9 "catch narrows to unknown").
type CatchClause struct {
	Param StmtID // NoStmtID when absent; otherwise references a synthetic DeclStmt binding
	Body  StmtID
}

// TryStmt is a `try { } catch { } finally { }` statement.
type TryStmt struct {
	Block   StmtID
	Catch   *CatchClause // nil when no catch clause
	Finally StmtID       // NoStmtID when no finally clause
}

// ThrowStmt is a `throw expr` statement.
type ThrowStmt struct {
	Expr ExprID
}

// ReturnStmt is a `return [expr]` statement. Expr is NoExprID for a bare `return`.
type ReturnStmt struct {
	Expr ExprID
}

// BreakContinueKind distinguishes `break` from `continue`.
type BreakContinueKind uint8

const (
	BreakKind BreakContinueKind = iota
	ContinueKind
)

// BreakContinueStmt is a `break [label]` or `continue [label]` statement.
type BreakContinueStmt struct {
	Kind  BreakContinueKind
	Label source.StringID // NoStringID when unlabeled
}

// LabeledStmt is a `label: statement`.
type LabeledStmt struct {
	Label source.StringID
	Body  StmtID
}
