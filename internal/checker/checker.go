// Package checker implements the Statement/Expression Checker (spec §4.8):
// the single pass that walks a file's statement tree, assigns a type to
// every expression, and reports every diagnostic that depends on having a
// type for something (as opposed to internal/lower's job of turning a
// declaration into a type in the first place). It is the top of the
// dependency stack — it is the one package allowed to know about
// internal/lower, internal/assign, internal/flow, internal/defs and
// internal/tenv all at once, and it supplies the real resolver
// implementations those lower packages only accept as injected hooks.
package checker

import (
	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/flow"
	"github.com/vovakirdan/tscheck/internal/lower"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

// Hooks are the per-node facts the binder/driver layer knows and the
// checker doesn't rebuild: which symbol an identifier or class name refers
// to, and where in the flow graph a given expression sits. Both default to
// nil-safe no-ops so the checker still produces declared (unnarrowed) types
// when a driver hasn't wired them in yet.
type Hooks struct {
	// ExprSymbol resolves an ExprIdent to the symbol it refers to.
	ExprSymbol func(ast.ExprID) (bind.SymbolID, bool)
	// FlowAt returns the flow-graph node at the control-flow position of
	// expr, for narrowing purposes.
	FlowAt func(ast.ExprID) bind.FlowNodeID
	// StmtFlowAt returns the flow-graph node reached after stmt completes,
	// used by the post-finally-reachability and unreachable-code checks.
	StmtFlowAt func(ast.StmtID) bind.FlowNodeID
	// DeclSymbol resolves a class/interface/enum/module declaration to the
	// symbol the binder recorded for it, so the checker can ask
	// internal/lower for its instance type without rebuilding symbol lookup.
	DeclSymbol func(ast.DeclID) (bind.SymbolID, bool)
	// DeclDef resolves a class/interface/enum/module declaration to its
	// merged internal/defs.DefID, letting the checker read the instance
	// type internal/tenv cached for it during lowering.
	DeclDef func(ast.DeclID) defs.DefID
}

// returnFrame is one entry of the return-context stack: the expected return
// type, its span, and whether the enclosing function is async/generator.
type returnFrame struct {
	expected    types.TypeID
	span        source.Span
	isAsync     bool
	isGenerator bool
	sawReturn   bool
}

// classFrame tracks the enclosing class while checking its members (spec
// §4.8 "class-body special-casing": strict-property-initialization and
// heritage resolution both need to know the current class).
type classFrame struct {
	def        defs.DefID
	instance   types.TypeID
	isAbstract bool
}

// Checker is the mutable state of one file's check pass. One Checker is
// built per file (mirroring one internal/bind.Binder per file); the stores
// it wraps (types, defs, env) are shared across every file in a session.
type Checker struct {
	Types     *types.Interner
	Defs      *defs.Store
	Env       *tenv.Env
	Symbols   *bind.Symbols
	Exprs     *ast.Exprs
	Decls     *ast.Decls
	Stmts     *ast.Stmts
	TypeNodes *ast.TypeNodes
	Strs      *source.Interner
	Lower     *lower.Lowerer
	Assign    *assign.Engine
	Flow      *flow.Engine
	Report    diag.Reporter

	Hooks Hooks

	returnStack []returnFrame
	classStack  []classFrame
	awaitDepth  int
	loopDepth   int

	// bindingTypes caches a symbol's declared (unnarrowed) type for the
	// duration of this file's check, so repeated lookups of the same
	// binding don't re-lower its type node each time.
	bindingTypes map[bind.SymbolID]types.TypeID
}

// New constructs a Checker for one file against the given session-wide
// stores. hooks may be the zero value; every field is consulted defensively.
func New(in *types.Interner, store *defs.Store, env *tenv.Env, symbols *bind.Symbols,
	exprs *ast.Exprs, decls *ast.Decls, stmts *ast.Stmts, tnodes *ast.TypeNodes,
	strs *source.Interner, lw *lower.Lowerer, asn *assign.Engine, fl *flow.Engine,
	report diag.Reporter, hooks Hooks) *Checker {
	return &Checker{
		Types: in, Defs: store, Env: env, Symbols: symbols,
		Exprs: exprs, Decls: decls, Stmts: stmts, TypeNodes: tnodes,
		Strs: strs, Lower: lw, Assign: asn, Flow: fl, Report: report,
		Hooks:        hooks,
		bindingTypes: make(map[bind.SymbolID]types.TypeID, 64),
	}
}

// CheckFile walks every top-level statement of a file.
func (c *Checker) CheckFile(file *ast.File) {
	if file == nil {
		return
	}
	for _, s := range file.Statements {
		c.checkStmt(s)
	}
}

func (c *Checker) report(code diag.Code, sp source.Span, msg string) {
	if c.Report == nil {
		return
	}
	c.Report.Report(code, diag.SevError, sp, msg, nil, nil)
}

func (c *Checker) warn(code diag.Code, sp source.Span, msg string) {
	if c.Report == nil {
		return
	}
	c.Report.Report(code, diag.SevWarning, sp, msg, nil, nil)
}

func (c *Checker) exprSpan(id ast.ExprID) source.Span {
	if e := c.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (c *Checker) stmtSpan(id ast.StmtID) source.Span {
	if s := c.Stmts.Get(id); s != nil {
		return s.Span
	}
	return source.Span{}
}

func (c *Checker) declSpan(id ast.DeclID) source.Span {
	if d := c.Decls.Get(id); d != nil {
		return d.Span
	}
	return source.Span{}
}

// bindingTypeOf returns (and caches) the declared type of a symbol.
func (c *Checker) bindingTypeOf(sym bind.SymbolID) types.TypeID {
	if !sym.IsValid() {
		return c.Types.Builtins().Any
	}
	if t, ok := c.bindingTypes[sym]; ok {
		return t
	}
	t := c.Lower.TypeOfSymbol(sym, c.Symbols)
	c.bindingTypes[sym] = t
	return t
}

func (c *Checker) currentReturn() *returnFrame {
	if len(c.returnStack) == 0 {
		return nil
	}
	return &c.returnStack[len(c.returnStack)-1]
}

func (c *Checker) pushReturn(expected types.TypeID, sp source.Span, isAsync, isGenerator bool) {
	c.returnStack = append(c.returnStack, returnFrame{expected: expected, span: sp, isAsync: isAsync, isGenerator: isGenerator})
}

func (c *Checker) popReturn() returnFrame {
	f := c.returnStack[len(c.returnStack)-1]
	c.returnStack = c.returnStack[:len(c.returnStack)-1]
	return f
}

func (c *Checker) currentClass() *classFrame {
	if len(c.classStack) == 0 {
		return nil
	}
	return &c.classStack[len(c.classStack)-1]
}

// stripNullableAndUndefined removes NULL/UNDEFINED from a (possibly union)
// type — the narrow/widen pair the `!` non-null assertion and optional-
// chaining short-circuit both need (spec §4.7's filterUnion primitive,
// reimplemented locally since it is unexported in internal/flow).
func (c *Checker) stripNullableAndUndefined(t types.TypeID) types.TypeID {
	b := c.Types.Builtins()
	keep := func(m types.TypeID) bool { return m != b.Null && m != b.Undefined }
	if c.Types.IsUnion(t) {
		var kept []types.TypeID
		for _, m := range c.Types.UnionMembers(t) {
			if keep(m) {
				kept = append(kept, m)
			}
		}
		switch len(kept) {
		case 0:
			return b.Never
		case 1:
			return kept[0]
		default:
			return c.Types.InternUnion(kept)
		}
	}
	if keep(t) {
		return t
	}
	return b.Never
}

// isNullable reports whether t could be null/undefined at runtime.
func (c *Checker) isNullable(t types.TypeID) (hasNull, hasUndefined bool) {
	b := c.Types.Builtins()
	if t == b.Null {
		return true, false
	}
	if t == b.Undefined {
		return false, true
	}
	if c.Types.IsUnion(t) {
		for _, m := range c.Types.UnionMembers(t) {
			if m == b.Null {
				hasNull = true
			}
			if m == b.Undefined {
				hasUndefined = true
			}
		}
	}
	return hasNull, hasUndefined
}
