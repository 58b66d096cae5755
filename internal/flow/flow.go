// Package flow implements Narrowing / Flow Analysis (spec §4.7): the
// queries that refine a symbol's declared type at a usage site by walking
// backwards through the binder's pre-built flow graph and applying the
// guards encountered along the way.
//
// The engine never builds the flow graph itself — it only interprets the
// bind.FlowGraph/bind.FlowNode records the binder already produced — and it
// never resolves names to types on its own. Anything that needs knowledge
// the binder doesn't carry (an assignment's static type, a class name's
// instance type, an assertion function's asserted type, a destructured
// binding's source symbol) is supplied through a resolver hook, the same
// injection pattern internal/assign uses for its inheritance graph, so this
// package stays independent of the checker.
package flow

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

// Engine holds the tables a narrowing query needs plus its memoisation
// cache. One Engine is built per file and shared across every narrow_type_at
// / is_definitely_assigned / is_post_finally_reachable call against it.
type Engine struct {
	Graph   *bind.FlowGraph
	Symbols *bind.Symbols
	Exprs   *ast.Exprs
	Decls   *ast.Decls
	Types   *types.Interner
	Strs    *source.Interner

	// ExprType resolves the static type of an assigned expression (the value
	// side of a FlowAssignment node). Supplied by the checker once it can
	// evaluate expressions; nil falls back to the declared type at that
	// assignment, which is always sound though less precise.
	ExprType func(expr ast.ExprID) (types.TypeID, bool)

	// ClassInstanceType resolves an identifier naming a class to its
	// instance type, for instanceof-guard narrowing.
	ClassInstanceType func(name source.StringID) (types.TypeID, bool)

	// AssertedType resolves the type an assertion-predicate call narrows its
	// argument to (`asserts x is T`). Supplied by the checker once function
	// signatures carry type predicates.
	AssertedType func(call ast.ExprID) (types.TypeID, bool)

	// DestructuredFrom reports that symbol was bound by destructuring
	// propName off of parent's value, for correlated discriminant narrowing
	// (spec §4.7: "narrowing one property narrows the others"). Supplied by
	// the checker, which tracks the destructured-binding table.
	DestructuredFrom func(symbol bind.SymbolID) (parent bind.SymbolID, propName source.StringID, ok bool)

	narrowCache map[narrowKey]types.TypeID
	assignCache map[assignKey]bool
	reachCache  map[bind.FlowNodeID]bool
}

// New constructs a narrowing Engine over one file's flow graph. Every
// resolver hook may be left nil; each query degrades to its safe fallback
// rather than guessing.
func New(graph *bind.FlowGraph, symbols *bind.Symbols, exprs *ast.Exprs, decls *ast.Decls, in *types.Interner, strs *source.Interner) *Engine {
	return &Engine{
		Graph:       graph,
		Symbols:     symbols,
		Exprs:       exprs,
		Decls:       decls,
		Types:       in,
		Strs:        strs,
		narrowCache: make(map[narrowKey]types.TypeID, 64),
		assignCache: make(map[assignKey]bool, 32),
		reachCache:  make(map[bind.FlowNodeID]bool, 32),
	}
}

type narrowKey struct {
	Node     bind.FlowNodeID
	Symbol   bind.SymbolID
	Declared types.TypeID
}

// NarrowOptions carries the syntactic facts the checker already tracks
// while walking a function body, needed to apply the closure rule (spec
// §4.7: "a mutable (let/var) reference captured by a nested function loses
// its narrowed type ... constant references retain narrowing").
type NarrowOptions struct {
	// CrossesClosureBoundary is true when the usage site is lexically
	// inside a function nested below symbol's declaring function.
	CrossesClosureBoundary bool
	// MutableBinding is true for var/let bindings; false for const.
	MutableBinding bool
}

// IsMutableBinding reports whether symbol's declaring VarDecl is var/let
// (mutable) rather than const, consulting the AST directly so callers don't
// have to re-derive it.
func (e *Engine) IsMutableBinding(symbol bind.SymbolID) bool {
	sym := e.Symbols.Get(symbol)
	if sym == nil || !sym.ValueDeclaration.IsValid() {
		return true // unknown binding shape: assume mutable, the safer default
	}
	decl := e.Decls.Get(sym.ValueDeclaration)
	if decl == nil || decl.Kind != ast.DeclVar {
		return true
	}
	v := e.Decls.Vars.Get(decl.Payload)
	if v == nil {
		return true
	}
	return v.VarKind != ast.VarConst
}

// NarrowTypeAt walks backwards from node applying every guard encountered
// along the way, and unions the results where predecessor paths converge
// (spec §4.7 `narrow_type_at`). The closure rule is checked first and, when
// it applies, short-circuits straight back to declared.
func (e *Engine) NarrowTypeAt(node bind.FlowNodeID, symbol bind.SymbolID, declared types.TypeID, opts NarrowOptions) types.TypeID {
	if opts.CrossesClosureBoundary && opts.MutableBinding {
		return declared
	}
	key := narrowKey{Node: node, Symbol: symbol, Declared: declared}
	if v, ok := e.narrowCache[key]; ok {
		return v
	}
	visited := make(map[bind.FlowNodeID]bool, 16)
	result := e.walk(node, symbol, declared, visited)
	e.narrowCache[key] = result
	return result
}

func (e *Engine) walk(node bind.FlowNodeID, symbol bind.SymbolID, declared types.TypeID, visited map[bind.FlowNodeID]bool) types.TypeID {
	if !node.IsValid() {
		return declared
	}
	if visited[node] {
		// Cancellation: a cycle terminates with whatever type the traversal
		// has established so far — here, the declared type, since we have no
		// narrower answer yet for this particular node.
		return declared
	}
	visited[node] = true
	defer delete(visited, node)

	n := e.Graph.Get(node)
	if n == nil || n.Kind == bind.FlowStart {
		return declared
	}

	switch n.Kind {
	case bind.FlowAssignment:
		if n.Symbol == symbol {
			if e.ExprType != nil {
				if t, ok := e.ExprType(n.Expr); ok {
					return t
				}
			}
			return declared
		}
		return e.joinAntecedents(n, symbol, declared, visited)
	case bind.FlowUnreachable:
		return declared
	case bind.FlowTypeOfGuard, bind.FlowInstanceOfGuard, bind.FlowTruthinessGuard,
		bind.FlowEqualityGuard, bind.FlowSwitchClause, bind.FlowAssertionCall,
		bind.FlowForInOfElement:
		base := e.joinAntecedents(n, symbol, declared, visited)
		if n.Symbol != symbol {
			return base
		}
		return e.applyGuard(n, symbol, base)
	default: // FlowLabel, FlowLoopBack
		return e.joinAntecedents(n, symbol, declared, visited)
	}
}

func (e *Engine) joinAntecedents(n *bind.FlowNode, symbol bind.SymbolID, declared types.TypeID, visited map[bind.FlowNodeID]bool) types.TypeID {
	var results []types.TypeID
	for _, ant := range n.Antecedents {
		if pred := e.Graph.Get(ant); pred != nil && pred.Kind == bind.FlowUnreachable {
			continue // dead paths don't contribute to the join
		}
		results = append(results, e.walk(ant, symbol, declared, visited))
	}
	switch len(results) {
	case 0:
		return declared
	case 1:
		return results[0]
	default:
		return e.unionDistinct(results)
	}
}

func (e *Engine) unionDistinct(ts []types.TypeID) types.TypeID {
	seen := make(map[types.TypeID]bool, len(ts))
	var members []types.TypeID
	for _, t := range ts {
		if !seen[t] {
			seen[t] = true
			members = append(members, t)
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return e.Types.InternUnion(members)
}
