package flow

import (
	"testing"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

type harness struct {
	e     *Engine
	in    *types.Interner
	strs  *source.Interner
	exprs *ast.Exprs
	decls *ast.Decls
	syms  *bind.Symbols
	graph *bind.FlowGraph
}

func newHarness() *harness {
	strs := source.NewInterner()
	in := types.NewInterner()
	exprs := ast.NewExprs(0)
	decls := ast.NewDecls(0)
	syms := bind.NewSymbols(0)
	graph := bind.NewFlowGraph(0)
	return &harness{
		e:     New(graph, syms, exprs, decls, in, strs),
		in:    in,
		strs:  strs,
		exprs: exprs,
		decls: decls,
		syms:  syms,
		graph: graph,
	}
}

func (h *harness) stringLit(s string) ast.ExprID {
	payload := h.exprs.Strings.Allocate(ast.StringLitExpr{Value: h.strs.Intern(s)})
	return h.exprs.New(ast.ExprStringLit, source.Span{}, payload)
}

func (h *harness) ident(name string) ast.ExprID {
	payload := h.exprs.Idents.Allocate(ast.IdentExpr{Name: h.strs.Intern(name)})
	return h.exprs.New(ast.ExprIdent, source.Span{}, payload)
}

func (h *harness) typeOfEq(operand ast.ExprID, tag string) ast.ExprID {
	typeOfPayload := h.exprs.TypeOfs.Allocate(ast.TypeOfExpr{Expr: operand})
	typeOfExpr := h.exprs.New(ast.ExprTypeOf, source.Span{}, typeOfPayload)
	binPayload := h.exprs.Binaries.Allocate(ast.BinaryExpr{Op: ast.BinStrictEq, Left: typeOfExpr, Right: h.stringLit(tag)})
	return h.exprs.New(ast.ExprBinary, source.Span{}, binPayload)
}

func (h *harness) propEq(obj ast.ExprID, prop, tag string) ast.ExprID {
	paPayload := h.exprs.PropertyAccess.Allocate(ast.PropertyAccessExpr{Target: obj, Name: h.strs.Intern(prop)})
	pa := h.exprs.New(ast.ExprPropertyAccess, source.Span{}, paPayload)
	binPayload := h.exprs.Binaries.Allocate(ast.BinaryExpr{Op: ast.BinStrictEq, Left: pa, Right: h.stringLit(tag)})
	return h.exprs.New(ast.ExprBinary, source.Span{}, binPayload)
}

func (h *harness) newSymbol(name string) bind.SymbolID {
	return h.syms.New(bind.Symbol{Name: h.strs.Intern(name)})
}

func TestNarrowTypeAtTypeOfGuard(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	union := h.in.InternUnion([]types.TypeID{b.String, b.Number})
	x := h.newSymbol("x")

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	guard := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowTypeOfGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.typeOfEq(h.ident("x"), "string"),
		Symbol:      x,
	})

	narrowed := h.e.NarrowTypeAt(guard, x, union, NarrowOptions{})
	if narrowed != b.String {
		t.Fatalf("expected typeof guard to narrow string|number to string, got %v", narrowed)
	}

	negGuard := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowTypeOfGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.typeOfEq(h.ident("x"), "string"),
		Symbol:      x,
		Negated:     true,
	})
	widened := h.e.NarrowTypeAt(negGuard, x, union, NarrowOptions{})
	if widened != b.Number {
		t.Fatalf("expected the false branch to exclude string, got %v", widened)
	}
}

func TestNarrowTypeAtDiscriminant(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	kind := h.strs.Intern("kind")
	circleTag := h.in.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: h.strs.Intern("circle")})
	squareTag := h.in.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: h.strs.Intern("square")})
	circle := h.in.InternObject([]types.Property{{Name: kind, Type: circleTag}, {Name: h.strs.Intern("radius"), Type: b.Number}})
	square := h.in.InternObject([]types.Property{{Name: kind, Type: squareTag}, {Name: h.strs.Intern("side"), Type: b.Number}})
	union := h.in.InternUnion([]types.TypeID{circle, square})
	x := h.newSymbol("shape")

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	guard := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowEqualityGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.propEq(h.ident("shape"), "kind", "circle"),
		Symbol:      x,
	})

	narrowed := h.e.NarrowTypeAt(guard, x, union, NarrowOptions{})
	if narrowed != circle {
		t.Fatalf("expected discriminant guard to narrow to the circle member, got %v", narrowed)
	}
}

func TestNarrowTypeAtJoinsConvergingBranches(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	union := h.in.InternUnion([]types.TypeID{b.String, b.Number, b.Boolean})
	x := h.newSymbol("x")

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	trueBranch := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowTypeOfGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.typeOfEq(h.ident("x"), "string"),
		Symbol:      x,
	})
	falseBranch := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowTypeOfGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.typeOfEq(h.ident("x"), "string"),
		Symbol:      x,
		Negated:     true,
	})
	join := h.graph.New(bind.FlowNode{Kind: bind.FlowLabel, Antecedents: []bind.FlowNodeID{trueBranch, falseBranch}})

	joined := h.e.NarrowTypeAt(join, x, union, NarrowOptions{})
	if !h.in.IsUnion(joined) {
		t.Fatalf("expected the join to still be a union, got %v", joined)
	}
	members := h.in.UnionMembers(joined)
	if len(members) != 3 {
		t.Fatalf("expected the join of (string) and (number|boolean) to flatten back to 3 members, got %d", len(members))
	}
}

func TestNarrowTypeAtClosureRuleRevertsMutableBinding(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	union := h.in.InternUnion([]types.TypeID{b.String, b.Number})
	x := h.newSymbol("x")

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	guard := h.graph.New(bind.FlowNode{
		Kind:        bind.FlowTypeOfGuard,
		Antecedents: []bind.FlowNodeID{start},
		Expr:        h.typeOfEq(h.ident("x"), "string"),
		Symbol:      x,
	})

	result := h.e.NarrowTypeAt(guard, x, union, NarrowOptions{CrossesClosureBoundary: true, MutableBinding: true})
	if result != union {
		t.Fatalf("a mutable binding captured across a closure boundary must revert to its declared type")
	}
}

func TestIsMutableBindingReadsVarKind(t *testing.T) {
	h := newHarness()
	constSym := h.newSymbol("c")
	letSym := h.newSymbol("l")

	constDecl := h.decls.Vars.Allocate(ast.VarDecl{VarKind: ast.VarConst, Name: h.strs.Intern("c")})
	constDeclID := h.decls.New(ast.DeclVar, source.Span{}, 0, constDecl)
	sym := h.syms.Get(constSym)
	sym.ValueDeclaration = constDeclID

	letDecl := h.decls.Vars.Allocate(ast.VarDecl{VarKind: ast.VarLet, Name: h.strs.Intern("l")})
	letDeclID := h.decls.New(ast.DeclVar, source.Span{}, 0, letDecl)
	sym2 := h.syms.Get(letSym)
	sym2.ValueDeclaration = letDeclID

	if h.e.IsMutableBinding(constSym) {
		t.Fatalf("const binding must not be reported mutable")
	}
	if !h.e.IsMutableBinding(letSym) {
		t.Fatalf("let binding must be reported mutable")
	}
}

func TestIsDefinitelyAssignedRequiresAssignmentOnEveryPath(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	x := h.newSymbol("x")

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	assigned := h.graph.New(bind.FlowNode{Kind: bind.FlowAssignment, Antecedents: []bind.FlowNodeID{start}, Symbol: x})
	unassigned := start
	join := h.graph.New(bind.FlowNode{Kind: bind.FlowLabel, Antecedents: []bind.FlowNodeID{assigned, unassigned}})

	q := DefiniteAssignmentQuery{Declared: b.String}
	if h.e.IsDefinitelyAssigned(join, x, q) {
		t.Fatalf("a join with one unassigned path must not be definitely assigned")
	}

	onlyAssigned := h.graph.New(bind.FlowNode{Kind: bind.FlowLabel, Antecedents: []bind.FlowNodeID{assigned}})
	if !h.e.IsDefinitelyAssigned(onlyAssigned, x, q) {
		t.Fatalf("every path through an assignment node must be definitely assigned")
	}
}

func TestIsDefinitelyAssignedSkipsWhenDeclaredContainsUndefined(t *testing.T) {
	h := newHarness()
	b := h.in.Builtins()
	x := h.newSymbol("x")
	optional := h.in.InternUnion([]types.TypeID{b.String, b.Undefined})

	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	if !h.e.IsDefinitelyAssigned(start, x, DefiniteAssignmentQuery{Declared: optional}) {
		t.Fatalf("a declared type containing undefined should skip the definite-assignment check")
	}
}

func TestIsPostFinallyReachable(t *testing.T) {
	h := newHarness()
	start := h.graph.New(bind.FlowNode{Kind: bind.FlowStart})
	dead := h.graph.New(bind.FlowNode{Kind: bind.FlowUnreachable, Antecedents: []bind.FlowNodeID{start}})
	alive := h.graph.New(bind.FlowNode{Kind: bind.FlowLabel, Antecedents: []bind.FlowNodeID{start}})
	joinAllDead := h.graph.New(bind.FlowNode{Kind: bind.FlowLabel, Antecedents: []bind.FlowNodeID{dead}})

	if !h.e.IsPostFinallyReachable(alive) {
		t.Fatalf("a node reachable straight from start must be reachable")
	}
	if h.e.IsPostFinallyReachable(dead) {
		t.Fatalf("an unreachable node must be reported unreachable")
	}
	if h.e.IsPostFinallyReachable(joinAllDead) {
		t.Fatalf("a node reachable only through an unreachable predecessor must be unreachable")
	}
}
