package lower

import (
	"testing"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

// fakeResolver satisfies Resolver with a single preloaded type-name binding,
// standing in for the scope table internal/checker builds over internal/bind.
type fakeResolver struct {
	names map[source.StringID]bind.SymbolID
	defs  map[bind.SymbolID]defs.DefID
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{names: map[source.StringID]bind.SymbolID{}, defs: map[bind.SymbolID]defs.DefID{}}
}

func (f *fakeResolver) bindType(name source.StringID, sym bind.SymbolID, def defs.DefID) {
	f.names[name] = sym
	f.defs[sym] = def
}

func (f *fakeResolver) ResolveTypeName(name source.StringID) (bind.SymbolID, bool) {
	sym, ok := f.names[name]
	return sym, ok
}

func (f *fakeResolver) ResolveValueName(name source.StringID) (bind.SymbolID, bool) {
	sym, ok := f.names[name]
	return sym, ok
}

func (f *fakeResolver) DefOf(sym bind.SymbolID) (defs.DefID, bool) {
	d, ok := f.defs[sym]
	return d, ok
}

type testFixture struct {
	l         *Lowerer
	strs      *source.Interner
	tn        *ast.TypeNodes
	decls     *ast.Decls
	resolver  *fakeResolver
	diagBag   *diag.Bag
}

func newFixture() *testFixture {
	strs := source.NewInterner()
	in := types.NewInterner()
	store := defs.NewStore()
	env := tenv.New(0, 0)
	decls := ast.NewDecls(0)
	tn := ast.NewTypeNodes(0)
	resolver := newFakeResolver()
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	l := New(in, store, env, decls, tn, strs, resolver, reporter)
	return &testFixture{l: l, strs: strs, tn: tn, decls: decls, resolver: resolver, diagBag: bag}
}

func (f *testFixture) literalType(kind ast.LiteralKind, str string, num float64) ast.TypeNodeID {
	payload := f.tn.Literals.Allocate(ast.LiteralTypeNode{Kind: kind, String: f.strs.Intern(str), Number: num})
	return f.tn.New(ast.TypeNodeLiteral, source.Span{}, payload)
}

func (f *testFixture) refType(name string, args ...ast.TypeNodeID) ast.TypeNodeID {
	payload := f.tn.Refs.Allocate(ast.TypeRefNode{Name: f.strs.Intern(name), TypeArgs: args})
	return f.tn.New(ast.TypeNodeRef, source.Span{}, payload)
}

func TestTypeFromNodeIntrinsics(t *testing.T) {
	f := newFixture()
	got := f.l.TypeFromNode(f.refType("string"), nil)
	if got != f.l.Types.Builtins().String {
		t.Fatalf("expected string intrinsic, got %v", got)
	}
}

func TestTypeFromNodeLiteral(t *testing.T) {
	f := newFixture()
	id := f.literalType(ast.LiteralString, "GET", 0)
	got := f.l.TypeFromNode(id, nil)
	info, ok := f.l.Types.LiteralInfo(got)
	if !ok || info.ValueKind != types.LiteralValueString {
		t.Fatalf("expected string literal type, got %+v ok=%v", info, ok)
	}
}

func TestTypeFromNodeUnion(t *testing.T) {
	f := newFixture()
	a := f.refType("string")
	b := f.refType("number")
	payload := f.tn.Unions.Allocate(ast.UnionTypeNode{Members: []ast.TypeNodeID{a, b}})
	id := f.tn.New(ast.TypeNodeUnion, source.Span{}, payload)

	got := f.l.TypeFromNode(id, nil)
	members := f.l.Types.UnionMembers(got)
	if len(members) != 2 {
		t.Fatalf("expected 2 union members, got %d", len(members))
	}
}

func TestTypeFromNodeArray(t *testing.T) {
	f := newFixture()
	elem := f.refType("number")
	payload := f.tn.Arrays.Allocate(ast.ArrayTypeNode{Element: elem})
	id := f.tn.New(ast.TypeNodeArray, source.Span{}, payload)

	got := f.l.TypeFromNode(id, nil)
	if f.l.Types.ArrayElement(got) != f.l.Types.Builtins().Number {
		t.Fatalf("expected number[] element type to be number")
	}
}

func TestTypeFromNodeRefUnknownNameReportsTS2304(t *testing.T) {
	f := newFixture()
	id := f.refType("Nope")
	got := f.l.TypeFromNode(id, nil)
	errT, _ := f.l.Types.Lookup(got)
	if errT.Kind != types.KindError {
		t.Fatalf("expected ERROR type for unresolved name, got kind %v", errT.Kind)
	}
	if !f.diagBag.HasErrors() {
		t.Fatalf("expected a diagnostic for the unresolved name")
	}
}

func TestTypeFromNodeGenericRequiresArity(t *testing.T) {
	f := newFixture()
	boxName := f.strs.Intern("Box")
	sym := bind.SymbolID(1)
	boxDef := f.l.Defs.CreateDef(boxName, 0, defs.KindClass, ast.NoDeclID)
	f.l.Defs.SetTypeParams(boxDef, []defs.TypeParamInfo{{Name: f.strs.Intern("T")}})
	f.resolver.bindType(boxName, sym, boxDef)

	// Reference without type arguments must fail arity (TS2314).
	bare := f.refType("Box")
	got := f.l.TypeFromNode(bare, nil)
	errT, _ := f.l.Types.Lookup(got)
	if errT.Kind != types.KindError {
		t.Fatalf("expected ERROR for missing type arguments, got kind %v", errT.Kind)
	}

	// Reference with a type argument must produce an Application.
	withArg := f.refType("Box", f.refType("string"))
	got2 := f.l.TypeFromNode(withArg, nil)
	base, args, ok := f.l.Types.ApplicationInfo(got2)
	if !ok || base != boxDef || len(args) != 1 {
		t.Fatalf("expected Application(Box, [string]), got base=%v args=%v ok=%v", base, args, ok)
	}
}

func TestTypeFromNodeFunctionType(t *testing.T) {
	f := newFixture()
	paramID := f.decls.Params.Allocate(ast.ParamDecl{Name: f.strs.Intern("x"), TypeAnn: f.refType("number")})
	ret := f.refType("boolean")
	payload := f.tn.Functions.Allocate(ast.FunctionTypeNode{Params: []ast.ParamID{ast.ParamID(paramID)}, ReturnType: ret})
	id := f.tn.New(ast.TypeNodeFunction, source.Span{}, payload)

	got := f.l.TypeFromNode(id, nil)
	info, ok := f.l.Types.FuncInfo(got)
	if !ok || info.IsConstructor {
		t.Fatalf("expected a non-constructor function type")
	}
	if info.Sig.Return != f.l.Types.Builtins().Boolean {
		t.Fatalf("expected boolean return type")
	}
	if len(info.Sig.Params) != 1 || info.Sig.Params[0].Type != f.l.Types.Builtins().Number {
		t.Fatalf("expected one number parameter, got %+v", info.Sig.Params)
	}
}

func TestTypeFromNodeMappedModifierConversion(t *testing.T) {
	if mappedModifier(ast.MappedModifierAdd) != types.MappedAdd {
		t.Fatalf("expected MappedModifierAdd to convert to MappedAdd")
	}
	if mappedModifier(ast.MappedModifierRemove) != types.MappedRemove {
		t.Fatalf("expected MappedModifierRemove to convert to MappedRemove")
	}
	if mappedModifier(ast.MappedModifierNone) != types.MappedUnchanged {
		t.Fatalf("expected MappedModifierNone to convert to MappedUnchanged")
	}
}
