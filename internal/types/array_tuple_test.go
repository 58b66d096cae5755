package types

import (
	"testing"

	"github.com/vovakirdan/tscheck/internal/defs"
)

func TestInternTupleRoundTrip(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	elems := []TupleElement{{Type: str}, {Type: num, Optional: true}, {Type: str, Rest: true}}
	tp := in.InternTuple(elems)
	got := in.TupleElements(tp)
	if len(got) != 3 || got[1].Optional != true || got[2].Rest != true {
		t.Fatalf("tuple elements mismatch: %+v", got)
	}
}

func TestInternTupleDedupes(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	a := in.InternTuple([]TupleElement{{Type: str}})
	b := in.InternTuple([]TupleElement{{Type: str}})
	if a != b {
		t.Fatalf("identical tuples should dedupe")
	}
}

func TestInternLazyRoundTrip(t *testing.T) {
	in := NewInterner()
	store := defs.NewStore()
	def := store.CreateDef(1, 0, defs.KindClass, 0)
	lazy := in.InternLazy(def)
	got, ok := in.GetLazyDefID(lazy)
	if !ok || got != def {
		t.Fatalf("lazy def id mismatch: %v ok=%v", got, ok)
	}
}

func TestInternApplicationRoundTrip(t *testing.T) {
	in := NewInterner()
	store := defs.NewStore()
	def := store.CreateDef(2, 0, defs.KindClass, 0)
	args := []TypeID{in.Builtins().String, in.Builtins().Number}
	app := in.InternApplication(def, args)
	base, gotArgs, ok := in.ApplicationInfo(app)
	if !ok || base != def || len(gotArgs) != 2 || gotArgs[0] != args[0] || gotArgs[1] != args[1] {
		t.Fatalf("application info mismatch: base=%v args=%v ok=%v", base, gotArgs, ok)
	}
}

func TestEnumRoundTrip(t *testing.T) {
	in := NewInterner()
	store := defs.NewStore()
	def := store.CreateDef(3, 0, defs.KindEnum, 0)
	e := in.InternEnum(def, in.Builtins().String)
	info, ok := in.EnumInfo(e)
	if !ok || info.Def != def || info.MemberValue != in.Builtins().String {
		t.Fatalf("enum info mismatch: %+v ok=%v", info, ok)
	}
}

func TestModuleNamespaceRoundTrip(t *testing.T) {
	in := NewInterner()
	ns := in.InternModuleNamespace(SymbolRef(42))
	info, ok := in.ModuleNamespaceInfo(ns)
	if !ok || info.Symbol != SymbolRef(42) {
		t.Fatalf("module namespace info mismatch: %+v ok=%v", info, ok)
	}
}
