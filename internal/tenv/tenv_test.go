package tenv

import (
	"testing"

	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/types"
)

func TestResolutionStateCycle(t *testing.T) {
	e := New(0, 0)
	def := defs.DefID(1)

	unresolved, resolving, resolved := e.State(def)
	if !unresolved || resolving || resolved {
		t.Fatalf("expected fresh def to be unresolved, got %v %v %v", unresolved, resolving, resolved)
	}

	if !e.BeginResolving(def) {
		t.Fatalf("expected first BeginResolving to succeed")
	}
	if e.BeginResolving(def) {
		t.Fatalf("expected repeat BeginResolving to report a cycle")
	}
	e.FinishResolving(def)
	_, _, resolved = e.State(def)
	if !resolved {
		t.Fatalf("expected def to be resolved after FinishResolving")
	}
}

func TestValueAndInstanceTypeAreIndependent(t *testing.T) {
	e := New(0, 0)
	def := defs.DefID(1)
	e.SetInstanceType(def, types.TypeID(7))
	e.SetValueType(def, types.TypeID(9))

	inst, ok := e.InstanceType(def)
	if !ok || inst != 7 {
		t.Fatalf("unexpected instance type: %v ok=%v", inst, ok)
	}
	val, ok := e.ValueType(def)
	if !ok || val != 9 {
		t.Fatalf("unexpected value type: %v ok=%v", val, ok)
	}
}

func TestBoxedArrayAndEnumRegistries(t *testing.T) {
	e := New(0, 0)
	strDef := defs.DefID(3)
	e.RegisterBoxedType("string", strDef)
	got, ok := e.BoxedType("string")
	if !ok || got != strDef {
		t.Fatalf("unexpected boxed type: %v ok=%v", got, ok)
	}
	if _, ok := e.BoxedType("number"); ok {
		t.Fatalf("expected no boxed type registered for number")
	}

	arrDef := defs.DefID(4)
	e.RegisterArrayBase(arrDef)
	got2, ok := e.ArrayBase()
	if !ok || got2 != arrDef {
		t.Fatalf("unexpected array base: %v ok=%v", got2, ok)
	}

	enumDef, memberDef := defs.DefID(5), defs.DefID(6)
	e.RegisterNumericEnum(enumDef)
	if !e.IsNumericEnum(enumDef) {
		t.Fatalf("expected enumDef to be numeric")
	}
	e.RegisterEnumParent(memberDef, enumDef)
	parent, ok := e.EnumParent(memberDef)
	if !ok || parent != enumDef {
		t.Fatalf("unexpected enum parent: %v ok=%v", parent, ok)
	}
}

func TestDepthAndFuelDefaults(t *testing.T) {
	e := New(0, 0)
	if e.DepthLimit() <= 0 {
		t.Fatalf("expected a positive default depth limit")
	}
	if e.FuelLimit() <= 0 {
		t.Fatalf("expected a positive default fuel limit")
	}
	e2 := New(5, 10)
	if e2.DepthLimit() != 5 || e2.FuelLimit() != 10 {
		t.Fatalf("expected explicit limits to be honored, got %d/%d", e2.DepthLimit(), e2.FuelLimit())
	}
}
