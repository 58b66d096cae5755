package assign

import (
	"testing"

	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

func newEngine() (*Engine, *types.Interner, *source.Interner) {
	strs := source.NewInterner()
	in := types.NewInterner()
	env := tenv.New(0, 0)
	store := defs.NewStore()
	return New(in, env, store, strs, nil, nil), in, strs
}

func TestIsAssignableIdentity(t *testing.T) {
	e, in, _ := newEngine()
	if !e.IsAssignable(in.Builtins().String, in.Builtins().String, Flags{}) {
		t.Fatalf("string should be assignable to itself")
	}
}

func TestIsAssignableAnyAndNever(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	if !e.IsAssignable(b.Any, b.String, Flags{}) {
		t.Fatalf("ANY must be assignable to anything")
	}
	if !e.IsAssignable(b.String, b.Any, Flags{}) {
		t.Fatalf("anything must be assignable to ANY")
	}
	if !e.IsAssignable(b.Never, b.String, Flags{}) {
		t.Fatalf("NEVER must be assignable to anything")
	}
	if e.IsAssignable(b.String, b.Never, Flags{}) {
		t.Fatalf("nothing but NEVER should be assignable to NEVER")
	}
}

func TestIsSubtypeSoundModeRejectsAny(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	if e.IsSubtype(b.Any, b.String, Flags{SoundMode: true}) {
		t.Fatalf("sound mode must not let ANY satisfy a required position")
	}
	if !e.IsSubtype(b.Any, b.String, Flags{SoundMode: false}) {
		t.Fatalf("outside sound mode ANY should still satisfy a required position")
	}
}

func TestIsAssignableUnionDistribution(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	union := in.InternUnion([]types.TypeID{b.String, b.Number})

	if !e.IsAssignable(b.String, union, Flags{}) {
		t.Fatalf("a union member must be assignable to its own union")
	}
}

func TestIsAssignableUnionDistributionFailsForNonMember(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	union := in.InternUnion([]types.TypeID{b.String, b.Number})
	if e.IsAssignable(b.Boolean, union, Flags{}) {
		t.Fatalf("boolean should not be assignable to string|number")
	}
}

func TestIsAssignableLiteralWidening(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	lit := in.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: strs.Intern("GET")})
	if !e.IsAssignable(lit, b.String, Flags{}) {
		t.Fatalf("a string literal must be assignable to string")
	}
	if e.IsAssignable(b.String, lit, Flags{}) {
		t.Fatalf("string must not be assignable to a narrower literal without an assertion")
	}
}

func TestIsAssignableObjectStructural(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	name := strs.Intern("name")
	age := strs.Intern("age")

	target := in.InternObject([]types.Property{
		{Name: name, Type: b.String},
	})
	sourceExact := in.InternObject([]types.Property{
		{Name: name, Type: b.String},
		{Name: age, Type: b.Number},
	})
	if !e.IsAssignable(sourceExact, target, Flags{}) {
		t.Fatalf("an object with extra properties should satisfy a narrower target (width subtyping)")
	}

	missing := in.InternObject([]types.Property{
		{Name: age, Type: b.Number},
	})
	if e.IsAssignable(missing, target, Flags{}) {
		t.Fatalf("missing a required property must fail")
	}
}

func TestIsAssignableObjectOptionalProperty(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	name := strs.Intern("name")
	target := in.InternObject([]types.Property{
		{Name: name, Type: b.String, Optional: true},
	})
	empty := in.InternObject(nil)
	if !e.IsAssignable(empty, target, Flags{}) {
		t.Fatalf("an optional property should not be required on the source")
	}
}

func TestIsAssignableReadonlyViolation(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	name := strs.Intern("name")
	target := in.InternObject([]types.Property{{Name: name, Type: b.String}})
	srcObj := in.InternObject([]types.Property{{Name: name, Type: b.String, Readonly: true}})
	if e.IsAssignable(srcObj, target, Flags{}) {
		t.Fatalf("a readonly source property must not satisfy a mutable target position")
	}
}

func TestIsAssignableArrayAndTuple(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	litArr := in.InternArray(in.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: strs.Intern("GET")}))
	strArr := in.InternArray(b.String)
	if !e.IsAssignable(litArr, strArr, Flags{}) {
		t.Fatalf("an array of a string literal should be assignable to string[]")
	}
	if e.IsAssignable(strArr, litArr, Flags{}) {
		t.Fatalf("string[] should not be assignable to an array of a narrower literal")
	}

	tupA := in.InternTuple([]types.TupleElement{{Type: b.String}, {Type: b.Number}})
	tupB := in.InternTuple([]types.TupleElement{{Type: b.String}, {Type: b.Number}})
	if !e.IsAssignable(tupA, tupB, Flags{}) {
		t.Fatalf("identical tuples should be assignable")
	}
	tupC := in.InternTuple([]types.TupleElement{{Type: b.String}})
	if e.IsAssignable(tupC, tupB, Flags{}) {
		t.Fatalf("tuples of different arity must not be assignable")
	}
}

func TestFunctionContravarianceUnderStrictFunctionTypes(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	union := in.InternUnion([]types.TypeID{b.String, b.Number})

	// (x: string|number) => void is assignable to (x: string) => void:
	// the wider param type accepts a narrower call-site argument.
	wideParam := in.InternFunction(types.Signature{Params: []types.Param{{Type: union}}, Return: b.Void}, false)
	narrowParam := in.InternFunction(types.Signature{Params: []types.Param{{Type: b.String}}, Return: b.Void}, false)

	if !e.IsAssignable(wideParam, narrowParam, Flags{StrictFunctionTypes: true}) {
		t.Fatalf("a function accepting string|number should be assignable where string is expected")
	}
	if e.IsAssignable(narrowParam, wideParam, Flags{StrictFunctionTypes: true}) {
		t.Fatalf("a function accepting only string should not satisfy string|number under strict variance")
	}
}

func TestIsIdenticalRejectsWidening(t *testing.T) {
	e, in, strs := newEngine()
	b := in.Builtins()
	lit := in.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: strs.Intern("GET")})
	if e.IsIdentical(lit, b.String, Flags{}) {
		t.Fatalf("identical must not widen a literal to its primitive")
	}
	if !e.IsIdentical(b.String, b.String, Flags{}) {
		t.Fatalf("identical must hold for the same type")
	}
}

func TestIsComparablePermitsEitherDirection(t *testing.T) {
	e, in, _ := newEngine()
	b := in.Builtins()
	union := in.InternUnion([]types.TypeID{b.String, b.Number})
	if !e.IsComparable(b.String, union, Flags{}) {
		t.Fatalf("string should be comparable against string|number")
	}
	if !e.IsComparable(union, b.String, Flags{}) {
		t.Fatalf("comparable must be direction-agnostic")
	}
}

func TestNominallyRelatedWalksBaseDefs(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner()
	env := tenv.New(0, 0)
	store := defs.NewStore()

	base := defs.DefID(1)
	mid := defs.DefID(2)
	derived := defs.DefID(3)
	bases := map[defs.DefID][]defs.DefID{
		derived: {mid},
		mid:     {base},
	}
	e := New(in, env, store, strs, func(d defs.DefID) []defs.DefID { return bases[d] }, nil)

	if !e.nominallyRelated(derived, base) {
		t.Fatalf("expected derived to transitively reach base through mid")
	}
	if e.nominallyRelated(base, derived) {
		t.Fatalf("inheritance is not symmetric")
	}
}
