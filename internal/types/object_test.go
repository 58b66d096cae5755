package types

import "testing"

func TestPropertyAccessSuccess(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	obj := in.InternObject([]Property{{Name: 1, Type: str}})
	r := in.PropertyAccess(obj, 1)
	if r.Kind != AccessSuccess || r.Type != str {
		t.Fatalf("expected success with string type, got %+v", r)
	}
}

func TestPropertyAccessNotFound(t *testing.T) {
	in := NewInterner()
	obj := in.InternObject(nil)
	r := in.PropertyAccess(obj, 1)
	if r.Kind != AccessNotFound {
		t.Fatalf("expected not-found, got %+v", r)
	}
}

func TestPropertyAccessOnAny(t *testing.T) {
	in := NewInterner()
	any := in.Builtins().Any
	r := in.PropertyAccess(any, 1)
	if r.Kind != AccessSuccess || r.Type != any {
		t.Fatalf("property access on any should succeed with any, got %+v", r)
	}
}

func TestPropertyAccessOnNullUndefined(t *testing.T) {
	in := NewInterner()
	r := in.PropertyAccess(in.Builtins().Null, 1)
	if r.Kind != AccessPossiblyNullOrUndefined {
		t.Fatalf("expected possibly-null-or-undefined, got %+v", r)
	}
}

func TestPropertyAccessOnUnknown(t *testing.T) {
	in := NewInterner()
	r := in.PropertyAccess(in.Builtins().Unknown, 1)
	if r.Kind != AccessIsUnknown {
		t.Fatalf("expected is-unknown, got %+v", r)
	}
}

func TestPropertyAccessBoxedPrimitive(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	boxed := in.InternObject([]Property{{Name: 5, Type: num}})
	in.RegisterBoxedType(IntrinsicString, boxed)
	r := in.PropertyAccess(str, 5)
	if r.Kind != AccessSuccess || r.Type != num {
		t.Fatalf("expected fallback to boxed String.prototype member, got %+v", r)
	}
}

func TestPropertyAccessOnUnionCombinesMembers(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	a := in.InternObject([]Property{{Name: 1, Type: str}})
	b := in.InternObject([]Property{{Name: 1, Type: num}})
	u := in.InternUnion([]TypeID{a, b})
	r := in.PropertyAccess(u, 1)
	if r.Kind != AccessSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	if !in.IsUnion(r.Type) {
		t.Fatalf("expected combined member types to form a union")
	}
}

func TestPropertyAccessOnUnionNotFoundWhenAnyMemberMisses(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	a := in.InternObject([]Property{{Name: 1, Type: str}})
	b := in.InternObject(nil)
	u := in.InternUnion([]TypeID{a, b})
	r := in.PropertyAccess(u, 1)
	if r.Kind != AccessNotFound {
		t.Fatalf("expected not-found when one union member lacks the property, got %+v", r)
	}
}

func TestPropertyAccessArrayLength(t *testing.T) {
	in := NewInterner()
	RegisterLengthAtom(7)
	arr := in.InternArray(in.Builtins().String)
	r := in.PropertyAccess(arr, 7)
	if r.Kind != AccessSuccess || r.Type != in.Builtins().Number {
		t.Fatalf("expected array.length to be number, got %+v", r)
	}
}

func TestPropertyAccessCallableProperties(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	callable := in.InternCallable(nil, nil, []Property{{Name: 3, Type: str}})
	r := in.PropertyAccess(callable, 3)
	if r.Kind != AccessSuccess || r.Type != str {
		t.Fatalf("expected success reading callable property, got %+v", r)
	}
}

func TestPropertyAccessIndexSignatureFallback(t *testing.T) {
	in := NewInterner()
	num := in.Builtins().Number
	obj := in.InternObjectWithIndex(nil, num, false, NoTypeID, false)
	r := in.PropertyAccess(obj, 99)
	if r.Kind != AccessSuccess || !r.FromIndex || r.Type != num {
		t.Fatalf("expected index-signature fallback, got %+v", r)
	}
}
