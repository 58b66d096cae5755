package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Any == NoTypeID || b.Number == NoTypeID || b.Error == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	n, ok := in.Lookup(b.Number)
	if !ok || n.Kind != KindIntrinsic {
		t.Fatalf("expected intrinsic kind, got %v ok=%v", n.Kind, ok)
	}
	kind, ok := in.IntrinsicOf(b.Number)
	if !ok || kind != IntrinsicNumber {
		t.Fatalf("expected IntrinsicNumber, got %v ok=%v", kind, ok)
	}
}

func TestInternerDeduplicatesIntrinsics(t *testing.T) {
	in := NewInterner()
	a := in.InternIntrinsic(IntrinsicString)
	b := in.InternIntrinsic(IntrinsicString)
	if a != b {
		t.Fatalf("intrinsic interning should be idempotent")
	}
}

func TestInternerDeduplicatesArrays(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().String
	a := in.InternArray(elem)
	b := in.InternArray(elem)
	if a != b {
		t.Fatalf("array types should be deduplicated")
	}
	if in.ArrayElement(a) != elem {
		t.Fatalf("ArrayElement mismatch")
	}
}

func TestInternerDeduplicatesObjects(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	props := []Property{{Name: 2, Type: num}, {Name: 1, Type: str}}
	a := in.InternObject(props)
	b := in.InternObject([]Property{{Name: 1, Type: str}, {Name: 2, Type: num}})
	if a != b {
		t.Fatalf("object types with same properties in different order should dedupe")
	}
}

func TestFreshenWidenRoundTrip(t *testing.T) {
	in := NewInterner()
	obj := in.InternObject([]Property{{Name: 1, Type: in.Builtins().String}})
	fresh := in.Freshen(obj)
	if fresh == obj {
		t.Fatalf("fresh object type must be distinct from widened")
	}
	widened := in.Widen(fresh)
	if widened != obj {
		t.Fatalf("widening a fresh type should recover the original")
	}
}

func TestLookupOutOfRange(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(TypeID(999999)); ok {
		t.Fatalf("expected lookup miss for out-of-range id")
	}
}
