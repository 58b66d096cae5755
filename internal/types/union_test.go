package types

import "testing"

func TestInternUnionFlattensAndDedupes(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	inner := in.InternUnion([]TypeID{str, num})
	outer := in.InternUnion([]TypeID{inner, str})
	members := in.UnionMembers(outer)
	if len(members) != 2 {
		t.Fatalf("expected 2 flattened+deduped members, got %d", len(members))
	}
}

func TestInternUnionSingleMemberCollapses(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	got := in.InternUnion([]TypeID{str, str})
	if got != str {
		t.Fatalf("single-member union should collapse to the member itself")
	}
}

func TestInternUnionEmptyCollapsesToNever(t *testing.T) {
	in := NewInterner()
	got := in.InternUnion(nil)
	if got != in.Builtins().Never {
		t.Fatalf("empty union should collapse to never")
	}
}

func TestInternUnionAbsorbsNever(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	got := in.InternUnion([]TypeID{str, in.Builtins().Never})
	if got != str {
		t.Fatalf("never should be absorbed out of a union")
	}
}

func TestInternIntersectionEliminatesUnknown(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	got := in.InternIntersection([]TypeID{str, in.Builtins().Unknown})
	if got != str {
		t.Fatalf("unknown should be eliminated from an intersection")
	}
}

func TestInternIntersectionAllUnknownStaysUnknown(t *testing.T) {
	in := NewInterner()
	got := in.InternIntersection([]TypeID{in.Builtins().Unknown})
	if got != in.Builtins().Unknown {
		t.Fatalf("intersection of only unknown should stay unknown")
	}
}

func TestInternIntersectionWithNeverIsNever(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	got := in.InternIntersection([]TypeID{str, num})
	if !in.IsIntersection(got) {
		t.Fatalf("expected an intersection type")
	}
	withNever := in.InternIntersection([]TypeID{str, in.Builtins().Never})
	if withNever != in.Builtins().Never {
		t.Fatalf("intersection containing never should collapse to never")
	}
}

func TestTypeContainsUndefined(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	undef := in.Builtins().Undefined
	u := in.InternUnion([]TypeID{str, undef})
	if !in.TypeContainsUndefined(u) {
		t.Fatalf("union containing undefined should report true")
	}
	if in.TypeContainsUndefined(str) {
		t.Fatalf("string alone should not contain undefined")
	}
}
