package types

import "testing"

func TestInternKeyOfRoundTrip(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	k := in.InternKeyOf(str)
	if in.KeyOfOperand(k) != str {
		t.Fatalf("keyof operand mismatch")
	}
}

func TestInternIndexAccessRoundTrip(t *testing.T) {
	in := NewInterner()
	obj := in.InternObject(nil)
	idx := in.Builtins().String
	ia := in.InternIndexAccess(obj, idx)
	o, i, ok := in.IndexAccessOperands(ia)
	if !ok || o != obj || i != idx {
		t.Fatalf("index access operands mismatch: %v %v ok=%v", o, i, ok)
	}
}

func TestInternThisIsSingleton(t *testing.T) {
	in := NewInterner()
	a := in.InternThis()
	b := in.InternThis()
	if a != b {
		t.Fatalf("this type should be a singleton within an interner")
	}
}

func TestInternConditionalRoundTrip(t *testing.T) {
	in := NewInterner()
	str := in.Builtins().String
	num := in.Builtins().Number
	any := in.Builtins().Any
	never := in.Builtins().Never
	c := in.InternConditional(str, num, any, never)
	info, ok := in.ConditionalInfo(c)
	if !ok || info.Check != str || info.Extends != num || info.True != any || info.False != never {
		t.Fatalf("conditional info mismatch: %+v ok=%v", info, ok)
	}
}

func TestInternMappedRoundTrip(t *testing.T) {
	in := NewInterner()
	keys := in.InternKeyOf(in.Builtins().Object)
	tmpl := in.Builtins().String
	m := in.InternMapped(MappedInfo{KeySource: keys, Template: tmpl, Optional: MappedAdd, Readonly: MappedRemove})
	info, ok := in.MappedInfo(m)
	if !ok || info.KeySource != keys || info.Template != tmpl || info.Optional != MappedAdd || info.Readonly != MappedRemove {
		t.Fatalf("mapped info mismatch: %+v ok=%v", info, ok)
	}
}

func TestInternTemplateLiteralRoundTrip(t *testing.T) {
	in := NewInterner()
	segs := []TemplateSegment{{IsType: false, Str: 1}, {IsType: true, Type: in.Builtins().String}}
	tl := in.InternTemplateLiteral(segs)
	got := in.TemplateLiteralSegments(tl)
	if len(got) != 2 || got[0].Str != 1 || got[1].Type != in.Builtins().String {
		t.Fatalf("template literal segments mismatch: %+v", got)
	}
}

func TestInternStringIntrinsicRoundTrip(t *testing.T) {
	in := NewInterner()
	arg := in.Builtins().String
	si := in.InternStringIntrinsic(StringIntrinsicUppercase, arg)
	kind, operand, ok := in.StringIntrinsicOperands(si)
	if !ok || kind != StringIntrinsicUppercase || operand != arg {
		t.Fatalf("string intrinsic operands mismatch: %v %v ok=%v", kind, operand, ok)
	}
}

func TestGetConstructSignaturesFunction(t *testing.T) {
	in := NewInterner()
	sig := Signature{Return: in.Builtins().Void}
	ctor := in.InternFunction(sig, true)
	sigs := in.GetConstructSignatures(ctor)
	if len(sigs) != 1 || sigs[0].Return != in.Builtins().Void {
		t.Fatalf("expected one construct signature, got %+v", sigs)
	}
	plain := in.InternFunction(sig, false)
	if len(in.GetConstructSignatures(plain)) != 0 {
		t.Fatalf("non-constructor function should have no construct signatures")
	}
}

func TestIsGenericDetectsTypeParameter(t *testing.T) {
	in := NewInterner()
	tp := in.InternTypeParameter(TypeParamInfo{Name: 1})
	if !in.IsGeneric(tp) {
		t.Fatalf("type parameter should be generic")
	}
	arr := in.InternArray(tp)
	if !in.IsGeneric(arr) {
		t.Fatalf("array of a type parameter should be generic")
	}
	if in.IsGeneric(in.Builtins().String) {
		t.Fatalf("string should not be generic")
	}
}
